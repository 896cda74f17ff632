package domain

// DispatchState enumerates the dispatcher's confirmation states.
type DispatchState string

const (
	StateReady               DispatchState = "READY"
	StateAwaitingDeleteReply DispatchState = "AWAITING_DELETE_CONFIRMATION"
)

// PendingDelete holds a staged delete awaiting a yes/no reply. At most one
// instance is live; the next utterance consumes it regardless of content.
type PendingDelete struct {
	Target TargetKind
	Name   string
}

// Response is the outcome of dispatching one utterance: exactly one display
// block, a separate vocalization string, and an exit flag raised only by the
// EXIT intent.
type Response struct {
	Text  string
	Speak string
	Exit  bool

	// Pending is set when a delete has been staged and the shell should
	// treat the next utterance as a confirmation answer.
	Pending *PendingDelete
}

// DirEntry is one listed entry of the current directory.
type DirEntry struct {
	Name string
	Dir  bool
}

// GrepMatch is one content-search hit: sandbox-relative path, 1-based line
// number and the trimmed line text.
type GrepMatch struct {
	Path string
	Line int
	Text string
}

// DirStats counts immediate (non-recursive) entries of a directory.
type DirStats struct {
	Files   int
	Folders int
	Total   int
}
