// Package domain defines core business entities and value objects for VShell.
//
// This file contains the intent model: the typed result of parsing a spoken
// or typed utterance. Intents are immutable value objects constructed once by
// the parser and consumed once by the dispatcher. The domain layer is
// independent of infrastructure concerns.
package domain

// IntentKind names the command an utterance was parsed into.
type IntentKind string

const (
	IntentHelp         IntentKind = "HELP"
	IntentExit         IntentKind = "EXIT"
	IntentList         IntentKind = "LIST"
	IntentSearch       IntentKind = "SEARCH"
	IntentMkdir        IntentKind = "MKDIR"
	IntentMkfile       IntentKind = "MKFILE"
	IntentRename       IntentKind = "RENAME"
	IntentCopy         IntentKind = "COPY"
	IntentMove         IntentKind = "MOVE"
	IntentRead         IntentKind = "READ"
	IntentAppend       IntentKind = "APPEND"
	IntentGrep         IntentKind = "GREP"
	IntentDelete       IntentKind = "DELETE"
	IntentCD           IntentKind = "CD"
	IntentPwd          IntentKind = "PWD"
	IntentHistory      IntentKind = "HISTORY"
	IntentRecents      IntentKind = "RECENTS"
	IntentClearHistory IntentKind = "CLEAR_HISTORY"
	IntentStats        IntentKind = "STATS"
	IntentSize         IntentKind = "SIZE"
	IntentTree         IntentKind = "TREE"
	IntentTouch        IntentKind = "TOUCH"
	IntentOpenFile     IntentKind = "OPEN_FILE"
	IntentOpenApp      IntentKind = "OPEN_APP"
	IntentUnknown      IntentKind = "UNKNOWN"
)

// TargetKind distinguishes files from folders in delete requests.
type TargetKind string

const (
	TargetFile   TargetKind = "file"
	TargetFolder TargetKind = "folder"
)

// Intent is the parsed form of one utterance. Only the fields captured by the
// matching pattern are populated; everything else stays zero. Raw holds the
// lowercased, trimmed input and is always set for UNKNOWN intents so callers
// can surface diagnostics.
type Intent struct {
	Kind IntentKind

	// Single-target operations (MKDIR, MKFILE, READ, SIZE, TOUCH, OPEN_FILE).
	Name string

	// DELETE carries the requested target type alongside the name.
	Target TargetKind

	// CD.
	Path string

	// SEARCH and GREP.
	Query string

	// RENAME.
	OldName string
	NewName string

	// COPY and MOVE.
	Src string
	Dst string

	// APPEND payload text (quotes already stripped).
	Text string

	// OPEN_APP canonical launch token.
	App string

	// HISTORY and RECENTS entry counts, TREE depth. Defaults are applied by
	// the parser, so these are always meaningful for their intent kinds.
	Count int
	Depth int

	// Raw is the normalized input the parser saw.
	Raw string
}
