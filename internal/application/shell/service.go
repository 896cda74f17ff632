// Package shell is the intent dispatcher: it routes parsed intents to
// executor operations, formats outcomes for display and speech, journals
// every interaction, and owns the two-state delete-confirmation machine.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/infrastructure/executor"
	"github.com/doeshing/vshell/internal/ports"
)

const timestampLayout = "2006-01-02 15:04:05"

// Journal labels for the confirmation turns, which are answers rather than
// parsed intents.
const (
	labelDeleteConfirm = domain.IntentKind("DELETE_CONFIRM")
	labelDeleteCancel  = domain.IntentKind("DELETE_CANCEL")
)

// Service dispatches one utterance at a time. Single-writer: the pending
// confirmation and the executor's current directory are only mutated from
// this flow, so concurrent front ends must serialize calls to Handle.
type Service struct {
	Parser   ports.IntentParser
	Executor *executor.Executor
	Journal  ports.HistoryRepository
	Logger   ports.Logger

	pending *domain.PendingDelete
}

// State reports the confirmation state, for status displays.
func (s *Service) State() domain.DispatchState {
	if s.pending != nil {
		return domain.StateAwaitingDeleteReply
	}
	return domain.StateReady
}

// Start journals shell startup.
func (s *Service) Start(mode string) {
	s.journal("Shell started", "STARTUP", "Mode: "+mode)
}

// Shutdown journals a clean exit.
func (s *Service) Shutdown() {
	s.journal("Shell stopped", "SHUTDOWN", "Clean exit")
}

// Handle processes one utterance to completion: confirmation answer first if
// one is pending, otherwise parse and dispatch. Every call yields exactly
// one response and one journal entry; no failure escapes to the caller.
func (s *Service) Handle(text string) domain.Response {
	if s.pending != nil {
		return s.consumeConfirmation(text)
	}

	intent := s.Parser.Parse(text)
	resp, outcome := s.dispatch(intent)
	s.journal(intent.Raw, intent.Kind, outcome)
	return resp
}

// consumeConfirmation answers a staged delete. The pending state is cleared
// unconditionally before anything runs, so a malformed reply cancels rather
// than leaving the prompt live.
func (s *Service) consumeConfirmation(text string) domain.Response {
	payload := *s.pending
	s.pending = nil

	answer := strings.ToLower(strings.TrimSpace(text))
	if answer != "yes" && answer != "y" {
		outcome := fmt.Sprintf("Delete %s '%s' cancelled.", payload.Target, payload.Name)
		s.journal(text, labelDeleteCancel, outcome)
		return domain.Response{Text: outcome, Speak: outcome}
	}

	outcome, err := s.Executor.Delete(payload.Target, payload.Name)
	if err != nil {
		outcome = errorLine(err)
	}
	s.journal(text, labelDeleteConfirm, outcome)
	return domain.Response{Text: outcome, Speak: outcome}
}

func (s *Service) dispatch(intent domain.Intent) (domain.Response, string) {
	switch intent.Kind {
	case domain.IntentHelp:
		return domain.Response{Text: HelpMessage, Speak: "Showing available commands"}, "Showed help"

	case domain.IntentExit:
		return domain.Response{Text: "Goodbye!", Speak: "Goodbye", Exit: true}, "Exit requested"

	case domain.IntentList:
		return s.runList()

	case domain.IntentSearch:
		return s.runSearch(intent.Query)

	case domain.IntentMkdir:
		return outcomeResponse(s.Executor.Mkdir(intent.Name))

	case domain.IntentMkfile:
		return outcomeResponse(s.Executor.Mkfile(intent.Name))

	case domain.IntentDelete:
		// Never executed directly: stage it and let the next utterance
		// decide.
		s.pending = &domain.PendingDelete{Target: intent.Target, Name: intent.Name}
		prompt := fmt.Sprintf("Confirm delete %s '%s'? Say yes or no.", intent.Target, intent.Name)
		return domain.Response{Text: prompt, Speak: prompt, Pending: s.pending}, "Awaiting confirmation"

	case domain.IntentRename:
		return outcomeResponse(s.Executor.Rename(intent.OldName, intent.NewName))

	case domain.IntentCopy:
		return outcomeResponse(s.Executor.Copy(intent.Src, intent.Dst))

	case domain.IntentMove:
		return outcomeResponse(s.Executor.Move(intent.Src, intent.Dst))

	case domain.IntentRead:
		return s.runRead(intent.Name)

	case domain.IntentAppend:
		return outcomeResponse(s.Executor.Append(intent.Name, intent.Text))

	case domain.IntentGrep:
		return s.runGrep(intent.Query)

	case domain.IntentSize:
		return outcomeResponse(s.Executor.Size(intent.Name))

	case domain.IntentTree:
		return s.runTree(intent.Depth)

	case domain.IntentTouch:
		return outcomeResponse(s.Executor.Touch(intent.Name))

	case domain.IntentCD:
		return outcomeResponse(s.Executor.ChangeDirectory(intent.Path))

	case domain.IntentPwd:
		pwd := s.Executor.Pwd()
		return domain.Response{
			Text:  "Current directory: " + pwd,
			Speak: "Showing current directory",
		}, "Current directory: " + pwd

	case domain.IntentHistory:
		return s.runHistory(intent.Count)

	case domain.IntentRecents:
		return s.runRecents(intent.Count)

	case domain.IntentClearHistory:
		if err := s.Journal.Clear(); err != nil {
			line := errorLine(err)
			return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
		}
		return domain.Response{Text: "History cleared", Speak: "History cleared"}, "History cleared"

	case domain.IntentStats:
		stats, err := s.Executor.Stats()
		if err != nil {
			line := errorLine(err)
			return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
		}
		line := fmt.Sprintf("Stats: files=%d, folders=%d, total=%d", stats.Files, stats.Folders, stats.Total)
		return domain.Response{Text: line, Speak: "Showing directory stats"}, line

	case domain.IntentOpenFile:
		return outcomeResponse(s.Executor.OpenFile(intent.Name))

	case domain.IntentOpenApp:
		return outcomeResponse(s.Executor.OpenApp(intent.App))

	default:
		return domain.Response{
			Text:  "I didn't understand that command.\nSay 'help' to see available commands.",
			Speak: "Command not recognized. Try asking for help.",
		}, "Command not recognized"
	}
}

func (s *Service) runList() (domain.Response, string) {
	entries, err := s.Executor.List()
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	var b strings.Builder
	b.WriteString("Contents:\n")
	b.WriteString(rule())
	if len(entries) == 0 {
		b.WriteString("\n(empty directory)")
	}
	for _, entry := range entries {
		b.WriteString("\n" + entryName(entry))
	}
	b.WriteString("\n" + rule())
	return domain.Response{Text: b.String(), Speak: "Listed directory contents"},
		fmt.Sprintf("Listed %d entries", len(entries))
}

func (s *Service) runSearch(query string) (domain.Response, string) {
	matches, err := s.Executor.Search(query)
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for '%s':\n%s", query, rule())
	if len(matches) == 0 {
		b.WriteString("\n(no matches)")
	}
	for _, m := range matches {
		b.WriteString("\n" + m)
	}
	b.WriteString("\n" + rule())
	return domain.Response{Text: b.String(), Speak: "Search completed"},
		fmt.Sprintf("Search '%s': %d matches", query, len(matches))
}

func (s *Service) runRead(name string) (domain.Response, string) {
	outcome, lines, err := s.Executor.Read(name, executor.ReadMaxLines)
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	var b strings.Builder
	b.WriteString(outcome)
	if len(lines) > 0 {
		b.WriteString("\n" + rule())
		for _, ln := range lines {
			b.WriteString("\n" + ln)
		}
		b.WriteString("\n" + rule())
	}
	return domain.Response{Text: b.String(), Speak: "File read"}, outcome
}

func (s *Service) runGrep(query string) (domain.Response, string) {
	matches, err := s.Executor.Grep(query)
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Matches for '%s':\n%s", query, rule())
	if len(matches) == 0 {
		b.WriteString("\n(no matches)")
	}
	for _, m := range matches {
		fmt.Fprintf(&b, "\n%s:%d: %s", m.Path, m.Line, m.Text)
	}
	b.WriteString("\n" + rule())
	return domain.Response{Text: b.String(), Speak: "Content search completed"},
		fmt.Sprintf("Grep '%s': %d matches", query, len(matches))
}

func (s *Service) runTree(depth int) (domain.Response, string) {
	lines, err := s.Executor.Tree(depth)
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	text := "Directory tree:\n" + rule() + "\n" + strings.Join(lines, "\n") + "\n" + rule()
	return domain.Response{Text: text, Speak: "Tree view shown"}, fmt.Sprintf("Tree depth %d", depth)
}

func (s *Service) runHistory(count int) (domain.Response, string) {
	records, err := s.Journal.Recent(count)
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	var b strings.Builder
	b.WriteString("Recent history:\n" + rule())
	if len(records) == 0 {
		b.WriteString("\n(no history yet)")
	}
	for _, rec := range records {
		fmt.Fprintf(&b, "\n%s | %s: %s -> %s",
			rec.Timestamp.Format(timestampLayout), rec.Intent, rec.Text, rec.Outcome)
	}
	b.WriteString("\n" + rule())
	return domain.Response{Text: b.String(), Speak: "Showing recent history"},
		fmt.Sprintf("Showed %d history entries", len(records))
}

func (s *Service) runRecents(count int) (domain.Response, string) {
	files, err := s.Executor.RecentFiles(count)
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	var b strings.Builder
	b.WriteString("Recent files:\n" + rule())
	if len(files) == 0 {
		b.WriteString("\n(none)")
	}
	for _, f := range files {
		fmt.Fprintf(&b, "\n%s  (modified %s)", f.Path, humanize.Time(f.ModTime))
	}
	b.WriteString("\n" + rule())
	return domain.Response{Text: b.String(), Speak: "Showing recent files"},
		fmt.Sprintf("Showed %d recent files", len(files))
}

func (s *Service) journal(text string, kind domain.IntentKind, outcome string) {
	rec := domain.HistoryRecord{
		Timestamp: time.Now(),
		Text:      text,
		Intent:    kind,
		Outcome:   outcome,
	}
	if err := s.Journal.Save(rec); err != nil && s.Logger != nil {
		s.Logger.Warn("journal save failed", map[string]interface{}{"err": err.Error()})
	}
}

// outcomeResponse adapts the common (outcome, error) executor shape.
func outcomeResponse(outcome string, err error) (domain.Response, string) {
	if err != nil {
		line := errorLine(err)
		return domain.Response{Text: line, Speak: "Sorry, there was an error"}, line
	}
	return domain.Response{Text: outcome, Speak: outcome}, outcome
}

// errorLine converts a classified error into the single user-facing outcome
// line. The taxonomy keeps phrasing consistent across operations.
func errorLine(err error) string {
	switch {
	case errors.Is(err, domain.ErrPathEscape):
		return "Error: Operation outside sandbox"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "Error: Permission denied"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func entryName(entry domain.DirEntry) string {
	if entry.Dir {
		return entry.Name + "/"
	}
	return entry.Name
}

func rule() string { return strings.Repeat("-", 40) }
