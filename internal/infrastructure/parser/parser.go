// Package parser maps free-form utterances to typed intents.
//
// Rules are an explicit ordered sequence of (pattern, builder) pairs
// evaluated top to bottom; the first full match wins and later rules are
// never tried. That ordering is a contract, not an implementation detail:
// overlapping patterns rely on it (e.g. "open calculator" must hit the app
// rule before the generic open rule). Parsing is pure: no filesystem, no
// clock, no state.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/vshell/internal/domain"
)

// appWords maps the spoken app vocabulary to canonical launch tokens.
// Unrecognized words pass through unchanged so the launcher whitelist can
// reject them uniformly.
var appWords = map[string]string{
	"calculator": "calc",
	"calc":       "calc",
	"notepad":    "notepad",
	"paint":      "mspaint",
	"browser":    "explorer",
	"explorer":   "explorer",
}

type rule struct {
	re    *regexp.Regexp
	build func(m match) domain.Intent
}

// Parser evaluates the ordered rule list.
type Parser struct {
	rules []rule
}

// New constructs the parser with the canonical rule ordering.
func New() *Parser {
	return &Parser{rules: buildRules()}
}

// Parse converts one utterance into an intent. Input is lowercased and
// trimmed first; empty input and unmatched input both yield UNKNOWN, the
// latter carrying the normalized text for diagnostics.
func (p *Parser) Parse(text string) domain.Intent {
	raw := strings.ToLower(strings.TrimSpace(text))
	if raw == "" {
		return domain.Intent{Kind: domain.IntentUnknown, Raw: raw}
	}
	for _, r := range p.rules {
		if m, ok := newMatch(r.re, raw); ok {
			intent := r.build(m)
			intent.Raw = raw
			return intent
		}
	}
	return domain.Intent{Kind: domain.IntentUnknown, Raw: raw}
}

func buildRules() []rule {
	mk := func(pattern string, build func(m match) domain.Intent) rule {
		return rule{re: regexp.MustCompile(pattern), build: build}
	}

	return []rule{
		// Help.
		mk(`^\s*(?:please\s+)?(?:show\s+)?(?:help|what\s+can\s+you\s+do|show\s+available\s+commands)\s*$`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentHelp} }),

		// Exit.
		mk(`^\s*(?:please\s+)?(?:exit|quit|goodbye|bye)\s*$`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentExit} }),

		// List directory contents. The first alternative is prefix-anchored
		// only, matching the lenient source behavior for trailing words; the
		// whole alternation is anchored at the start so the second branch
		// cannot claim utterances that merely end with its phrase.
		mk(`^\s*(?:(?:please\s+)?(?:show|list)(?:\s+all)?\s+(?:files?|contents?)|(?:show\s+me\s+the\s+contents?|what\s+files?\s+are\s+here)\s*$)`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentList} }),

		// Create folder.
		mk(`^\s*(?:please\s+)?(?:create|make)(?:\s+a)?(?:\s+new)?\s+(?:folder|directory)(?:\s+called)?\s+(?P<name>[\w\-. ]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentMkdir, Name: m.field("name")}
			}),

		// Create file.
		mk(`^\s*(?:please\s+)?(?:create|make)(?:\s+a)?(?:\s+new)?\s+file(?:\s+called)?\s+(?P<name>[\w\-. ]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentMkfile, Name: m.field("name")}
			}),

		// Delete file/folder.
		mk(`^\s*(?:please\s+)?(?:delete|remove)\s+(?:the\s+)?(?P<kind>file|folder|directory)\s+(?:called\s+)?(?P<name>[\w\-. ]+)\s*$`,
			func(m match) domain.Intent {
				target := domain.TargetFile
				if k := m.field("kind"); k == "folder" || k == "directory" {
					target = domain.TargetFolder
				}
				return domain.Intent{Kind: domain.IntentDelete, Target: target, Name: m.field("name")}
			}),

		// Change directory, explicit forms.
		mk(`^\s*(?:please\s+)?(?:change\s+directory\s+to|cd\s+to|go\s+to|move\s+to|switch\s+to\s+directory)(?:\s+folder)?\s+(?P<path>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentCD, Path: m.field("path")}
			}),

		// Go back / up one directory.
		mk(`^\s*(?:please\s+)?(?:go\s+back|go\s+up|back)\s*$`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentCD, Path: ".."} }),

		// Print working directory.
		mk(`^\s*(?:please\s+)?(?:where\s+am\s+i|show\s+(?:current\s+)?(?:working\s+)?directory|what\s+folder\s+am\s+i\s+in|current\s+location|could\s+you\s+show\s+me\s+where\s+i\s+am)\s*$`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentPwd} }),

		// Open application (fixed vocabulary). Must precede the generic open
		// rule or app names would be treated as file paths.
		mk(`^\s*(?:please\s+|would\s+you\s+kindly\s+)?(?:open|launch|start)(?:\s+the)?\s+(?P<app>calculator|calc|notepad|paint|browser|explorer)\s*$`,
			func(m match) domain.Intent {
				app := m.field("app")
				if canonical, ok := appWords[app]; ok {
					app = canonical
				}
				return domain.Intent{Kind: domain.IntentOpenApp, App: app}
			}),

		// Generic open by path or name.
		mk(`^\s*(?:please\s+)?open\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentOpenFile, Name: domain.NormalizeSpokenPath(m.field("name"))}
			}),

		// Search by name.
		mk(`^\s*(?:please\s+)?(?:search|find|look\s+for)\s+(?P<query>[\w\-. ]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentSearch, Query: m.field("query")}
			}),

		// Rename.
		mk(`^\s*(?:please\s+)?rename\s+(?P<old>[\w\-. ]+)\s+(?:to|as)\s+(?P<new>[\w\-. ]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentRename, OldName: m.field("old"), NewName: m.field("new")}
			}),

		// History with optional count.
		mk(`^\s*(?:please\s+)?history(?:\s+(?P<count>\d+))?\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentHistory, Count: m.count("count", 10)}
			}),

		// Copy.
		mk(`^\s*(?:please\s+)?copy\s+(?P<src>[\w\-. /\\]+)\s+(?:to|into)\s+(?P<dst>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentCopy, Src: m.field("src"), Dst: m.field("dst")}
			}),

		// Move.
		mk(`^\s*(?:please\s+)?move\s+(?P<src>[\w\-. /\\]+)\s+(?:to|into)\s+(?P<dst>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentMove, Src: m.field("src"), Dst: m.field("dst")}
			}),

		// Read file.
		mk(`^\s*(?:please\s+)?(?:read|show|display)\s+file\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentRead, Name: m.field("name")}
			}),

		// Append, double- then single-quoted payload.
		mk(`^\s*(?:please\s+)?(?:append|write)\s+"(?P<text>.+?)"\s+(?:to|into)\s+file\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentAppend, Name: m.field("name"), Text: stripQuotes(m.group("text"))}
			}),
		mk(`^\s*(?:please\s+)?(?:append|write)\s+'(?P<text>.+?)'\s+(?:to|into)\s+file\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentAppend, Name: m.field("name"), Text: stripQuotes(m.group("text"))}
			}),

		// Grep, double- then single-quoted query.
		mk(`^\s*(?:please\s+)?(?:grep|find\s+in\s+files|search\s+in\s+files)\s+"(?P<query>.+?)"\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentGrep, Query: m.field("query")}
			}),
		mk(`^\s*(?:please\s+)?(?:grep|find\s+in\s+files|search\s+in\s+files)\s+'(?P<query>.+?)'\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentGrep, Query: m.field("query")}
			}),

		// Size.
		mk(`^\s*(?:please\s+)?(?:size\s+of|how\s+big\s+is)\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentSize, Name: m.field("name")}
			}),

		// Tree with optional depth.
		mk(`^\s*(?:please\s+)?tree(?:\s+(?P<depth>\d+))?\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentTree, Depth: m.count("depth", 2)}
			}),

		// Touch.
		mk(`^\s*(?:please\s+)?touch\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentTouch, Name: m.field("name")}
			}),

		// Clear history.
		mk(`^\s*(?:please\s+)?clear\s+history\s*$`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentClearHistory} }),

		// Recent files with optional count.
		mk(`^\s*(?:please\s+)?recent\s+files(?:\s+(?P<count>\d+))?\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentRecents, Count: m.count("count", 10)}
			}),

		// Stats.
		mk(`^\s*(?:please\s+)?stats(?:\s+here)?\s*$`,
			func(match) domain.Intent { return domain.Intent{Kind: domain.IntentStats} }),

		// Explicit "open file" form. Ordered last: the generic open rule
		// above captures "open file X" first with "file X" as the name,
		// matching the canonical ordering.
		mk(`^\s*(?:please\s+)?open\s+file\s+(?P<name>[\w\-. /\\]+)\s*$`,
			func(m match) domain.Intent {
				return domain.Intent{Kind: domain.IntentOpenFile, Name: domain.NormalizeSpokenPath(m.field("name"))}
			}),
	}
}

// stripQuotes removes exactly one matching pair of surrounding quote
// characters, if present.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// match wraps a successful regexp match with named-group access.
type match struct {
	re     *regexp.Regexp
	groups []string
}

func newMatch(re *regexp.Regexp, text string) (match, bool) {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return match{}, false
	}
	return match{re: re, groups: groups}, true
}

// group returns the named capture as matched, empty when absent.
func (m match) group(name string) string {
	for i, n := range m.re.SubexpNames() {
		if n == name && i < len(m.groups) {
			return m.groups[i]
		}
	}
	return ""
}

// field returns the named capture trimmed of surrounding whitespace.
func (m match) field(name string) string {
	return strings.TrimSpace(m.group(name))
}

// count parses the named numeric capture, falling back to def when the group
// is absent. Patterns only admit digit sequences, so values are never
// negative by construction.
func (m match) count(name string, def int) int {
	raw := m.group(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
