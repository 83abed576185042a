// Package menu assembles the final ordered context menu from raw extension
// entries: resource-reference resolution, noise filtering, priority
// assignment, stable sorting, and separator insertion between priority bands.
package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell"
)

// Priority values for the well-known menu bands. Lower sorts first.
const (
	PriorityOpen           = 1
	PriorityOpenWith       = 2
	PriorityVersionControl = 10
	PriorityEditors        = 20
	PriorityFileOps        = 100
	PriorityThirdParty     = 200
	PriorityDefault        = 400
	PrioritySystem         = 900
)

// Band boundaries. Actions whose priorities fall in the same band render
// without a separator between them.
const (
	bandOpenMax       = 10
	bandDevToolsMax   = 50
	bandFileOpsMax    = 150
	bandThirdPartyMax = 500
)

// priorityEntry pairs a lowercase label or action key with its priority.
// Order matters for substring matching: earlier entries win, so the generic
// keys ("open", "git") sit before nothing they could shadow.
type priorityEntry struct {
	key      string
	priority int
}

var priorityTable = []priorityEntry{
	{"open", PriorityOpen},
	{"open_with", PriorityOpenWith},
	{"git", PriorityVersionControl},
	{"open git gui here", PriorityVersionControl + 1},
	{"open git bash here", PriorityVersionControl + 2},
	{"open with code", PriorityEditors},
	{"open with sublime text", PriorityEditors + 1},
	{"open powershell here", PriorityEditors + 2},
	{"cut", PriorityFileOps},
	{"copy", PriorityFileOps + 1},
	{"create shortcut", PriorityFileOps + 2},
	{"delete", PriorityFileOps + 3},
	{"rename", PriorityFileOps + 4},
	{"add to vlc media player's playlist", PriorityThirdParty},
	{"find", PriorityThirdParty + 1},
	{"send to", PriorityThirdParty + 2},
	{"add to mpc-hc playlist", PriorityThirdParty + 3},
	{"properties", PrioritySystem},
}

// Builder converts a filtered extension list into rendering-ready menu
// actions. It is stateless apart from its configuration tables, so one
// instance serves every query.
type Builder struct {
	cfg config.MenuConfig
}

func NewBuilder(cfg config.MenuConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build produces the ordered menu for a path. Entries that fail filtering
// are dropped; defaults (Open, Open with..., Properties) are always present
// so a total discovery failure still yields a usable menu. The transform is
// pure: identical inputs give identical output.
func (b *Builder) Build(path string, isDir bool, entries []shell.ExtensionEntry) ([]shell.MenuAction, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", shell.ErrValidation)
	}

	actions := b.defaultActions(isDir)
	for _, entry := range entries {
		text, ok := b.filter(entry)
		if !ok {
			continue
		}
		actions = append(actions, shell.MenuAction{
			Text:       text,
			Action:     actionID(entry, text),
			Command:    entry.Command,
			Executable: entry.Executable,
			Priority:   b.priorityFor(text, entry.Action),
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority < actions[j].Priority
	})

	separated := withSeparators(actions)
	log.Debug(log.CatMenu, "menu built",
		"path", path, "entries", len(entries), "actions", len(separated))
	return separated, nil
}

// defaultActions are the fixed entries every menu carries regardless of
// discovery results. "Open with..." applies to files only.
func (b *Builder) defaultActions(isDir bool) []shell.MenuAction {
	actions := []shell.MenuAction{
		{Text: "Open", Action: "open", Priority: PriorityOpen},
	}
	if !isDir {
		actions = append(actions, shell.MenuAction{
			Text:     "Open with...",
			Action:   "open_with",
			Command:  `rundll32.exe shell32.dll,OpenAs_RunDLL "%1"`,
			Priority: PriorityOpenWith,
		})
	}
	actions = append(actions, shell.MenuAction{
		Text: "Properties", Action: "properties", Priority: PrioritySystem,
	})
	return actions
}

// filter applies the noise tables to one entry and returns the display text
// to use. Resource references are resolved first; a reference without a
// mapping, or mapped to the empty string, drops the entry.
func (b *Builder) filter(entry shell.ExtensionEntry) (string, bool) {
	text := strings.TrimSpace(entry.Text)

	if strings.HasPrefix(text, "@") {
		resolved, known := b.cfg.ResourceMappings[text]
		if !known || resolved == "" {
			log.Debug(log.CatMenu, "dropping unresolved resource reference", "text", text)
			return "", false
		}
		text = resolved
	}

	if len(text) < b.cfg.MinTextLength {
		return "", false
	}

	lower := strings.ToLower(text)
	for _, pattern := range b.cfg.FilterPatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return "", false
		}
	}
	for _, prefix := range b.cfg.FilterPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return "", false
		}
	}
	command := strings.ToLower(entry.Command)
	for _, blocked := range b.cfg.BlockedCommands {
		if blocked != "" && strings.Contains(command, strings.ToLower(blocked)) {
			return "", false
		}
	}
	return text, true
}

// priorityFor resolves the sort priority for an entry: exact label match,
// exact action match, substring match against the table keys, promoted
// application patterns, then the generic third-party default.
func (b *Builder) priorityFor(text, action string) int {
	textLower := strings.ToLower(strings.TrimSpace(text))
	actionLower := strings.ToLower(strings.TrimSpace(action))

	for _, e := range priorityTable {
		if e.key == textLower {
			return e.priority
		}
	}
	for _, e := range priorityTable {
		if e.key == actionLower {
			return e.priority
		}
	}
	for _, e := range priorityTable {
		if strings.Contains(textLower, e.key) {
			return e.priority
		}
	}
	for _, pattern := range b.cfg.PriorityApps {
		if strings.Contains(textLower, strings.ToLower(pattern)) {
			return PriorityEditors
		}
	}
	return PriorityDefault
}

// actionID falls back to a slug of the display text when the registration
// carried no verb name.
func actionID(entry shell.ExtensionEntry, text string) string {
	if entry.Action != "" {
		return entry.Action
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

// withSeparators inserts a separator before the first item of each new
// priority band. No leading or trailing separator is ever produced; the
// separator priority sits one below the item it precedes, preserving the
// non-decreasing priority sequence.
func withSeparators(actions []shell.MenuAction) []shell.MenuAction {
	out := make([]shell.MenuAction, 0, len(actions)+4)
	for i, action := range actions {
		if i > 0 && band(action.Priority) != band(actions[i-1].Priority) {
			out = append(out, shell.MenuAction{Separator: true, Priority: action.Priority - 1})
		}
		out = append(out, action)
	}
	return out
}

// band maps a priority to its coarse menu section.
func band(priority int) int {
	switch {
	case priority < bandOpenMax:
		return 0
	case priority < bandDevToolsMax:
		return 1
	case priority < bandFileOpsMax:
		return 2
	case priority < bandThirdPartyMax:
		return 3
	default:
		return 4
	}
}
