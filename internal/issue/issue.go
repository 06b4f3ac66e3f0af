// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	// SourcesNotFoundID: no source files were discovered.
	SourcesNotFoundID ID = iota + 1
	// SourceParseErrorID: a source file does not match the schema.
	SourceParseErrorID
	// WorldCycleID: the world graph has a cycle.
	WorldCycleID
	// MalformedLevelsID: a world's level indices have gaps.
	MalformedLevelsID
	// CheckerFailedID: the proof checker could not be run or answered garbage.
	CheckerFailedID
	// ConfigLoadFailedID: the configuration file is unreadable or invalid.
	ConfigLoadFailedID
	// DiagnosticsFailedID: the build finished with error diagnostics.
	DiagnosticsFailedID
)

type (
	// ID identifies an Issue.
	ID int

	// MarkdownMsg is the guide body.
	MarkdownMsg string

	// Issue is a Markdown guide for one class of failure.
	Issue struct {
		id    ID
		mdMsg MarkdownMsg
	}
)

var (
	sourcesNotFoundIssue = &Issue{
		id: SourcesNotFoundID,
		mdMsg: `
# No quest sources found

questc looked for source files and found none.

## Things you can try
- Check that you are pointing at the game directory:
~~~
$ questc compile ./my-game
~~~
- Source files end in ` + "`.quest.cue`" + ` by default. Adjust ` + "`sources.include`" + `
  in your config if yours do not.
- Make sure ` + "`sources.exclude`" + ` does not hide them.`,
	}

	sourceParseErrorIssue = &Issue{
		id: SourceParseErrorID,
		mdMsg: `
# A source file is invalid

Every source file names its game and lists units:

~~~cue
game: "NNG"
units: [
	{kind: "world", id: "Tutorial"},
	{kind: "level", index: 1},
	{kind: "new", item: "tactic", names: ["rfl"]},
	{kind: "statement", signature: "(x : ℕ) : x = x", script: "rfl"},
	{kind: "compile"},
]
~~~

## Things you can try
- Read the field path in the error: ` + "`units[3].names[0]`" + ` is the first
  name of the fourth unit.
- World ids may not contain dots or whitespace.
- Item kinds are ` + "`tactic`, `lemma` and `definition`" + `.`,
	}

	worldCycleIssue = &Issue{
		id: WorldCycleID,
		mdMsg: `
# The world graph has a cycle

Paths declare that one world must be finished before another. A cycle makes
every world on it unreachable, so nothing was computed.

## Things you can try
- Inspect the graph:
~~~
$ questc graph ./my-game
~~~
- Remove one ` + "`path`" + ` unit on the reported cycle.`,
	}

	malformedLevelsIssue = &Issue{
		id: MalformedLevelsID,
		mdMsg: `
# Level numbers have gaps

Levels of a world must be numbered 1, 2, 3 and so on without holes.

## Things you can try
- Renumber the ` + "`level`" + ` units of the reported world.
- Check for a level that was deleted without renumbering the following ones.`,
	}

	checkerFailedIssue = &Issue{
		id: CheckerFailedID,
		mdMsg: `
# The proof checker failed

questc could not talk to the configured checker. This is different from a
proof that does not go through, which is reported as a diagnostic.

## Things you can try
- Check ` + "`checker.command`" + ` in your config:
~~~
$ questc config show
~~~
- Run the command by hand and feed it a request on stdin.
- Raise ` + "`checker.timeout`" + ` for large games.
- Leave ` + "`checker.command`" + ` empty to build with the offline checker.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedID,
		mdMsg: `
# Configuration could not be loaded

## Things you can try
- Print the expected location:
~~~
$ questc config path
~~~
- Write a fresh default file and compare:
~~~
$ questc config init
~~~
- Environment variables such as ` + "`QUESTC_STRICT=true`" + ` override the file.`,
	}

	diagnosticsFailedIssue = &Issue{
		id: DiagnosticsFailedID,
		mdMsg: `
# The game has errors

The build finished but reported error diagnostics (or warnings in strict mode).

## Things you can try
- List them with locations:
~~~
$ questc check ./my-game
~~~
- Missing documentation is fixed with a ` + "`doc`" + ` unit for the item.
- Name collisions are fixed by renaming the statement.`,
	}

	issues = map[ID]*Issue{
		sourcesNotFoundIssue.ID():   sourcesNotFoundIssue,
		sourceParseErrorIssue.ID():  sourceParseErrorIssue,
		worldCycleIssue.ID():        worldCycleIssue,
		malformedLevelsIssue.ID():   malformedLevelsIssue,
		checkerFailedIssue.ID():     checkerFailedIssue,
		configLoadFailedIssue.ID():  configLoadFailedIssue,
		diagnosticsFailedIssue.ID(): diagnosticsFailedIssue,
	}
)

// ID returns the issue's identifier.
func (i *Issue) ID() ID { return i.id }

// MarkdownMsg returns the raw guide.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Title returns the guide's first heading.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return t
		}
	}
	return ""
}

// Render renders the guide for the terminal. stylePath is a glamour style
// name ("dark", "light", "notty") or path; "auto" or "" picks one from the
// terminal.
func (i *Issue) Render(stylePath string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if stylePath == "" || stylePath == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(stylePath))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(string(i.mdMsg))
}

// Values returns every issue ordered by ID.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, len(ids))
	for n, id := range ids {
		out[n] = issues[id]
	}
	return out
}

// Get returns the issue for id, or nil.
func Get(id ID) *Issue {
	return issues[id]
}
