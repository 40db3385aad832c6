// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ConfigLoadFailedId
	ElmNotFoundId
	CompileFailedId
	ModuleNotExposedId
)

// MarkdownMsg is the Markdown body of an issue.
type MarkdownMsg string

// HttpLink is a documentation URL.
type HttpLink string

// Issue is a troubleshooting page rendered to the terminal with glamour.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue with the given glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			fmt.Fprintf(&md, "- <%s>\n", link)
		}
	}
	return render(md.String(), stylePath)
}

// RenderCompileFailure renders a compiler failure for path, embedding the
// compiler's own report in a code block. Used when renderErrors is enabled.
func RenderCompileFailure(path, report, stylePath string) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# Compilation of `%s` failed\n\n", path)
	md.WriteString("~~~\n")
	md.WriteString(strings.TrimRight(report, "\n"))
	md.WriteString("\n~~~\n\n")
	md.WriteString(string(compileFailedIssue.mdMsg))
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No elm.json found

elmforge reads ` + "`source-directories`" + ` from the elm.json in the working
directory. Without it every file resolves to no module and nothing is compiled.

## Things you can try
- Create a project:
~~~
$ elm init
~~~
- Or list source directories in elmforge.cue:
~~~cue
plugins: elm: "source-directories": ["src"]
~~~`,
		docLinks: []HttpLink{"https://github.com/elm/compiler/blob/master/docs/elm.json/application.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

elmforge reads plugin options from ` + "`plugins.elm`" + ` in elmforge.cue (or the
file passed with --config).

## Example configuration
~~~cue
plugins: elm: {
	compilerOptions: {debug: true}
	renderErrors: true
	"exposed-modules": ["Main"]
	"source-directories": ["src"]
}
~~~`,
	}

	elmNotFoundIssue = &Issue{
		id: ElmNotFoundId,
		mdMsg: `
# Elm compiler not found

The ` + "`elm`" + ` executable is not on your PATH.

## Things you can try
- Install Elm from https://guide.elm-lang.org/install/elm.html
- Point elmforge at a specific binary:
~~~cue
plugins: elm: compilerOptions: pathToElm: "$HOME/.local/bin/elm"
~~~`,
		docLinks: []HttpLink{"https://guide.elm-lang.org/install/elm.html"},
	}

	compileFailedIssue = &Issue{
		id: CompileFailedId,
		mdMsg: `
## Things you can try
- Fix the reported problems and save again
- Ask for machine-readable reports with ` + "`compilerOptions: report: \"json\"`" + `
- Run with --verbose to see the compiler invocation`,
	}

	moduleNotExposedIssue = &Issue{
		id: ModuleNotExposedId,
		mdMsg: `
# Module not exposed

Only modules listed in ` + "`exposed-modules`" + ` are compiled; every other Elm
file is skipped without output.

## Things you can try
- Check the identifier with:
~~~
$ elmforge module src/Page/Home.elm
~~~
- Add it to the allow-list:
~~~cue
plugins: elm: "exposed-modules": ["Page/Home"]
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id(): manifestNotFoundIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		elmNotFoundIssue.Id():      elmNotFoundIssue,
		compileFailedIssue.Id():    compileFailedIssue,
		moduleNotExposedIssue.Id(): moduleNotExposedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
