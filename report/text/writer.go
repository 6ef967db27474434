package text

import (
	_ "embed" // use go embed to import template
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/gookit/color"

	"github.com/mokita-j/tainted-storage/issue"
)

var (
	errorTheme   = color.New(color.FgLightWhite, color.BgRed)
	warningTheme = color.New(color.FgBlack, color.BgYellow)
	defaultTheme = color.New(color.FgWhite, color.BgBlack)

	//go:embed template.txt
	templateContent string
)

// WriteReport writes a (colorized) text report of findings to w.
func WriteReport(w io.Writer, findings []issue.Finding, enableColor bool) error {
	t, e := template.
		New("tainted-storage").
		Funcs(plainTextFuncMap(enableColor)).
		Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, findings)
}

func plainTextFuncMap(enableColor bool) template.FuncMap {
	if enableColor {
		return template.FuncMap{
			"highlight":  highlight,
			"danger":     color.Danger.Render,
			"notice":     color.Notice.Render,
			"success":    color.Success.Render,
			"joinElements": joinElements,
		}
	}

	// by default those functions return the given content untouched
	return template.FuncMap{
		"highlight": func(t string, l issue.Level) string {
			return t
		},
		"danger":       fmt.Sprint,
		"notice":       fmt.Sprint,
		"success":      fmt.Sprint,
		"joinElements": joinElements,
	}
}

// highlight returns content t colored based on impact level.
func highlight(t string, l issue.Level) string {
	switch l {
	case issue.High:
		return errorTheme.Sprint(t)
	case issue.Medium:
		return warningTheme.Sprint(t)
	default:
		return defaultTheme.Sprint(t)
	}
}

// joinElements concatenates a finding's pretty-printed element sequence
// (spec §6) in order; the elements' own newlines put the node text on an
// indented line of its own.
func joinElements(elements []string) string {
	return strings.Join(elements, "")
}
