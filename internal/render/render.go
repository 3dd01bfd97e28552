package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"github.com/readycatholic/readycatholic/internal/classify"
	"github.com/readycatholic/readycatholic/internal/digest"
)

// Headline titles are escaped when the digest is collected, so the page is
// assembled with text/template; html/template would escape them twice.
//
//go:embed page.html.tmpl
var pageTemplate string

// Renderer turns a digest into the newspaper page. Render is a pure function
// of its inputs: the same digest and instant produce identical bytes.
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
}

func New() (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return &Renderer{tmpl: tmpl, loc: loc}, nil
}

type section struct {
	Header string
	Items  []digest.Headline
}

type column struct {
	Sections []section
}

type pageData struct {
	Date     string
	Featured []digest.Headline
	Columns  []column
}

// Render produces the full HTML page for d at the given instant. The dateline
// is the instant's calendar day in Eastern time.
func (r *Renderer) Render(d *digest.Digest, now time.Time) (string, error) {
	data := pageData{
		Date:     now.In(r.loc).Format("Monday, January 02, 2006"),
		Featured: d.Headlines(classify.Breaking),
		Columns: []column{
			{Sections: []section{
				{Header: "VATICAN & POPE", Items: d.Headlines(classify.Vatican)},
				{Header: "CHURCH IN AMERICA", Items: d.Headlines(classify.America)},
			}},
			{Sections: []section{
				{Header: "FAITH & SPIRITUALITY", Items: d.Headlines(classify.Faith)},
				{Header: "CULTURE & LIFE", Items: d.Headlines(classify.Culture)},
			}},
			{Sections: []section{
				{Header: "WORLD CHURCH", Items: d.Headlines(classify.World)},
				{Header: "EDUCATION & YOUTH", Items: d.Headlines(classify.Education)},
			}},
		},
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return buf.String(), nil
}
