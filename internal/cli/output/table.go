package output

import (
	"encoding/csv"
	"fmt"
	"strconv"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// ViewDocument is the structured form of a table view for json and yaml.
type ViewDocument struct {
	Page    int              `json:"page" yaml:"page"`
	Pages   int              `json:"pages" yaml:"pages"`
	Matched int              `json:"matched" yaml:"matched"`
	Total   int              `json:"total" yaml:"total"`
	Search  string           `json:"search,omitempty" yaml:"search,omitempty"`
	Theme   string           `json:"theme" yaml:"theme"`
	Columns []ColumnDocument `json:"columns" yaml:"columns"`
	Rows    []map[string]any `json:"rows" yaml:"rows"`
}

// ColumnDocument describes one visible column.
type ColumnDocument struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// NewViewDocument converts v to its structured form. Pages are 1-based.
func NewViewDocument(v table.View) ViewDocument {
	doc := ViewDocument{
		Page:    v.Page + 1,
		Pages:   v.Pages,
		Matched: len(v.Filtered),
		Total:   v.Total,
		Search:  v.Search,
		Theme:   string(v.Theme),
		Columns: make([]ColumnDocument, 0, len(v.Columns)),
		Rows:    make([]map[string]any, 0, len(v.Rows)),
	}
	for _, c := range v.Columns {
		doc.Columns = append(doc.Columns, ColumnDocument{ID: c.ID, Label: c.Label})
	}
	for _, r := range v.Rows {
		m := map[string]any{"id": r.ID}
		for _, c := range v.Columns {
			m[c.ID] = r.Get(c.ID).Any()
		}
		doc.Rows = append(doc.Rows, m)
	}
	return doc
}

// RenderView writes the page window of v in the effective mode.
func (r *Renderer) RenderView(v table.View) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(NewViewDocument(v))
	case ModeYAML:
		return r.YAML(NewViewDocument(v))
	case ModeCSV:
		return r.viewCSV(v)
	case ModeMarkdown:
		r.Println(r.viewTable(v).RenderMarkdown())
		r.Println("")
		r.Println(PageSummary(v))
		return nil
	default:
		t := r.viewTable(v)
		t.SetStyle(prettytable.StyleLight)
		r.Println(t.Render())
		r.Muted(PageSummary(v))
		return nil
	}
}

func (r *Renderer) viewTable(v table.View) prettytable.Writer {
	t := prettytable.NewWriter()
	header := prettytable.Row{"ID"}
	for _, c := range v.Columns {
		header = append(header, c.Label)
	}
	t.AppendHeader(header)
	for _, row := range v.Rows {
		out := prettytable.Row{row.ID}
		for _, c := range v.Columns {
			out = append(out, row.Text(c.ID))
		}
		t.AppendRow(out)
	}
	return t
}

func (r *Renderer) viewCSV(v table.View) error {
	w := csv.NewWriter(r.out)
	header := []string{"id"}
	for _, c := range v.Columns {
		header = append(header, c.ID)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range v.Rows {
		rec := []string{strconv.Itoa(row.ID)}
		for _, c := range v.Columns {
			rec = append(rec, row.Text(c.ID))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// PageSummary describes the page window, e.g. "Showing 11–20 of 42 · Page 2 of 5".
func PageSummary(v table.View) string {
	first, last, total := v.Range()
	s := fmt.Sprintf("Showing %d–%d of %d · Page %d of %d", first, last, total, v.Page+1, v.Pages)
	if v.Search != "" {
		s += fmt.Sprintf(" · search %q", v.Search)
	}
	return s
}

// ThemeLabel returns the display name of a theme mode, e.g. "Dark".
func ThemeLabel(mode table.ThemeMode) string {
	return cases.Title(language.English).String(string(mode))
}
