package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/connections/pkg/config"
	"github.com/japaniel/connections/pkg/db"
	"github.com/japaniel/connections/pkg/importer"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderer writes command results as go-pretty tables or indented JSON.
type renderer struct {
	w      io.Writer
	format string
}

func newRenderer(w io.Writer, format string) *renderer {
	return &renderer{w: w, format: format}
}

func (r *renderer) json() bool {
	return r.format == config.OutputJSON
}

func (r *renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Printf writes a plain message. JSON output stays machine readable, so
// messages are dropped there.
func (r *renderer) Printf(format string, args ...any) {
	if r.json() {
		return
	}
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *renderer) newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func (r *renderer) People(people []db.Person) error {
	if r.json() {
		if people == nil {
			people = []db.Person{}
		}
		return r.JSON(people)
	}
	if len(people) == 0 {
		_, _ = fmt.Fprintln(r.w, "(0 people)")
		return nil
	}

	t := r.newTable(table.Row{"ID", "Name", "Company", "Position", "Visited", "URL"})
	for _, p := range people {
		t.AppendRow(table.Row{p.ID, fullName(p), p.Company, p.PositionRaw, yesNo(p.Visited), p.URL})
	}
	t.Render()
	_, _ = fmt.Fprintf(r.w, "(%d people)\n", len(people))
	return nil
}

type personDetail struct {
	db.Person
	Positions []db.Position `json:"positions"`
}

func (r *renderer) Person(p db.Person, positions []db.Position) error {
	if r.json() {
		if positions == nil {
			positions = []db.Position{}
		}
		return r.JSON(personDetail{Person: p, Positions: positions})
	}

	names := make([]string, 0, len(positions))
	for _, pos := range positions {
		names = append(names, pos.NameNorm)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"ID", p.ID},
		{"Name", fullName(p)},
		{"Company", p.Company},
		{"Position", p.PositionRaw},
		{"Titles", strings.Join(names, ", ")},
		{"Email", p.Email},
		{"URL", p.URL},
		{"Visited", yesNo(p.Visited)},
	})
	t.Render()
	return nil
}

func (r *renderer) Companies(companies []db.CompanyCount, atLeast int) error {
	if r.json() {
		if companies == nil {
			companies = []db.CompanyCount{}
		}
		return r.JSON(companies)
	}
	if len(companies) == 0 {
		_, _ = fmt.Fprintf(r.w, "(no companies with at least %d people)\n", atLeast)
		return nil
	}

	t := r.newTable(table.Row{"ID", "Company", "People"})
	for _, c := range companies {
		t.AppendRow(table.Row{c.ID, c.Name, c.People})
	}
	t.Render()
	_, _ = fmt.Fprintf(r.w, "(%d companies with at least %d people)\n", len(companies), atLeast)
	return nil
}

func (r *renderer) Stats(st db.VisitedStats) error {
	if r.json() {
		return r.JSON(st)
	}
	_, _ = fmt.Fprintf(r.w, "Visited %d / %d\n", st.Visited, st.Total)
	return nil
}

func (r *renderer) Report(rep *importer.Report) error {
	if r.json() {
		return r.JSON(rep)
	}
	_, _ = fmt.Fprintf(r.w, "Imported %d of %d rows from %s\n", rep.Added, rep.Records, rep.Path)
	if rep.Unnamed > 0 {
		_, _ = fmt.Fprintf(r.w, "Skipped %d rows without a name\n", rep.Unnamed)
	}
	if len(rep.Duplicates) == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(r.w, "Skipped %d duplicates:\n", len(rep.Duplicates))
	for _, name := range rep.Duplicates {
		_, _ = fmt.Fprintf(r.w, "  %s\n", name)
	}
	return nil
}

func (r *renderer) Settings(settings []db.Setting) error {
	if r.json() {
		if settings == nil {
			settings = []db.Setting{}
		}
		return r.JSON(settings)
	}
	t := r.newTable(table.Row{"Key", "Value"})
	for _, s := range settings {
		t.AppendRow(table.Row{s.Key, s.Value})
	}
	t.Render()
	return nil
}

func fullName(p db.Person) string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
