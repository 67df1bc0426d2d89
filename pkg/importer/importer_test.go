package importer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/japaniel/connections/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *db.Store {
	t.Helper()
	s, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func positionNorms(t *testing.T, s *db.Store, personID int64) []string {
	t.Helper()
	positions, err := s.PositionsFor(personID)
	require.NoError(t, err)
	out := []string{}
	for _, p := range positions {
		out = append(out, p.NameNorm)
	}
	return out
}

func personByName(t *testing.T, s *db.Store, first, last string) db.Person {
	t.Helper()
	people, err := s.GetAllPeople()
	require.NoError(t, err)
	for _, p := range people {
		if p.FirstName == first && p.LastName == last {
			return p
		}
	}
	t.Fatalf("person %s %s not found", first, last)
	return db.Person{}
}

const scenarioCSV = `Notes: your connections export
` + exportHeader + `
Alice,Smith,,,Acme Inc,Engineer,01 Jan 2024
Bob,Jones,,,,Manager/Lead,02 Jan 2024
Alice,Smith,,,Acme Inc,Engineer,01 Jan 2024
`

func TestImportScenario(t *testing.T) {
	s := setupStore(t)
	path := writeCSV(t, scenarioCSV)

	dups, err := ImportFile(path, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Smith"}, dups)

	people, err := s.GetAllPeople()
	require.NoError(t, err)
	require.Len(t, people, 2)

	bob := personByName(t, s, "Bob", "Jones")
	assert.Equal(t, db.OtherCompanyName, bob.Company)
	assert.Equal(t, "Manager/Lead", bob.PositionRaw)
	assert.ElementsMatch(t, []string{"manager", "lead"}, positionNorms(t, s, bob.ID))

	alice := personByName(t, s, "Alice", "Smith")
	assert.Equal(t, "Acme Inc", alice.Company)
	assert.False(t, alice.Visited)
	assert.Equal(t, []string{"engineer"}, positionNorms(t, s, alice.ID))
}

func TestImportTwiceReportsEveryNamedRow(t *testing.T) {
	s := setupStore(t)
	path := writeCSV(t, exportHeader+`
Alice,Smith,https://example.com/in/alice,alice@example.com,Acme,Engineer,
Bob,Jones,https://example.com/in/bob,,Globex,"Engineer, Manager",
,,https://example.com/in/ghost,,Acme,Engineer,
Carol,,,,Freelance,Designer,
`)

	im := NewImporter(s)
	first, err := im.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Records)
	assert.Equal(t, 3, first.Added)
	assert.Equal(t, 1, first.Unnamed)
	assert.Empty(t, first.Duplicates)
	assert.Equal(t, path, first.Path)
	assert.NotEmpty(t, first.ID)

	second, err := im.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones", "Carol"}, second.Duplicates)
	assert.NotEqual(t, first.ID, second.ID)

	stats, err := s.VisitedStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
}

func TestImportPositions(t *testing.T) {
	s := setupStore(t)
	path := writeCSV(t, exportHeader+`
A,One,,,Acme,"Engineer, Manager",
B,Two,,,Acme,Engineer,
C,Three,,,Acme,",,",
D,Four,,,Acme,,
E,Five,,,Acme,Founder & CEO | Board,
`)

	_, err := ImportFile(path, s)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"engineer", "manager"}, positionNorms(t, s, personByName(t, s, "A", "One").ID))
	assert.Equal(t, []string{"engineer"}, positionNorms(t, s, personByName(t, s, "B", "Two").ID))
	assert.Empty(t, positionNorms(t, s, personByName(t, s, "C", "Three").ID))
	assert.Empty(t, positionNorms(t, s, personByName(t, s, "D", "Four").ID))
	assert.ElementsMatch(t, []string{"founder", "ceo", "board"}, positionNorms(t, s, personByName(t, s, "E", "Five").ID))
}

func TestImportURLIdentityAcrossCompanies(t *testing.T) {
	s := setupStore(t)
	path := writeCSV(t, exportHeader+`
Alice,Smith,https://example.com/in/alice,,Acme,Engineer,
Alice,Smith,https://example.com/in/alice,,Globex,Director,
Alice,Smith,,,Initech,Engineer,
`)

	dups, err := ImportFile(path, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Smith"}, dups)

	people, err := s.GetAllPeople()
	require.NoError(t, err)
	assert.Len(t, people, 2)
}

func TestImportParseErrorWritesNothing(t *testing.T) {
	s := setupStore(t)
	path := writeCSV(t, exportHeader+"\nAlice,Smith,,,Acme,Engineer,\nBob,Jo\"nes,,,Acme,Engineer,\n")

	_, err := ImportFile(path, s)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	stats, err := s.VisitedStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestImportLogsRun(t *testing.T) {
	s := setupStore(t)
	var buf bytes.Buffer
	im := NewImporter(s)
	im.Logger = slog.New(slog.NewJSONHandler(&buf, nil))

	rep, err := im.ImportRecords([]Record{{Row: 2, FirstName: "Alice", LastName: "Smith", Company: "Acme"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var done map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &done))
	assert.Equal(t, "import completed", done["msg"])
	assert.Equal(t, rep.ID, done["import_id"])
	assert.EqualValues(t, 1, done["added"])
}

func TestSplitPositions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Engineer", []string{"Engineer"}},
		{"", []string{""}},
		{"Engineer, Manager", []string{"Engineer", "Manager"}},
		{"Founder & CEO", []string{"Founder", "CEO"}},
		{"Manager/Lead", []string{"Manager", "Lead"}},
		{"Dev; Ops | SRE", []string{"Dev", "Ops", "SRE"}},
		{",,", []string{"", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPositions(tt.in))
		})
	}
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "Alice Smith", identity("Alice", "Smith"))
	assert.Equal(t, "Alice", identity("Alice", ""))
	assert.Equal(t, "Smith", identity("", "Smith"))
	assert.Equal(t, noName, identity("", ""))
}
