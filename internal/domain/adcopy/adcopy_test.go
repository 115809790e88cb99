package adcopy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "User_ID,Category,Platform,Gender,Age_Min,Age_Max,Locations,Headline,Ad_Description,Keyword,Image_Prompt\n"

// fixture has 4 Clothing rows (all Male) and 2 Shoes rows.
const fixture = header +
	`u1,Clothing,Meta,Male,18,30,"Mumbai, Delhi",H1,D1,K1,P1
u1,Clothing,Meta,Male,25,45,Pune,H2,D2,K2,P2
u2,Clothing,Google,Male,35,60,"New York,Boston",H3,D3,K3,P3
u3,Clothing,Meta,Male,50,65,,H4,,K4,P4
u4,Shoes,Meta,Female,20,40,Delhi,S1,SD1,SK1,SP1
u4,Shoes,Google,Female,20,40,Delhi,S2,SD2,SK2,SP2
`

func mustParse(t *testing.T, csv string) []Row {
	t.Helper()
	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	return rows
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ads.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func defaults() Request {
	return Request{
		Category: DefaultCategory,
		Platform: DefaultPlatform,
		Gender:   DefaultGender,
		AgeMin:   DefaultAgeMin,
		AgeMax:   DefaultAgeMax,
	}
}

func TestParse(t *testing.T) {
	rows := mustParse(t, fixture)
	require.Len(t, rows, 6)

	r := rows[0]
	assert.Equal(t, "u1", r.UserID)
	assert.Equal(t, "Mumbai, Delhi", r.Locations)
	assert.True(t, r.HasAges)
	assert.Equal(t, 18.0, r.AgeMin)
	assert.Equal(t, 30.0, r.AgeMax)

	assert.Equal(t, "", rows[3].Description, "empty cell is missing")
}

func TestParse_ExtraColumnsAndBOM(t *testing.T) {
	csv := "\ufeffUser_ID,Extra,Category,Platform,Gender,Age_Min,Age_Max,Locations,Headline,Ad_Description,Keyword,Image_Prompt\n" +
		"u1,x,Clothing,Meta,Male,18,30,Pune,H,D,K,P\n"
	rows := mustParse(t, csv)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0].UserID)
	assert.Equal(t, "Clothing", rows[0].Category)
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("User_ID,Category\nu1,Clothing\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Platform")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSelect_AllFiltersMatch(t *testing.T) {
	rows := mustParse(t, fixture)
	req := defaults()
	req.AgeMin, req.AgeMax = 20, 28

	got, level := Select(rows, req)
	assert.Equal(t, LevelFiltered, level)
	require.Len(t, got, 2)
	assert.Equal(t, "H1", got[0].Headline)
	assert.Equal(t, "H2", got[1].Headline)
}

func TestSelect_GenderMissFallsBackToCategory(t *testing.T) {
	rows := mustParse(t, fixture)
	req := Request{Category: "Clothing", Platform: "Meta", Gender: "Female", AgeMin: 25, AgeMax: 35}

	s := Suggest(rows, req)
	assert.Equal(t, LevelCategory, s.MatchLevel)
	assert.Equal(t, 4, s.TotalMatches)
	assert.Equal(t, []string{"H1", "H2", "H3", "H4"}, s.Headlines)
	assert.NotEmpty(t, s.Descriptions)
}

func TestSelect_UnknownCategoryFallsBackToAll(t *testing.T) {
	rows := mustParse(t, fixture)
	req := defaults()
	req.Category = "Electronics"

	got, level := Select(rows, req)
	assert.Equal(t, LevelAll, level)
	assert.Len(t, got, 6)
}

func TestSelect_GenderAllSkipsFilter(t *testing.T) {
	rows := mustParse(t, fixture)
	req := Request{Category: "Shoes", Platform: "Meta", Gender: "All"}

	got, level := Select(rows, req)
	assert.Equal(t, LevelFiltered, level)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].Headline)
}

func TestSelect_AgeOverlap(t *testing.T) {
	rows := mustParse(t, fixture)
	req := Request{Category: "Clothing", AgeMin: 46, AgeMax: 49}

	got, level := Select(rows, req)
	assert.Equal(t, LevelFiltered, level)
	require.Len(t, got, 1)
	assert.Equal(t, "H3", got[0].Headline, "35-60 overlaps 46-49; 25-45 and 50-65 do not")
}

func TestSelect_ZeroAgeSkipsFilter(t *testing.T) {
	rows := mustParse(t, fixture)
	req := Request{Category: "Clothing", AgeMin: 0, AgeMax: 20}

	got, level := Select(rows, req)
	assert.Equal(t, LevelFiltered, level)
	assert.Len(t, got, 4)
}

func TestSelect_Locations(t *testing.T) {
	rows := mustParse(t, fixture)

	tests := []struct {
		name      string
		locations string
		want      []string
		level     MatchLevel
	}{
		{"case and space insensitive", "  DELHI ", []string{"H1"}, LevelFiltered},
		{"any token matches", "boston, pune", []string{"H2", "H3"}, LevelFiltered},
		{"substring is not a match", "York", []string{"H1", "H2", "H3", "H4"}, LevelCategory},
		{"empty row locations never match", "chennai", []string{"H1", "H2", "H3", "H4"}, LevelCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Category: "Clothing", Locations: tt.locations}
			s := Suggest(rows, req)
			assert.Equal(t, tt.level, s.MatchLevel)
			assert.Equal(t, tt.want, s.Headlines)
			assert.Equal(t, len(tt.want), s.TotalMatches)
		})
	}
}

func TestSuggest_CapsAtTenAndSkipsMissing(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < 15; i++ {
		desc := "D"
		if i%2 == 0 {
			desc = ""
		}
		b.WriteString("u,Clothing,Meta,Male,18,30,Pune,H,")
		b.WriteString(desc)
		b.WriteString(",K,P\n")
	}
	rows := mustParse(t, b.String())

	s := Suggest(rows, defaults())
	assert.Equal(t, 15, s.TotalMatches)
	assert.Len(t, s.Headlines, MaxPerField)
	assert.Len(t, s.Descriptions, 7, "only the 7 non-empty descriptions exist")
}

func TestCallToAction(t *testing.T) {
	assert.Equal(t, "Learn More", CallToAction(Request{}))
	assert.Equal(t, "Shop Now", CallToAction(Request{Price: "499"}))
	assert.Equal(t, "Shop Now", CallToAction(Request{PriceRange: "100-200"}))
}

func TestSummarize(t *testing.T) {
	rows := mustParse(t, fixture)
	s := Summarize(&Dataset{Path: "/data/ads.csv", Rows: rows})

	assert.Equal(t, 6, s.TotalRows)
	assert.Equal(t, 4, s.TotalUsers)
	assert.Equal(t, []string{"Clothing", "Shoes"}, s.Categories)
	assert.Equal(t, []string{"Male", "Female"}, s.Genders)
	assert.Equal(t, []string{"Meta", "Google"}, s.Platforms)
	assert.Equal(t, "18 - 65", s.AgeRange)
	assert.Equal(t, 6, s.UniqueHeadlines)
	assert.Equal(t, 5, s.UniqueDescriptions)
	assert.Equal(t, "/data/ads.csv", s.CSVPath)
}

func TestService_MissingDatasetServesMock(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "nope.csv"))

	s, err := svc.Suggest(defaults())
	require.NoError(t, err)
	assert.Equal(t, Mock(), s)
	assert.Equal(t, 0, s.TotalMatches)

	_, err = svc.Stats()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_EmptyDataset(t *testing.T) {
	for name, content := range map[string]string{"zero bytes": "", "header only": header} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(writeDataset(t, content))

			s, err := svc.Suggest(defaults())
			require.NoError(t, err)
			assert.Equal(t, LevelMock, s.MatchLevel)

			_, err = svc.Stats()
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestService_ReadsFromDisk(t *testing.T) {
	path := writeDataset(t, fixture)
	svc := NewService(path)

	s, err := svc.Suggest(defaults())
	require.NoError(t, err)
	assert.Equal(t, LevelFiltered, s.MatchLevel)
	assert.Equal(t, 3, s.TotalMatches)

	// No caching: a rewritten file is picked up on the next call.
	require.NoError(t, os.WriteFile(path, []byte(header+"u9,Clothing,Meta,Male,18,30,Pune,NEW,D,K,P\n"), 0o600))
	s, err = svc.Suggest(defaults())
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW"}, s.Headlines)

	st, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalRows)
	assert.Equal(t, svc.Path(), st.CSVPath)
}

func TestService_BrokenDataset(t *testing.T) {
	svc := NewService(writeDataset(t, "User_ID,Category\nu1,Clothing\n"))
	_, err := svc.Suggest(defaults())
	assert.Error(t, err)
}
