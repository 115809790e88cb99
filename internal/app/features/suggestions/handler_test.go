package suggestions

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashishmicrocom/adPatterns/internal/domain/adcopy"
	"github.com/ashishmicrocom/adPatterns/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const dataset = "User_ID,Category,Platform,Gender,Age_Min,Age_Max,Locations,Headline,Ad_Description,Keyword,Image_Prompt\n" +
	"u1,Clothing,Meta,Male,18,30,\"Mumbai, Delhi\",H1,D1,K1,P1\n" +
	"u2,Clothing,Meta,Male,25,40,Pune,H2,D2,K2,P2\n" +
	"u3,Clothing,Google,Male,30,50,Delhi,H3,D3,K3,P3\n" +
	"u1,Shoes,Meta,Female,20,35,Mumbai,H4,D4,K4,P4\n"

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ads.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func serve(t *testing.T, path, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	Routes(NewHandler(path, zap.NewNop())).ServeHTTP(rec, testutil.JSONRequest(t, method, target, body))
	return rec
}

func TestGenerate_DefaultsFilterEverything(t *testing.T) {
	path := writeDataset(t, dataset)

	rec := serve(t, path, http.MethodPost, "/generate-suggestions", map[string]any{})
	rec.AssertStatus(t, http.StatusOK)

	var s adcopy.Suggestions
	rec.DecodeJSON(t, &s)
	assert.Equal(t, adcopy.LevelFiltered, s.MatchLevel)
	assert.Equal(t, 2, s.TotalMatches)
	assert.Equal(t, []string{"H1", "H2"}, s.Headlines)
	assert.Equal(t, "Learn More", s.CTA)
}

func TestGenerate_FallsBackToCategory(t *testing.T) {
	path := writeDataset(t, dataset)

	rec := serve(t, path, http.MethodPost, "/generate-suggestions", map[string]any{
		"category": "Clothing",
		"platform": "Meta",
		"gender":   "Female",
		"age_min":  25,
		"age_max":  35,
		"price":    "999",
	})
	rec.AssertStatus(t, http.StatusOK)

	var s adcopy.Suggestions
	rec.DecodeJSON(t, &s)
	assert.Equal(t, adcopy.LevelCategory, s.MatchLevel)
	assert.Equal(t, 3, s.TotalMatches)
	assert.Equal(t, []string{"H1", "H2", "H3"}, s.Headlines)
	assert.Equal(t, "Shop Now", s.CTA)
}

func TestGenerate_Locations(t *testing.T) {
	path := writeDataset(t, dataset)

	rec := serve(t, path, http.MethodPost, "/generate-suggestions", map[string]any{
		"platform":  "",
		"locations": " delhi ",
	})
	var s adcopy.Suggestions
	rec.DecodeJSON(t, &s)
	assert.Equal(t, adcopy.LevelFiltered, s.MatchLevel)
	assert.Equal(t, []string{"H1", "H3"}, s.Headlines)
}

func TestGenerate_MissingDatasetReturnsMock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	rec := serve(t, path, http.MethodPost, "/generate-suggestions", map[string]any{})
	rec.AssertStatus(t, http.StatusOK)

	var s adcopy.Suggestions
	rec.DecodeJSON(t, &s)
	assert.Equal(t, adcopy.LevelMock, s.MatchLevel)
	assert.Equal(t, 0, s.TotalMatches)
	assert.NotEmpty(t, s.Headlines)
}

func TestGenerate_ReadFailure(t *testing.T) {
	// A directory cannot be parsed as CSV.
	path := t.TempDir()

	rec := serve(t, path, http.MethodPost, "/generate-suggestions", map[string]any{})
	rec.AssertStatus(t, http.StatusInternalServerError)

	var body map[string]string
	rec.DecodeJSON(t, &body)
	assert.Contains(t, body["error"], "Error generating suggestions: ")
}

func TestGenerate_BadBody(t *testing.T) {
	path := writeDataset(t, dataset)
	rec := serve(t, path, http.MethodPost, "/generate-suggestions", "{not json")
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestStats(t *testing.T) {
	path := writeDataset(t, dataset)

	rec := serve(t, path, http.MethodGet, "/model-stats", nil)
	rec.AssertStatus(t, http.StatusOK)

	var st adcopy.Stats
	rec.DecodeJSON(t, &st)
	assert.Equal(t, 4, st.TotalRows)
	assert.Equal(t, 3, st.TotalUsers)
	assert.Equal(t, []string{"Clothing", "Shoes"}, st.Categories)
	assert.Equal(t, []string{"Male", "Female"}, st.Genders)
	assert.Equal(t, []string{"Meta", "Google"}, st.Platforms)
	assert.Equal(t, "18 - 50", st.AgeRange)
	assert.Equal(t, 4, st.UniqueHeadlines)
	assert.Equal(t, path, st.CSVPath)
}

func TestStats_MissingOrEmpty(t *testing.T) {
	for name, path := range map[string]string{
		"missing": filepath.Join(t.TempDir(), "absent.csv"),
		"empty":   writeDataset(t, ""),
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, path, http.MethodGet, "/model-stats", nil)
			rec.AssertStatus(t, http.StatusOK)

			var body map[string]string
			rec.DecodeJSON(t, &body)
			assert.Equal(t, "Model CSV not found", body["error"])
			assert.Equal(t, path, body["path"])
		})
	}
}
