package analyzer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_Summary(t *testing.T) {
	groups := []GroupedElement{
		{SuggestedName: "homeLink", POMRecommendation: recommendationHigh, Confidence: 80},
		{SuggestedName: "saveButton", POMRecommendation: recommendationMedium, Confidence: 60},
		{SuggestedName: "oneOff", POMRecommendation: recommendationLow, Confidence: 45},
	}

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	report := BuildReport(groups, "run-1", now)

	assert.Equal(t, "2026-03-14T09:26:53Z", report.Timestamp)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 3, report.Summary.TotalGroups)
	// "Consider for BasePage" counts, "avoid BasePage" also names BasePage;
	// the gate is the literal substring, matching artifact selection.
	assert.Equal(t, 3, report.Summary.BasePageRecommendations)
	assert.Equal(t, groups, report.Groups)
}

func TestBuildReport_TimestampNormalizedToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, loc)

	report := BuildReport(nil, "run-2", now)
	assert.Equal(t, "2026-01-01T10:00:00Z", report.Timestamp)
}

func TestWriteReport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	report := BuildReport([]GroupedElement{
		{
			SuggestedLocator:  ".navbar-brand",
			SuggestedName:     "conduitLink",
			ElementType:       "a",
			CommonAttributes:  []string{"tagName", "classes(navbar-brand)"},
			Pages:             []string{"p1", "p2"},
			Selectors:         []string{"a.navbar-brand", "a.navbar-brand"},
			Confidence:        50,
			POMRecommendation: recommendationMedium,
		},
	}, "run-3", time.Now())

	require.NoError(t, WriteReport(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "run-3", decoded["runId"])
	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["totalGroups"])

	groups := decoded["groups"].([]any)
	first := groups[0].(map[string]any)
	assert.Equal(t, ".navbar-brand", first["suggestedLocator"])
	assert.Equal(t, "conduitLink", first["suggestedName"])
	assert.Equal(t, "a", first["elementType"])
	assert.Equal(t, recommendationMedium, first["pomRecommendation"])
}

func TestWriteReport_Deterministic(t *testing.T) {
	dir := t.TempDir()
	report := BuildReport([]GroupedElement{
		{SuggestedName: "navMenu", Confidence: 75, POMRecommendation: recommendationHigh},
	}, "run-4", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	p1 := filepath.Join(dir, "a.json")
	p2 := filepath.Join(dir, "b.json")
	require.NoError(t, WriteReport(report, p1))
	require.NoError(t, WriteReport(report, p2))

	d1, _ := os.ReadFile(p1)
	d2, _ := os.ReadFile(p2)
	assert.Equal(t, d1, d2)
}
