package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Report is the JSON document produced alongside the generated base page
type Report struct {
	Timestamp string           `json:"timestamp"`
	RunID     string           `json:"runId"`
	Summary   ReportSummary    `json:"summary"`
	Groups    []GroupedElement `json:"groups"`
}

// ReportSummary holds the report's headline counts
type ReportSummary struct {
	TotalGroups             int `json:"totalGroups"`
	BasePageRecommendations int `json:"basePageRecommendations"`
}

// BuildReport assembles the report document for one run
func BuildReport(groups []GroupedElement, runID string, now time.Time) Report {
	recommended := 0
	for _, g := range groups {
		if strings.Contains(g.POMRecommendation, "BasePage") {
			recommended++
		}
	}

	return Report{
		Timestamp: now.UTC().Format(time.RFC3339),
		RunID:     runID,
		Summary: ReportSummary{
			TotalGroups:             len(groups),
			BasePageRecommendations: recommended,
		},
		Groups: groups,
	}
}

// WriteReport writes the report document to path, fully overwriting any
// previous run's output.
func WriteReport(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
