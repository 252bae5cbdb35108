package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/testforge/pomgen/internal/analyzer"
)

func TestValidateRequest(t *testing.T) {
	threshold := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr bool
	}{
		{
			name:    "valid",
			req:     AnalyzeRequest{URLs: []string{"https://example.com", "http://example.com/docs"}},
			wantErr: false,
		},
		{
			name:    "no urls",
			req:     AnalyzeRequest{},
			wantErr: true,
		},
		{
			name:    "bad scheme",
			req:     AnalyzeRequest{URLs: []string{"ftp://example.com"}},
			wantErr: true,
		},
		{
			name:    "missing host",
			req:     AnalyzeRequest{URLs: []string{"https://"}},
			wantErr: true,
		},
		{
			name:    "threshold out of range",
			req:     AnalyzeRequest{URLs: []string{"https://example.com"}, MinSimilarity: threshold(150)},
			wantErr: true,
		},
		{
			name:    "threshold at bound",
			req:     AnalyzeRequest{URLs: []string{"https://example.com"}, MinSimilarity: threshold(100)},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestAnalyzeHandler_RejectsInvalidBody(t *testing.T) {
	h := NewAnalyzeHandler(analyzer.DefaultConfig(), zap.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: "{not json"},
		{name: "unknown field", body: `{"urls":["https://example.com"],"bogus":true}`},
		{name: "empty urls", body: `{"urls":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Run(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
		})
	}
}
