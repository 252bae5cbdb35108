package handlers

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/testforge/pomgen/internal/analyzer"
	"github.com/testforge/pomgen/internal/domain"
	"github.com/testforge/pomgen/pkg/httputil"
)

// AnalyzeRequest is the analysis run request body
type AnalyzeRequest struct {
	URLs          []string `json:"urls"`
	MinSimilarity *float64 `json:"minSimilarity,omitempty"`
}

// AnalyzeResponse summarizes a completed analysis run
type AnalyzeResponse struct {
	RunID        string                  `json:"runId"`
	Summary      analyzer.ReportSummary  `json:"summary"`
	Groups       []analyzer.GroupedElement `json:"groups"`
	PagesCrawled int                     `json:"pagesCrawled"`
	PagesFailed  int                     `json:"pagesFailed"`
	ElementCount int                     `json:"elementCount"`
	UsedFallback bool                    `json:"usedFallback"`
	ReportPath   string                  `json:"reportPath"`
	BasePagePath string                  `json:"basePagePath"`
	ReportURI    string                  `json:"reportUri,omitempty"`
	BasePageURI  string                  `json:"basePageUri,omitempty"`
}

// AnalyzeHandler runs the analysis pipeline over HTTP. Each request builds
// its own pipeline service so per-request threshold overrides stay isolated.
type AnalyzeHandler struct {
	cfg    analyzer.Config
	logger *zap.Logger
	opts   []analyzer.Option
}

// NewAnalyzeHandler creates a new analysis handler
func NewAnalyzeHandler(cfg analyzer.Config, logger *zap.Logger, opts ...analyzer.Option) *AnalyzeHandler {
	return &AnalyzeHandler{cfg: cfg, logger: logger, opts: opts}
}

// Run handles POST /api/v1/analyze
func (h *AnalyzeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if err := validateRequest(req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	cfg := h.cfg
	if req.MinSimilarity != nil {
		cfg.MinSimilarity = *req.MinSimilarity
	}

	svc := analyzer.NewService(cfg, h.logger, h.opts...)
	out, err := svc.Run(r.Context(), req.URLs)
	if err != nil {
		h.logger.Error("Analysis run failed", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, AnalyzeResponse{
		RunID:        out.RunID,
		Summary:      out.Report.Summary,
		Groups:       out.Report.Groups,
		PagesCrawled: out.PagesCrawled,
		PagesFailed:  out.PagesFailed,
		ElementCount: out.ElementCount,
		UsedFallback: out.UsedFallback,
		ReportPath:   out.ReportPath,
		BasePagePath: out.BasePagePath,
		ReportURI:    out.ReportURI,
		BasePageURI:  out.BasePageURI,
	})
}

func validateRequest(req AnalyzeRequest) error {
	if len(req.URLs) == 0 {
		return domain.ValidationError("urls", "at least one URL is required")
	}
	for _, raw := range req.URLs {
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return domain.ValidationError("urls", "invalid URL: "+raw)
		}
	}
	if req.MinSimilarity != nil && (*req.MinSimilarity < 0 || *req.MinSimilarity > 100) {
		return domain.ValidationError("minSimilarity", "must be between 0 and 100")
	}
	return nil
}
