package analyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/testforge/pomgen/internal/domain"
)

// ElementCache stores per-page extraction results between runs so repeated
// analyses of slow-changing sites skip the crawl.
type ElementCache interface {
	GetElements(ctx context.Context, pageURL string) ([]ElementInfo, bool, error)
	PutElements(ctx context.Context, pageURL string, elements []ElementInfo) error
}

// ArtifactStore persists run artifacts to object storage. Returns the stored
// object's URI.
type ArtifactStore interface {
	UploadArtifact(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// RunMetrics receives pipeline counters. All methods must be safe for
// concurrent use.
type RunMetrics interface {
	ObserveRun(status string, duration time.Duration)
	AddPagesCrawled(n int)
	AddElementsExtracted(n int)
	AddGroupsProduced(n int)
}

// ProgressFunc is invoked after each page attempt, successful or not.
type ProgressFunc func(pageURL string, done, total int)

// Service orchestrates the full pipeline: crawl, score, group, generate.
type Service struct {
	cfg      Config
	logger   *zap.Logger
	cache    ElementCache
	storage  ArtifactStore
	metrics  RunMetrics
	limiter  *rate.Limiter
	progress ProgressFunc
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithCache attaches an element cache.
func WithCache(cache ElementCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithStorage attaches an artifact store; report and generated source are
// uploaded after each successful run.
func WithStorage(storage ArtifactStore) Option {
	return func(s *Service) { s.storage = storage }
}

// WithMetrics attaches run metrics.
func WithMetrics(metrics RunMetrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

// WithProgress attaches a per-page progress callback.
func WithProgress(progress ProgressFunc) Option {
	return func(s *Service) { s.progress = progress }
}

// NewService creates the pipeline service.
func NewService(cfg Config, logger *zap.Logger, opts ...Option) *Service {
	ratePerSecond := cfg.NavRatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	s := &Service{
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOutput summarizes one completed analysis run.
type RunOutput struct {
	RunID        string
	Report       Report
	BasePage     string
	PagesCrawled int
	PagesFailed  int
	ElementCount int
	PairCount    int
	GroupCount   int
	UsedFallback bool
	ReportPath   string
	BasePagePath string
	ReportURI    string
	BasePageURI  string
}

// Run crawls the target URLs and produces the locator report and generated
// base page source. A page that fails to load is logged and skipped; the run
// fails only when every page fails or no elements survive filtering.
func (s *Service) Run(ctx context.Context, urls []string) (*RunOutput, error) {
	started := time.Now()
	out, err := s.run(ctx, urls)

	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failure"
		}
		s.metrics.ObserveRun(status, time.Since(started))
	}
	return out, err
}

func (s *Service) run(ctx context.Context, urls []string) (*RunOutput, error) {
	if len(urls) == 0 {
		urls = SampleURLs
	}

	browser, err := NewBrowser(s.cfg.Headless)
	if err != nil {
		return nil, domain.ExtractionFailedError("browser startup", err)
	}
	defer browser.Close()

	extractor := NewExtractor(s.cfg, s.logger)

	var elements []ElementInfo
	crawled, failed := 0, 0
	var lastNavErr error

	for i, url := range urls {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, domain.ExtractionFailedError("rate limiter wait", err)
		}

		pageElements, err := s.crawlPage(ctx, browser, extractor, url)
		if err != nil {
			s.logger.Warn("Page crawl failed, skipping",
				zap.String("url", url),
				zap.Error(err),
			)
			failed++
			lastNavErr = err
		} else {
			crawled++
			elements = append(elements, pageElements...)
			s.logger.Info("Page crawled",
				zap.String("url", url),
				zap.Int("elements", len(pageElements)),
			)
		}

		if s.progress != nil {
			s.progress(url, i+1, len(urls))
		}
	}

	if s.metrics != nil {
		s.metrics.AddPagesCrawled(crawled)
		s.metrics.AddElementsExtracted(len(elements))
	}

	if crawled == 0 {
		return nil, domain.ExtractionFailedError("all pages failed to load", lastNavErr)
	}
	if len(elements) == 0 {
		return nil, domain.NoElementsError()
	}

	similarities := FindSimilar(elements, s.cfg.MinSimilarity)

	var groups []GroupedElement
	usedFallback := false
	if len(similarities) > 0 {
		groups = GroupSimilar(similarities, s.cfg.GroupKeyClassPrefixLen)
	} else {
		s.logger.Info("No similarity pairs above threshold, using recurrence fallback",
			zap.Float64("minSimilarity", s.cfg.MinSimilarity),
		)
		groups = GroupByRecurrence(elements)
		usedFallback = true
	}

	if s.metrics != nil {
		s.metrics.AddGroupsProduced(len(groups))
	}

	runID := uuid.NewString()
	report := BuildReport(groups, runID, time.Now())
	if err := WriteReport(report, s.cfg.ReportFile); err != nil {
		return nil, domain.WriteFailedError(s.cfg.ReportFile, err)
	}

	basePage := GenerateBasePage(groups)
	if err := WriteBasePage(basePage, s.cfg.BasePageFile); err != nil {
		return nil, domain.WriteFailedError(s.cfg.BasePageFile, err)
	}

	out := &RunOutput{
		RunID:        runID,
		Report:       report,
		BasePage:     basePage,
		PagesCrawled: crawled,
		PagesFailed:  failed,
		ElementCount: len(elements),
		PairCount:    len(similarities),
		GroupCount:   len(groups),
		UsedFallback: usedFallback,
		ReportPath:   s.cfg.ReportFile,
		BasePagePath: s.cfg.BasePageFile,
	}

	s.uploadArtifacts(ctx, out)

	s.logger.Info("Analysis run complete",
		zap.String("runId", runID),
		zap.Int("pages", crawled),
		zap.Int("elements", len(elements)),
		zap.Int("pairs", len(similarities)),
		zap.Int("groups", len(groups)),
		zap.Bool("fallback", usedFallback),
	)
	return out, nil
}

// crawlPage loads one page and extracts its elements, consulting the cache
// first when one is configured. Cache failures degrade to a live crawl.
func (s *Service) crawlPage(ctx context.Context, browser *Browser, extractor *Extractor, url string) ([]ElementInfo, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetElements(ctx, url)
		if err != nil {
			s.logger.Debug("Element cache read failed", zap.String("url", url), zap.Error(err))
		} else if hit {
			s.logger.Debug("Element cache hit", zap.String("url", url), zap.Int("elements", len(cached)))
			return cached, nil
		}
	}

	page, err := browser.OpenPage(url, s.cfg.NavigationTimeout)
	if err != nil {
		return nil, domain.NavigationFailedError(url, err)
	}
	defer page.Close()

	elements := extractor.Extract(browser.Driver(page), url)

	if s.cache != nil {
		if err := s.cache.PutElements(ctx, url, elements); err != nil {
			s.logger.Debug("Element cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return elements, nil
}

// uploadArtifacts pushes the run's artifacts to object storage when a store
// is configured. Upload failures are logged and never fail the run.
func (s *Service) uploadArtifacts(ctx context.Context, out *RunOutput) {
	if s.storage == nil {
		return
	}

	reportData, err := json.MarshalIndent(out.Report, "", "  ")
	if err == nil {
		key := "runs/" + out.RunID + "/pom-locators-report.json"
		if uri, err := s.storage.UploadArtifact(ctx, key, reportData, "application/json"); err != nil {
			s.logger.Warn("Report upload failed", zap.String("key", key), zap.Error(err))
		} else {
			out.ReportURI = uri
		}
	}

	key := "runs/" + out.RunID + "/BasePage.ts"
	if uri, err := s.storage.UploadArtifact(ctx, key, []byte(out.BasePage), "application/typescript"); err != nil {
		s.logger.Warn("Generated source upload failed", zap.String("key", key), zap.Error(err))
	} else {
		out.BasePageURI = uri
	}
}
