package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/testforge/pomgen/internal/analyzer"
)

func main() {
	urls := flag.String("urls", "", "Comma-separated target URLs (empty for built-in samples)")
	minSimilarity := flag.Float64("min-similarity", 40, "Similarity threshold percentage (0-100)")
	headless := flag.Bool("headless", true, "Run browser in headless mode")
	maxPerSelector := flag.Int("max-per-selector", 120, "Per-selector element cap")
	reportFile := flag.String("report", "./pom-locators-report.json", "Output path for the JSON report")
	outFile := flag.String("outfile", "./BasePage.ts", "Output path for the generated page class")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall run timeout")
	flag.Parse()

	// Optional .env for local runs
	godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg := analyzer.DefaultConfig()
	cfg.MinSimilarity = *minSimilarity
	cfg.Headless = *headless
	cfg.MaxPerSelector = *maxPerSelector
	cfg.ReportFile = *reportFile
	cfg.BasePageFile = *outFile

	targets := analyzer.SampleURLs
	if *urls != "" {
		targets = nil
		for _, u := range strings.Split(*urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				targets = append(targets, u)
			}
		}
	}

	fmt.Printf("Analyzing %d page(s), similarity threshold %.0f%%\n", len(targets), cfg.MinSimilarity)
	fmt.Println("---")

	bar := progressbar.NewOptions(len(targets),
		progressbar.OptionSetDescription("Crawling pages"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	svc := analyzer.NewService(cfg, logger,
		analyzer.WithProgress(func(pageURL string, done, total int) {
			bar.Set(done)
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	started := time.Now()
	out, err := svc.Run(ctx, targets)
	if err != nil {
		color.Red("Analysis failed: %v", err)
		os.Exit(1)
	}
	duration := time.Since(started)

	fmt.Println("---")
	color.Green("Analysis complete (%s)", duration.Round(time.Millisecond))
	fmt.Printf("├── Run ID: %s\n", out.RunID)
	fmt.Printf("├── Pages crawled: %d (%d failed)\n", out.PagesCrawled, out.PagesFailed)
	fmt.Printf("├── Elements extracted: %d\n", out.ElementCount)
	fmt.Printf("├── Similarity pairs: %d\n", out.PairCount)
	fmt.Printf("├── Groups: %d", out.GroupCount)
	if out.UsedFallback {
		fmt.Print(" (recurrence fallback)")
	}
	fmt.Println()
	fmt.Printf("├── Report: %s\n", out.ReportPath)
	fmt.Printf("└── Generated class: %s\n", out.BasePagePath)

	printTopCandidates(out.Report.Groups)
}

// printTopCandidates shows the five strongest base-page candidates.
func printTopCandidates(groups []analyzer.GroupedElement) {
	var candidates []analyzer.GroupedElement
	for _, g := range groups {
		if strings.Contains(g.POMRecommendation, "BasePage") {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return
	}
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	fmt.Println("\nTop candidates:")
	bold := color.New(color.Bold)
	for _, g := range candidates {
		bold.Printf("  %s", g.SuggestedName)
		fmt.Printf("  %.1f%%  %s  (%d pages)\n", g.Confidence, g.SuggestedLocator, len(g.Pages))
	}
}
