package analyzer

import (
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// selectorCatalogue is the fixed set of CSS selectors the crawler enumerates,
// grouped into form controls, navigation/role-bearing elements, test ids,
// semantic sectioning tags and miscellaneous interactive markers.
var selectorCatalogue = []string{
	// Forms / inputs
	"input[type=text]", "input[type=email]", "input[type=password]", "input[type=search]",
	"input[type=number]", "input[type=tel]", "input[type=url]", "input[type=date]",
	"input[type=time]", "input[type=datetime-local]", "input[type=checkbox]", "input[type=radio]",
	"input[type=file]", "textarea", "select", "button",
	// Nav / links / roles
	"a[href]", "nav a", "[role=navigation] a", "[role=button]", "[role=tab]",
	"[role=menuitem]", "[role=link]", "[tabindex]",
	// Test ids
	"[data-testid]", "[data-test]", "[data-cy]",
	// Semantics
	"form", "fieldset", "header", "footer", "nav", "main", "article", "section",
	// Misc UI
	"[onclick]", ".modal", ".dialog", ".popup", "[role=dialog]", "[role=alertdialog]",
}

var decorativeClassKeywords = []string{
	"ad", "ads", "advert", "banner", "promo", "promotion",
	"decoration", "ornament", "divider", "spacer", "separator",
	"background", "bg", "overlay", "backdrop", "shadow", "border", "icon-only",
}

var decorativeIDPattern = regexp.MustCompile(`(?i)google|doubleclick|adsystem|advert`)

var inputFamilyTags = map[string]bool{
	"input": true, "button": true, "select": true, "textarea": true,
}

// Extractor crawls one page's DOM through a PageDriver and produces one
// ElementInfo per deduplicated interactable element.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// NewExtractor creates a new element extractor
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract enumerates the selector catalogue against the page. Selectors are
// queried in fixed-size concurrent batches; element processing stays
// sequential in catalogue-then-handle order so the fingerprint set has a
// single writer. Failures on one element or one selector never abort the
// crawl.
func (e *Extractor) Extract(driver PageDriver, pageURL string) []ElementInfo {
	batchSize := e.cfg.SelectorBatchSize
	if batchSize <= 0 {
		batchSize = 4
	}

	seen := make(map[string]bool)
	var results []ElementInfo

	for start := 0; start < len(selectorCatalogue); start += batchSize {
		end := start + batchSize
		if end > len(selectorCatalogue) {
			end = len(selectorCatalogue)
		}
		batch := selectorCatalogue[start:end]

		probes := make([][]ElementProbe, len(batch))
		var wg sync.WaitGroup
		for i, sel := range batch {
			wg.Add(1)
			go func(i int, sel string) {
				defer wg.Done()
				probes[i] = e.queryCapped(driver, sel)
			}(i, sel)
		}
		wg.Wait()

		for i, selProbes := range probes {
			count := 0
			for _, probe := range selProbes {
				info, ok := e.processProbe(probe, pageURL, seen)
				if ok {
					results = append(results, info)
					count++
				}
			}
			if count > 0 {
				e.logger.Debug("Extracted elements",
					zap.String("selector", batch[i]),
					zap.Int("count", count),
				)
			}
		}
	}

	return results
}

// queryCapped queries one selector, returning at most MaxPerSelector probes.
// A query failure yields an empty result for that selector only.
func (e *Extractor) queryCapped(driver PageDriver, selector string) []ElementProbe {
	probes, err := driver.QueryAll(selector)
	if err != nil {
		e.logger.Debug("Selector query failed", zap.String("selector", selector), zap.Error(err))
		return nil
	}

	if len(probes) > e.cfg.MaxPerSelector {
		for _, extra := range probes[e.cfg.MaxPerSelector:] {
			extra.Dispose()
		}
		probes = probes[:e.cfg.MaxPerSelector]
	}
	return probes
}

// processProbe runs the interactability, decorative and fingerprint filters
// against one element. The probe is disposed on every path.
func (e *Extractor) processProbe(probe ElementProbe, pageURL string, seen map[string]bool) (ElementInfo, bool) {
	defer probe.Dispose()

	interactable, err := probe.Interactable()
	if err != nil || !interactable {
		return ElementInfo{}, false
	}

	ch, err := probe.Characteristics()
	if err != nil {
		return ElementInfo{}, false
	}

	if isDecorative(ch) {
		return ElementInfo{}, false
	}

	fp := ch.Fingerprint()
	if seen[fp] {
		return ElementInfo{}, false
	}
	seen[fp] = true

	selector, err := probe.CSSSelector()
	if err != nil {
		return ElementInfo{}, false
	}
	xpath, err := probe.XPath()
	if err != nil {
		return ElementInfo{}, false
	}

	return ElementInfo{
		Selector:        selector,
		Characteristics: ch,
		XPath:           xpath,
		PageURL:         pageURL,
	}, true
}

// isDecorative rejects advertising/decoration elements and empty non-input
// containers that carry no testable signal.
func isDecorative(ch ElementCharacteristics) bool {
	if decorativeIDPattern.MatchString(ch.Attributes["id"]) {
		return true
	}

	for _, class := range ch.Classes {
		lower := strings.ToLower(class)
		for _, keyword := range decorativeClassKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}

	return ch.TextContent == "" && !inputFamilyTags[ch.TagName]
}
