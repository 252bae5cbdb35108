package analyzer

import (
	"strings"
	"time"
)

// Config contains configuration for the analysis pipeline
type Config struct {
	MinSimilarity     float64       `json:"min_similarity"`
	MaxPerSelector    int           `json:"max_per_selector"`
	SelectorBatchSize int           `json:"selector_batch_size"`
	Headless          bool          `json:"headless"`
	NavigationTimeout time.Duration `json:"navigation_timeout"`
	NavRatePerSecond  float64       `json:"nav_rate_per_second"`

	// GroupKeyClassPrefixLen bounds the first-class-name prefix used in the
	// grouping signature. 24 is carried over from observed behavior; there is
	// no documented rationale for the exact value.
	GroupKeyClassPrefixLen int `json:"group_key_class_prefix_len"`

	ReportFile   string `json:"report_file"`
	BasePageFile string `json:"basepage_file"`
}

// DefaultConfig returns default analyzer configuration
func DefaultConfig() Config {
	return Config{
		MinSimilarity:          40,
		MaxPerSelector:         120,
		SelectorBatchSize:      4,
		Headless:               true,
		NavigationTimeout:      45 * time.Second,
		NavRatePerSecond:       1,
		GroupKeyClassPrefixLen: 24,
		ReportFile:             "./pom-locators-report.json",
		BasePageFile:           "./BasePage.ts",
	}
}

// SampleURLs is the built-in target set used when no URLs are supplied.
var SampleURLs = []string{
	"https://conduit.bondaracademy.com/",
	"https://conduit.bondaracademy.com/profile",
	"https://conduit.bondaracademy.com/settings",
}

// ElementCharacteristics is a snapshot of one DOM node's identity-relevant
// features. Immutable once captured.
type ElementCharacteristics struct {
	TagName     string            `json:"tagName"`
	Classes     []string          `json:"classes"`
	Attributes  map[string]string `json:"attributes"`
	TextContent string            `json:"textContent"`
	Role        string            `json:"role,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Type        string            `json:"type,omitempty"`
	Href        string            `json:"href,omitempty"`
	Src         string            `json:"src,omitempty"`
}

// FirstClass returns the first class name, or "" when the class list is empty.
func (c ElementCharacteristics) FirstClass() string {
	if len(c.Classes) > 0 {
		return c.Classes[0]
	}
	return ""
}

// Fingerprint builds the composite key used to deduplicate repeated captures
// of the same logical element within one page crawl. Two functionally distinct
// elements sharing all seven fields collide and are captured once; the key is
// kept as observed rather than widened.
func (c ElementCharacteristics) Fingerprint() string {
	return strings.Join([]string{
		c.TagName,
		c.Attributes["id"],
		c.Role,
		c.Attributes["name"],
		c.Placeholder,
		c.Href,
		c.FirstClass(),
	}, "|")
}

// ElementInfo is one observed occurrence of an element on a page
type ElementInfo struct {
	Selector        string                 `json:"selector"`
	Characteristics ElementCharacteristics `json:"characteristics"`
	XPath           string                 `json:"xpath"`
	PageURL         string                 `json:"pageUrl"`
}

// SimilarityResult is the comparison outcome between two elements from
// different pages
type SimilarityResult struct {
	Element1           ElementInfo `json:"element1"`
	Element2           ElementInfo `json:"element2"`
	SimilarityScore    float64     `json:"similarityScore"`
	MatchingAttributes []string    `json:"matchingAttributes"`
}

// GroupedElement is a cluster of structurally equivalent elements across pages
type GroupedElement struct {
	SuggestedLocator  string   `json:"suggestedLocator"`
	SuggestedName     string   `json:"suggestedName"`
	ElementType       string   `json:"elementType"`
	CommonAttributes  []string `json:"commonAttributes"`
	Pages             []string `json:"pages"`
	Selectors         []string `json:"selectors"`
	Confidence        float64  `json:"confidence"`
	POMRecommendation string   `json:"pomRecommendation"`
}
