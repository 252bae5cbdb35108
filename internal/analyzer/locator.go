package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Stability classifies how likely a locator is to survive markup changes
type Stability string

const (
	StabilityHigh   Stability = "high"
	StabilityMedium Stability = "medium"
	StabilityLow    Stability = "low"
)

// testHookAttributes in priority order
var testHookAttributes = []string{"data-testid", "data-cy", "data-test"}

// dynamicIDPatterns flag auto-generated ids: UUIDs, long hex runs, embedded
// long numbers, generator keywords, and UI-framework prefixes.
var dynamicIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`),
	regexp.MustCompile(`(?i)^[a-f0-9]{16,}$`),
	regexp.MustCompile(`\d{10,}`),
	regexp.MustCompile(`(?i)(random|temp|generated|uuid|guid)`),
	regexp.MustCompile(`(?i)^(react|ember|mat|cdk|_ngcontent|vaadin|ant|chakra|mantine|mui)-`),
}

// avoidClassPatterns filter out utility/spacing/responsive class names before
// a class is considered meaningful.
var avoidClassPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(m|p|mt|mb|ml|mr|pt|pb|pl|pr|w|h|min|max|text|bg|border|shadow|rounded|flex|grid|block|inline|relative|absolute)(:|-)?`),
	regexp.MustCompile(`(?i)(^sm:|^md:|^lg:|^xl:)`),
	regexp.MustCompile(`(?i)util|utility|helper`),
}

// preferClassPatterns rank structural-role class families, first match wins.
// The button family excludes utility collisions so a spacing helper like
// "btn-padding" cannot outrank a real structural class.
var preferClassPatterns = []struct {
	match   *regexp.Regexp
	exclude *regexp.Regexp
}{
	{match: regexp.MustCompile(`(?i)(navbar|header|footer|sidebar|content|main|nav|menu)`)},
	{match: regexp.MustCompile(`(?i)(btn|button)`), exclude: regexp.MustCompile(`(?i)(util|margin|padding)`)},
	{match: regexp.MustCompile(`(?i)(form|input|search)`)},
	{match: regexp.MustCompile(`(?i)(logo|brand|title)`)},
	{match: regexp.MustCompile(`(?i)(toggle|dropdown|modal|dialog)`)},
}

var semanticTags = map[string]bool{
	"header": true, "footer": true, "nav": true, "main": true,
	"aside": true, "section": true, "article": true,
}

var headingTagPattern = regexp.MustCompile(`^h[1-6]$`)

// IsDynamicID reports whether an id looks auto-generated and therefore
// unusable as a stable locator anchor.
func IsDynamicID(id string) bool {
	for _, p := range dynamicIDPatterns {
		if p.MatchString(id) {
			return true
		}
	}
	return false
}

// MeaningfulClass picks the most descriptive class name, preferring
// structural-role families and skipping utility classes. Returns "" when no
// class qualifies.
func MeaningfulClass(classes []string) string {
	avoided := func(c string) bool {
		for _, a := range avoidClassPatterns {
			if a.MatchString(c) {
				return true
			}
		}
		return false
	}

	for _, prefer := range preferClassPatterns {
		for _, c := range classes {
			if !prefer.match.MatchString(c) || avoided(c) {
				continue
			}
			if prefer.exclude != nil && prefer.exclude.MatchString(c) {
				continue
			}
			return c
		}
	}

	for _, c := range classes {
		if !avoided(c) && len(c) > 2 {
			return c
		}
	}
	return ""
}

// quoteText renders a text argument for an emitted locator expression.
func quoteText(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// SuggestLocator derives a stable locator expression for an element. Rules
// are applied in priority order, first match wins: test hooks, role with
// accessible name, input attributes, button/link text, stable id, meaningful
// class, semantic tag, heading text, then the raw crawled selector.
func SuggestLocator(e ElementInfo) string {
	c := e.Characteristics

	for _, hook := range testHookAttributes {
		if v := c.Attributes[hook]; v != "" {
			return fmt.Sprintf(`[%s="%s"]`, hook, v)
		}
	}

	accessibleName := c.Attributes["aria-label"]
	if accessibleName == "" {
		accessibleName = strings.TrimSpace(c.TextContent)
	}
	if c.Role != "" && accessibleName != "" {
		return fmt.Sprintf("getByRole('%s', { name: %s })", c.Role, quoteText(accessibleName))
	}
	if c.Role != "" {
		return fmt.Sprintf("getByRole('%s')", c.Role)
	}

	if c.TagName == "input" {
		if c.Placeholder != "" {
			return fmt.Sprintf("getByPlaceholder(%s)", quoteText(c.Placeholder))
		}
		if name := c.Attributes["name"]; name != "" {
			return fmt.Sprintf(`input[name="%s"]`, name)
		}
		if c.Type != "" {
			return fmt.Sprintf(`input[type="%s"]`, c.Type)
		}
	}

	if c.TagName == "button" && c.TextContent != "" && len(c.TextContent) < 50 {
		return fmt.Sprintf("getByRole('button', { name: %s })", quoteText(c.TextContent))
	}

	if c.TagName == "a" {
		if c.TextContent != "" {
			return fmt.Sprintf("getByRole('link', { name: %s })", quoteText(c.TextContent))
		}
		if c.Href != "" {
			return fmt.Sprintf(`a[href="%s"]`, c.Href)
		}
	}

	if id := c.Attributes["id"]; id != "" && !IsDynamicID(id) {
		return "#" + id
	}

	if mc := MeaningfulClass(c.Classes); mc != "" {
		return "." + mc
	}

	if semanticTags[c.TagName] {
		return c.TagName
	}

	if headingTagPattern.MatchString(c.TagName) && c.TextContent != "" {
		text := c.TextContent
		if runes := []rune(text); len(runes) > 30 {
			text = string(runes[:30])
		}
		return fmt.Sprintf("%s:has-text(%s)", c.TagName, quoteText(text))
	}

	if e.Selector != "" {
		return e.Selector
	}
	return c.TagName
}

// roleSuffixes map ARIA roles to identifier suffixes; the role wins over the
// tag when both are mapped.
var roleSuffixes = map[string]string{
	"button":     "Button",
	"link":       "Link",
	"tab":        "Tab",
	"tabpanel":   "Panel",
	"dialog":     "Dialog",
	"navigation": "Navigation",
	"search":     "Search",
	"menu":       "Menu",
	"menuitem":   "MenuItem",
}

var inputTypeSuffixes = map[string]string{
	"text": "Input", "email": "Input", "password": "Input", "number": "Input",
	"tel": "Input", "url": "Input", "search": "Input",
	"checkbox": "Checkbox", "radio": "Radio", "file": "FileInput",
	"date": "DateInput", "time": "DateInput", "datetime-local": "DateInput",
}

func nameSuffix(tag, inputType, role string) string {
	if role != "" {
		if s, ok := roleSuffixes[role]; ok {
			return s
		}
	}

	switch {
	case tag == "a":
		return "Link"
	case tag == "button" || inputType == "submit" || inputType == "button":
		return "Button"
	case tag == "select":
		return "Dropdown"
	case tag == "textarea":
		return "Textarea"
	case tag == "form":
		return "Form"
	case tag == "table":
		return "Table"
	case tag == "nav":
		return "Navigation"
	case tag == "header":
		return "Header"
	case tag == "footer":
		return "Footer"
	case tag == "main":
		return "Content"
	case headingTagPattern.MatchString(tag):
		return "Heading"
	case tag == "input":
		if s, ok := inputTypeSuffixes[inputType]; ok {
			return s
		}
		return "Input"
	}
	return "Element"
}

func cleanBaseName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSpace(regexp.MustCompile(`[-_\s]+`).ReplaceAllString(s, " "))
	if s == "" {
		s = "element"
	}
	return s
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

func toCamel(name string) string {
	words := strings.Fields(cleanBaseName(name))
	for i := 1; i < len(words); i++ {
		words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
	}
	return nonAlphanumeric.ReplaceAllString(strings.Join(words, ""), "")
}

// hrefSlug derives a name fragment from a link target: the root path becomes
// "home", otherwise the last non-empty path segment.
func hrefSlug(href string) string {
	if href == "" {
		return ""
	}
	if href == "/" || strings.HasSuffix(href, "/") {
		return "home"
	}
	segments := strings.Split(href, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return "link"
}

// SuggestName builds a unique-ready, readable camelCase identifier for an
// element from its most descriptive attribute plus a tag/role/type suffix.
func SuggestName(e ElementInfo) string {
	c := e.Characteristics

	stableID := ""
	if id := c.Attributes["id"]; id != "" && !IsDynamicID(id) {
		stableID = id
	}

	base := firstNonEmpty(
		c.Attributes["data-testid"],
		c.Attributes["aria-label"],
		stableID,
		c.Placeholder,
		c.TextContent,
		c.Attributes["name"],
		MeaningfulClass(c.Classes),
		hrefSlug(c.Href),
		c.TagName,
	)

	return toCamel(base) + nameSuffix(c.TagName, c.Type, c.Role)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ClassifyStability rates an element's locator durability. Test hooks, stable
// ids and ARIA roles rate high; a meaningful class rates medium; everything
// else is low.
func ClassifyStability(e ElementInfo) Stability {
	c := e.Characteristics

	if c.Attributes["data-testid"] != "" {
		return StabilityHigh
	}
	if id := c.Attributes["id"]; id != "" && !IsDynamicID(id) {
		return StabilityHigh
	}
	if c.Role != "" {
		return StabilityHigh
	}
	if MeaningfulClass(c.Classes) != "" {
		return StabilityMedium
	}
	return StabilityLow
}

// Recommendation strings gate inclusion in the generated base page.
const (
	recommendationHigh     = "Recommended for BasePage - stable across pages"
	recommendationMedium   = "Consider for BasePage - may need overrides"
	recommendationLow      = "Page-specific locator - avoid BasePage"
	recommendationFallback = "Recommended for BasePage - appears on multiple pages"
)

// POMRecommendation maps stability to the human-readable inclusion advice.
func POMRecommendation(e ElementInfo) string {
	switch ClassifyStability(e) {
	case StabilityHigh:
		return recommendationHigh
	case StabilityMedium:
		return recommendationMedium
	default:
		return recommendationLow
	}
}
