package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// fallbackConfidence is assigned to recurrence-based groups, which carry no
// pairwise score of their own.
const fallbackConfidence = 80

// ArtifactConfidenceFloor is the minimum confidence for inclusion in the
// generated base page.
const ArtifactConfidenceFloor = 50

// groupingKey is the structural signature that collapses similarity pairs
// into one group: tag, input type, role, and a bounded prefix of the first
// class name.
func groupingKey(e ElementInfo, classPrefixLen int) string {
	c := e.Characteristics

	typ := c.Type
	if typ == "" {
		typ = "none"
	}
	role := c.Role
	if role == "" {
		role = "none"
	}
	class := c.FirstClass()
	if classPrefixLen > 0 && len(class) > classPrefixLen {
		class = class[:classPrefixLen]
	}

	return fmt.Sprintf("%s-%s-%s-%s", c.TagName, typ, role, class)
}

// GroupSimilar collapses similarity pairs into equivalence groups. Pairs are
// expected in descending-score order; the first pair under a key seeds the
// group and later pairs extend it (union of pages and selectors, running max
// confidence). Output is sorted descending by confidence.
func GroupSimilar(similarities []SimilarityResult, classPrefixLen int) []GroupedElement {
	groups := make(map[string]*GroupedElement)
	var order []string

	for _, sim := range similarities {
		key := groupingKey(sim.Element1, classPrefixLen)

		g, ok := groups[key]
		if !ok {
			base := sim.Element1
			groups[key] = &GroupedElement{
				SuggestedLocator:  SuggestLocator(base),
				SuggestedName:     SuggestName(base),
				ElementType:       base.Characteristics.TagName,
				CommonAttributes:  sim.MatchingAttributes,
				Pages:             []string{base.PageURL, sim.Element2.PageURL},
				Selectors:         []string{base.Selector, sim.Element2.Selector},
				Confidence:        sim.SimilarityScore,
				POMRecommendation: POMRecommendation(base),
			}
			order = append(order, key)
			continue
		}

		if !containsString(g.Pages, sim.Element2.PageURL) {
			g.Pages = append(g.Pages, sim.Element2.PageURL)
		}
		if !containsString(g.Selectors, sim.Element2.Selector) {
			g.Selectors = append(g.Selectors, sim.Element2.Selector)
		}
		if sim.SimilarityScore > g.Confidence {
			g.Confidence = sim.SimilarityScore
		}
	}

	result := make([]GroupedElement, 0, len(order))
	for _, key := range order {
		result = append(result, *groups[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Confidence > result[j].Confidence
	})
	return result
}

var searchClassPattern = regexp.MustCompile(`(?i)search`)
var toggleClassPattern = regexp.MustCompile(`(?i)toggle`)
var themeClassPattern = regexp.MustCompile(`(?i)theme|dark|light`)

var fallbackSemanticTags = map[string]bool{
	"header": true, "footer": true, "nav": true, "main": true, "aside": true,
}

// recurrenceKey buckets elements by a coarser semantic signature than the
// similarity grouping key: test ids, roles, nav targets, sectioning tags and
// recognizable class categories.
func recurrenceKey(e ElementInfo) string {
	c := e.Characteristics

	if testID := c.Attributes["data-testid"]; testID != "" {
		return "testid:" + testID
	}
	if c.Role != "" {
		return "role:" + c.Role
	}
	if c.TagName == "a" && c.Href != "" {
		switch {
		case c.Href == "/" || strings.HasSuffix(c.Href, "/"):
			return "nav:home"
		case strings.Contains(c.Href, "/docs"):
			return "nav:docs"
		case strings.Contains(c.Href, "/api"):
			return "nav:api"
		}
		return "nav:" + hrefSlug(c.Href)
	}
	if fallbackSemanticTags[c.TagName] {
		return "semantic:" + c.TagName
	}
	if anyClassMatches(c.Classes, searchClassPattern) {
		return "search"
	}
	if anyClassMatches(c.Classes, toggleClassPattern) {
		return "toggle"
	}
	if anyClassMatches(c.Classes, themeClassPattern) {
		return "theme"
	}

	typ := c.Type
	if typ == "" {
		typ = "default"
	}
	return c.TagName + "-" + typ
}

// GroupByRecurrence is the fallback grouping path, used only when no
// similarity pairs clear the threshold. Buckets observed on at least two
// distinct pages become groups with a fixed confidence, sorted descending by
// distinct-page count.
func GroupByRecurrence(elements []ElementInfo) []GroupedElement {
	buckets := make(map[string][]ElementInfo)
	var order []string

	for _, e := range elements {
		key := recurrenceKey(e)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	var groups []GroupedElement
	for _, key := range order {
		list := buckets[key]

		var pages []string
		for _, e := range list {
			if !containsString(pages, e.PageURL) {
				pages = append(pages, e.PageURL)
			}
		}
		if len(pages) < 2 {
			continue
		}

		rep := list[0]
		selectors := make([]string, 0, len(list))
		for _, e := range list {
			selectors = append(selectors, e.Selector)
		}

		groups = append(groups, GroupedElement{
			SuggestedLocator:  SuggestLocator(rep),
			SuggestedName:     SuggestName(rep),
			ElementType:       rep.Characteristics.TagName,
			CommonAttributes:  attributeNames(rep.Characteristics),
			Pages:             pages,
			Selectors:         selectors,
			Confidence:        fallbackConfidence,
			POMRecommendation: recommendationFallback,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Pages) > len(groups[j].Pages)
	})
	return groups
}

// attributeNames returns the element's attribute keys in sorted order so
// fallback groups serialize deterministically.
func attributeNames(c ElementCharacteristics) []string {
	names := make([]string, 0, len(c.Attributes))
	for name := range c.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func anyClassMatches(classes []string, pattern *regexp.Regexp) bool {
	for _, c := range classes {
		if pattern.MatchString(c) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
