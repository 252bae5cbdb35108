package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Similarity weights. The denominator is 9 points; a text match contributes
// half its weight, so scores top out just under 95%.
const (
	weightTag        = 3.0
	weightClasses    = 2.0
	weightAttribute  = 1.0
	weightText       = 1.0
	scoreText        = 0.5
	maxSharedClasses = 2
)

// Score computes the weighted similarity between two elements. Defined only
// for elements from distinct pages; callers enforce the cross-page contract.
func Score(a, b ElementInfo) SimilarityResult {
	ca, cb := a.Characteristics, b.Characteristics

	var score, total float64
	var matched []string

	total += weightTag
	if ca.TagName == cb.TagName {
		score += weightTag
		matched = append(matched, "tagName")
	}

	// Up to 2 points for shared classes, in the first element's class order.
	total += weightClasses
	shared := sharedClasses(ca.Classes, cb.Classes)
	score += float64(len(shared))
	if len(shared) > 0 {
		matched = append(matched, fmt.Sprintf("classes(%s)", strings.Join(shared, ",")))
	}

	for _, attr := range []struct {
		name string
		a, b string
	}{
		{"role", ca.Role, cb.Role},
		{"type", ca.Type, cb.Type},
		{"placeholder", ca.Placeholder, cb.Placeholder},
	} {
		total += weightAttribute
		if attr.a != "" && attr.a == attr.b {
			score += weightAttribute
			matched = append(matched, attr.name)
		}
	}

	total += weightText
	if ca.TextContent != "" && cb.TextContent != "" {
		t1 := strings.ToLower(ca.TextContent)
		t2 := strings.ToLower(cb.TextContent)
		if t1 == t2 || strings.Contains(t1, t2) || strings.Contains(t2, t1) {
			score += scoreText
			matched = append(matched, "text")
		}
	}

	pct := 0.0
	if total > 0 {
		pct = score / total * 100
	}

	return SimilarityResult{
		Element1:           a,
		Element2:           b,
		SimilarityScore:    math.Round(pct*100) / 100,
		MatchingAttributes: matched,
	}
}

func sharedClasses(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, c := range b {
		inB[c] = true
	}

	var shared []string
	for _, c := range a {
		if inB[c] {
			shared = append(shared, c)
			if len(shared) == maxSharedClasses {
				break
			}
		}
	}
	return shared
}

// FindSimilar compares every cross-page element pair and returns the pairs
// scoring at or above minScore, sorted descending by score. Same-page pairs
// are never compared.
func FindSimilar(elements []ElementInfo, minScore float64) []SimilarityResult {
	var results []SimilarityResult

	for i := 0; i < len(elements); i++ {
		for j := i + 1; j < len(elements); j++ {
			if elements[i].PageURL == elements[j].PageURL {
				continue
			}
			result := Score(elements[i], elements[j])
			if result.SimilarityScore >= minScore {
				results = append(results, result)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})

	return results
}
