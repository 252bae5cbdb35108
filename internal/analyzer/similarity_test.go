package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(page, tag string, mutate func(*ElementCharacteristics)) ElementInfo {
	ch := ElementCharacteristics{
		TagName:    tag,
		Attributes: map[string]string{},
	}
	if mutate != nil {
		mutate(&ch)
	}
	return ElementInfo{
		Selector:        tag,
		Characteristics: ch,
		PageURL:         page,
	}
}

func TestScore_BrandLinkAcrossPages(t *testing.T) {
	brand := func(page string) ElementInfo {
		return element(page, "a", func(c *ElementCharacteristics) {
			c.Classes = []string{"navbar-brand"}
			c.TextContent = "Conduit"
			c.Href = "/"
		})
	}

	result := Score(brand("https://conduit.bondaracademy.com/"), brand("https://conduit.bondaracademy.com/profile"))

	// tag 3 + one shared class 1 + text 0.5 out of 9
	assert.Equal(t, 50.0, result.SimilarityScore)
	assert.Contains(t, result.MatchingAttributes, "tagName")
	assert.Contains(t, result.MatchingAttributes, "classes(navbar-brand)")
	assert.Contains(t, result.MatchingAttributes, "text")
}

func TestScore_Bounds(t *testing.T) {
	identical := func(page string) ElementInfo {
		return element(page, "input", func(c *ElementCharacteristics) {
			c.Classes = []string{"form-control", "search-input"}
			c.Role = "searchbox"
			c.Type = "search"
			c.Placeholder = "Search"
			c.TextContent = "x"
		})
	}

	full := Score(identical("p1"), identical("p2"))
	// tag 3 + classes 2 + role 1 + type 1 + placeholder 1 + text 0.5 = 8.5 of
	// 9, rounded to two decimals
	assert.InDelta(t, 94.44, full.SimilarityScore, 0.001)

	disjoint := Score(
		element("p1", "div", func(c *ElementCharacteristics) { c.TextContent = "alpha" }),
		element("p2", "span", func(c *ElementCharacteristics) { c.TextContent = "omega" }),
	)
	assert.Equal(t, 0.0, disjoint.SimilarityScore)
}

func TestScore_Symmetric(t *testing.T) {
	a := element("p1", "button", func(c *ElementCharacteristics) {
		c.Classes = []string{"btn", "btn-primary"}
		c.TextContent = "Submit"
	})
	b := element("p2", "button", func(c *ElementCharacteristics) {
		c.Classes = []string{"btn-primary", "btn"}
		c.TextContent = "Submit form"
	})

	assert.Equal(t, Score(a, b).SimilarityScore, Score(b, a).SimilarityScore)
}

func TestScore_SharedClassesCapped(t *testing.T) {
	many := func(page string) ElementInfo {
		return element(page, "div", func(c *ElementCharacteristics) {
			c.Classes = []string{"one", "two", "three", "four"}
			c.TextContent = "t"
		})
	}

	result := Score(many("p1"), many("p2"))
	// tag 3 + classes capped at 2 + text 0.5 of 9
	assert.InDelta(t, 61.11, result.SimilarityScore, 0.001)
	assert.Contains(t, result.MatchingAttributes, "classes(one,two)")
}

func TestScore_TextContainmentCountsOnce(t *testing.T) {
	a := element("p1", "a", func(c *ElementCharacteristics) { c.TextContent = "Sign In" })
	b := element("p2", "a", func(c *ElementCharacteristics) { c.TextContent = "sign in now" })

	result := Score(a, b)
	assert.Contains(t, result.MatchingAttributes, "text")
	// tag 3 + text 0.5 of 9
	assert.InDelta(t, 38.89, result.SimilarityScore, 0.001)
}

func TestScore_EmptyAttributesNeverMatch(t *testing.T) {
	a := element("p1", "div", nil)
	b := element("p2", "div", nil)

	result := Score(a, b)
	assert.NotContains(t, result.MatchingAttributes, "role")
	assert.NotContains(t, result.MatchingAttributes, "type")
	assert.NotContains(t, result.MatchingAttributes, "placeholder")
	assert.NotContains(t, result.MatchingAttributes, "text")
}

func TestFindSimilar_SkipsSamePage(t *testing.T) {
	a := element("p1", "button", func(c *ElementCharacteristics) { c.TextContent = "Go" })
	b := element("p1", "button", func(c *ElementCharacteristics) { c.TextContent = "Go" })

	results := FindSimilar([]ElementInfo{a, b}, 0)
	assert.Empty(t, results)
}

func TestFindSimilar_ThresholdAndOrdering(t *testing.T) {
	strong := func(page string) ElementInfo {
		return element(page, "nav", func(c *ElementCharacteristics) {
			c.Classes = []string{"navbar"}
			c.Role = "navigation"
			c.TextContent = "Home Docs"
		})
	}
	weak1 := element("p1", "span", func(c *ElementCharacteristics) { c.TextContent = "a" })
	weak2 := element("p2", "span", func(c *ElementCharacteristics) { c.TextContent = "b" })

	results := FindSimilar([]ElementInfo{strong("p1"), weak1, strong("p2"), weak2}, 40)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].SimilarityScore, results[i].SimilarityScore)
	}
	for _, r := range results {
		assert.GreaterOrEqual(t, r.SimilarityScore, 40.0)
		assert.NotEqual(t, r.Element1.PageURL, r.Element2.PageURL)
	}
}
