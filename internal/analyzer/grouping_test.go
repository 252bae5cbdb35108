package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(score float64, a, b ElementInfo) SimilarityResult {
	return SimilarityResult{
		Element1:           a,
		Element2:           b,
		SimilarityScore:    score,
		MatchingAttributes: []string{"tagName"},
	}
}

func TestGroupSimilar_MergesByStructuralKey(t *testing.T) {
	brand := func(page string) ElementInfo {
		return element(page, "a", func(c *ElementCharacteristics) {
			c.Classes = []string{"navbar-brand"}
			c.TextContent = "Conduit"
			c.Href = "/"
		})
	}

	sims := []SimilarityResult{
		pair(50, brand("p1"), brand("p2")),
		pair(45, brand("p1"), brand("p3")),
	}

	groups := GroupSimilar(sims, 24)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "conduitLink", g.SuggestedName)
	assert.Equal(t, "a", g.ElementType)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, g.Pages)
	assert.Equal(t, 50.0, g.Confidence)
}

func TestGroupSimilar_ConfidenceIsRunningMax(t *testing.T) {
	btn := func(page string) ElementInfo {
		return element(page, "button", func(c *ElementCharacteristics) {
			c.Classes = []string{"btn-save"}
			c.TextContent = "Save"
		})
	}

	sims := []SimilarityResult{
		pair(60, btn("p1"), btn("p2")),
		pair(80, btn("p1"), btn("p3")),
	}

	groups := GroupSimilar(sims, 24)
	require.Len(t, groups, 1)
	assert.Equal(t, 80.0, groups[0].Confidence)
}

func TestGroupSimilar_DistinctKeysStaySeparate(t *testing.T) {
	link := element("p1", "a", func(c *ElementCharacteristics) { c.TextContent = "Docs"; c.Href = "/docs" })
	link2 := element("p2", "a", func(c *ElementCharacteristics) { c.TextContent = "Docs"; c.Href = "/docs" })
	input := element("p1", "input", func(c *ElementCharacteristics) { c.Type = "search" })
	input2 := element("p2", "input", func(c *ElementCharacteristics) { c.Type = "search" })

	groups := GroupSimilar([]SimilarityResult{
		pair(70, link, link2),
		pair(55, input, input2),
	}, 24)

	require.Len(t, groups, 2)
	// sorted descending by confidence
	assert.Equal(t, 70.0, groups[0].Confidence)
	assert.Equal(t, 55.0, groups[1].Confidence)
}

func TestGroupSimilar_ClassPrefixTruncation(t *testing.T) {
	long := func(page, class string) ElementInfo {
		return element(page, "div", func(c *ElementCharacteristics) {
			c.Classes = []string{class}
			c.TextContent = "x"
		})
	}

	// Same first 24 chars, different tails: one group.
	a := "extremely-long-class-name-variant-one"
	b := "extremely-long-class-name-variant-two"
	sims := []SimilarityResult{
		pair(50, long("p1", a), long("p2", a)),
		pair(48, long("p1", b), long("p2", b)),
	}

	groups := GroupSimilar(sims, 24)
	assert.Len(t, groups, 1)

	// With no truncation they stay apart.
	groups = GroupSimilar(sims, 0)
	assert.Len(t, groups, 2)
}

func TestGroupByRecurrence_RequiresTwoPages(t *testing.T) {
	elems := []ElementInfo{
		element("p1", "nav", nil),
		element("p2", "nav", nil),
		element("p1", "footer", nil),
	}

	groups := GroupByRecurrence(elems)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "nav", g.ElementType)
	assert.Equal(t, 80.0, g.Confidence)
	assert.Equal(t, recommendationFallback, g.POMRecommendation)
	assert.ElementsMatch(t, []string{"p1", "p2"}, g.Pages)
}

func TestGroupByRecurrence_Keys(t *testing.T) {
	tests := []struct {
		name string
		elem ElementInfo
		key  string
	}{
		{
			name: "test id",
			elem: element("p", "div", func(c *ElementCharacteristics) { c.Attributes["data-testid"] = "hero" }),
			key:  "testid:hero",
		},
		{
			name: "role",
			elem: element("p", "div", func(c *ElementCharacteristics) { c.Role = "search" }),
			key:  "role:search",
		},
		{
			name: "home link",
			elem: element("p", "a", func(c *ElementCharacteristics) { c.Href = "/" }),
			key:  "nav:home",
		},
		{
			name: "docs link",
			elem: element("p", "a", func(c *ElementCharacteristics) { c.Href = "/docs/intro" }),
			key:  "nav:docs",
		},
		{
			name: "api link",
			elem: element("p", "a", func(c *ElementCharacteristics) { c.Href = "/api/reference" }),
			key:  "nav:api",
		},
		{
			name: "slug link",
			elem: element("p", "a", func(c *ElementCharacteristics) { c.Href = "/pricing" }),
			key:  "nav:pricing",
		},
		{
			name: "semantic tag",
			elem: element("p", "header", nil),
			key:  "semantic:header",
		},
		{
			name: "search class",
			elem: element("p", "div", func(c *ElementCharacteristics) { c.Classes = []string{"DocSearch-Button"} }),
			key:  "search",
		},
		{
			name: "theme class",
			elem: element("p", "div", func(c *ElementCharacteristics) { c.Classes = []string{"dark-mode"} }),
			key:  "theme",
		},
		{
			name: "tag and type fallback",
			elem: element("p", "input", func(c *ElementCharacteristics) { c.Type = "email" }),
			key:  "input-email",
		},
		{
			name: "tag default fallback",
			elem: element("p", "span", nil),
			key:  "span-default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, recurrenceKey(tt.elem))
		})
	}
}

func TestGroupByRecurrence_SortedByPageCount(t *testing.T) {
	elems := []ElementInfo{
		element("p1", "footer", nil),
		element("p2", "footer", nil),
		element("p1", "nav", nil),
		element("p2", "nav", nil),
		element("p3", "nav", nil),
	}

	groups := GroupByRecurrence(elems)
	require.Len(t, groups, 2)
	assert.Equal(t, "nav", groups[0].ElementType)
	assert.Equal(t, "footer", groups[1].ElementType)
}

func TestGroupByRecurrence_Deterministic(t *testing.T) {
	elems := []ElementInfo{
		element("p1", "nav", func(c *ElementCharacteristics) {
			c.Attributes["class"] = "navbar"
			c.Attributes["id"] = "main-nav"
			c.Attributes["aria-label"] = "Main"
		}),
		element("p2", "nav", nil),
	}

	first := GroupByRecurrence(elems)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GroupByRecurrence(elems))
	}
}
