package analyzer

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Section titles, in emission order. A candidate lands in the first section
// whose predicate it satisfies.
const (
	sectionNavigation = "Navigation Elements"
	sectionHeader     = "Header Elements"
	sectionSearch     = "Search Elements"
	sectionSidebar    = "Sidebar Elements"
	sectionContent    = "Content Elements"
	sectionForm       = "Form Elements"
	sectionFooter     = "Footer Elements"
	sectionTheme      = "Theme Elements"
	sectionUtility    = "Utility Elements"
)

var sectionOrder = []string{
	sectionNavigation, sectionHeader, sectionSearch, sectionSidebar,
	sectionContent, sectionForm, sectionFooter, sectionTheme, sectionUtility,
}

var (
	navNamePattern       = regexp.MustCompile(`(?i)(nav|menu|home|docs|api)`)
	navLocatorPattern    = regexp.MustCompile(`role="navigation"|nav|menu|href=`)
	headerNamePattern    = regexp.MustCompile(`(?i)(header|logo|brand)`)
	headerLocatorPattern = regexp.MustCompile(`header|logo|brand`)
	searchNamePattern    = regexp.MustCompile(`(?i)search`)
	searchLocatorPattern = regexp.MustCompile(`search|docsearch`)
	sidebarPattern       = regexp.MustCompile(`(?i)(sidebar|aside|toc|toggle)`)
	contentNamePattern   = regexp.MustCompile(`(?i)(main|content|article|title|heading)`)
	contentLocPattern    = regexp.MustCompile(`main|content|article`)
	formNamePattern      = regexp.MustCompile(`(?i)(form|input|button|dropdown|checkbox|radio)`)
	footerNamePattern    = regexp.MustCompile(`(?i)footer`)
	themeNamePattern     = regexp.MustCompile(`(?i)(theme|dark|light)`)
	themeLocatorPattern  = regexp.MustCompile(`theme|dark|light|color-mode`)
)

var contentTags = map[string]bool{
	"main": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var formTags = map[string]bool{
	"input": true, "button": true, "select": true, "textarea": true, "form": true,
}

// classifySection places a candidate in the first qualifying section. The
// ordering doubles as the exclusion rule: anything navigation-like never
// reaches Header, anything search-like never reaches Form.
func classifySection(g GroupedElement) string {
	name := g.SuggestedName
	loc := strings.ToLower(g.SuggestedLocator)

	switch {
	case navNamePattern.MatchString(name) || navLocatorPattern.MatchString(loc) || g.ElementType == "nav":
		return sectionNavigation
	case headerNamePattern.MatchString(name) || headerLocatorPattern.MatchString(loc) || g.ElementType == "header":
		return sectionHeader
	case searchLocatorPattern.MatchString(loc) || searchNamePattern.MatchString(name):
		return sectionSearch
	case sidebarPattern.MatchString(name) || sidebarPattern.MatchString(loc) || g.ElementType == "aside":
		return sectionSidebar
	case contentNamePattern.MatchString(name) || contentLocPattern.MatchString(loc) || contentTags[g.ElementType]:
		return sectionContent
	case formNamePattern.MatchString(name) || formTags[g.ElementType]:
		return sectionForm
	case footerNamePattern.MatchString(name) || g.ElementType == "footer":
		return sectionFooter
	case themeLocatorPattern.MatchString(loc) || themeNamePattern.MatchString(name):
		return sectionTheme
	}
	return sectionUtility
}

// emitContext carries the per-invocation dedup registries through one
// generation pass: normalized locators already emitted, field names in use,
// and helper names in use. Single writer, never shared across runs.
type emitContext struct {
	seenLocators    map[string]bool
	usedFieldNames  map[string]bool
	usedHelperNames map[string]bool
}

func newEmitContext() *emitContext {
	return &emitContext{
		seenLocators:    make(map[string]bool),
		usedFieldNames:  make(map[string]bool),
		usedHelperNames: make(map[string]bool),
	}
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func normalizeLocator(s string) string {
	return whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// fieldName returns base when unused, otherwise base with a numeric suffix
// starting at 2. Suffixing only happens for a different locator; identical
// locators are dropped before this point.
func (ctx *emitContext) fieldName(base string) string {
	if !ctx.usedFieldNames[base] {
		ctx.usedFieldNames[base] = true
		return base
	}
	i := 2
	for ctx.usedFieldNames[fmt.Sprintf("%s%d", base, i)] {
		i++
	}
	name := fmt.Sprintf("%s%d", base, i)
	ctx.usedFieldNames[name] = true
	return name
}

// registerHelper claims a helper name. A name already in use is dropped, not
// renamed, so two structurally different home links still produce exactly one
// gotoHome.
func (ctx *emitContext) registerHelper(base string) bool {
	if ctx.usedHelperNames[base] {
		return false
	}
	ctx.usedHelperNames[base] = true
	return true
}

var getByCallPattern = regexp.MustCompile(`^getBy[A-Z]`)

func escapeLocator(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

// addField emits one field declaration and its constructor wiring. Returns
// the (possibly suffixed) field name, or false when the candidate's locator
// was already emitted under another field.
func (ctx *emitContext) addField(decls, ctor *bytes.Buffer, g GroupedElement, section string) (string, bool) {
	norm := normalizeLocator(g.SuggestedLocator)
	if ctx.seenLocators[norm] {
		return "", false
	}
	ctx.seenLocators[norm] = true

	fieldName := ctx.fieldName(g.SuggestedName)

	fmt.Fprintf(decls, "  // %s\n", section)
	fmt.Fprintf(decls, "  readonly %s: Locator;\n\n", fieldName)

	fmt.Fprintf(ctor, "    // %s\n", section)
	if getByCallPattern.MatchString(g.SuggestedLocator) {
		call := strings.Replace(g.SuggestedLocator, "getBy", "this.page.getBy", 1)
		fmt.Fprintf(ctor, "    this.%s = %s;\n\n", fieldName, call)
	} else {
		fmt.Fprintf(ctor, "    this.%s = this.page.locator('%s');\n\n", fieldName, escapeLocator(g.SuggestedLocator))
	}

	return fieldName, true
}

var navKeywordPattern = regexp.MustCompile(`(home|signin|login|signout|logout|settings|profile)`)
var linkButtonSuffixPattern = regexp.MustCompile(`(?i)(link|button)$`)

// helperBase derives a navigation helper name for a candidate, or "" when the
// candidate does not warrant one. Keyword matches win over the generic
// click<Name> form for anchors.
func helperBase(g GroupedElement) string {
	lower := strings.ToLower(g.SuggestedName)

	eligible := navKeywordPattern.MatchString(lower) ||
		g.ElementType == "a" || g.ElementType == "button" ||
		linkButtonSuffixPattern.MatchString(g.SuggestedName)
	if !eligible {
		return ""
	}

	switch {
	case strings.Contains(lower, "home"):
		return "gotoHome"
	case strings.Contains(lower, "signin") || strings.Contains(lower, "login"):
		return "gotoSignIn"
	case strings.Contains(lower, "logout") || strings.Contains(lower, "signout"):
		return "gotoLogout"
	case strings.Contains(lower, "settings"):
		return "gotoSettings"
	case strings.Contains(lower, "profile"):
		return "gotoProfile"
	case g.ElementType == "a" && g.SuggestedName != "":
		return "click" + strings.ToUpper(g.SuggestedName[:1]) + g.SuggestedName[1:]
	}
	return ""
}

const utilityMethodsBlock = `  // -------- Utilities --------
  async navigate(url: string): Promise<void> {
    await this.page.goto(url);
  }

  async waitForIdle(): Promise<void> {
    await this.page.waitForLoadState('networkidle');
  }

  async getTitle(): Promise<string> {
    return this.page.title();
  }

  async currentUrl(): Promise<string> {
    return this.page.url();
  }
`

// GenerateBasePage emits the base page class source for the groups that
// cleared the recommendation and confidence gates. Output is deterministic
// for a given group sequence: no two fields share a normalized locator or an
// identifier name, and helper names are emitted at most once.
func GenerateBasePage(groups []GroupedElement) string {
	var candidates []GroupedElement
	for _, g := range groups {
		if strings.Contains(g.POMRecommendation, "BasePage") && g.Confidence >= ArtifactConfidenceFloor {
			candidates = append(candidates, g)
		}
	}

	bySection := make(map[string][]GroupedElement)
	for _, g := range candidates {
		section := classifySection(g)
		bySection[section] = append(bySection[section], g)
	}

	ctx := newEmitContext()
	var decls, ctor bytes.Buffer

	type navHelper struct {
		helperName string
		fieldName  string
	}
	var helpers []navHelper

	for _, section := range sectionOrder {
		for _, g := range bySection[section] {
			fieldName, ok := ctx.addField(&decls, &ctor, g, section)
			if !ok {
				continue
			}
			base := helperBase(g)
			if base != "" && ctx.registerHelper(base) {
				helpers = append(helpers, navHelper{helperName: base, fieldName: fieldName})
			}
		}
	}

	var code bytes.Buffer
	code.WriteString("import { Page, Locator } from '@playwright/test';\n\n")
	code.WriteString("export class BasePage {\n")
	code.Write(decls.Bytes())
	code.WriteString("  constructor(private page: Page) {\n")
	code.Write(ctor.Bytes())
	code.WriteString("  }\n\n")
	code.WriteString(utilityMethodsBlock)

	if len(helpers) > 0 {
		code.WriteString("\n  // -------- Navigation Helpers (auto-generated) --------\n")
		for _, h := range helpers {
			fmt.Fprintf(&code, "  async %s() { await this.%s.click(); await this.waitForIdle(); }\n", h.helperName, h.fieldName)
		}
	}

	code.WriteString("}\n")
	return code.String()
}

// WriteBasePage writes the generated source artifact, fully overwriting any
// previous run's output.
func WriteBasePage(content, path string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing base page %s: %w", path, err)
	}
	return nil
}
