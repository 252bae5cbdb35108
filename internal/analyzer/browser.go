package analyzer

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ElementProbe is the closed set of in-page operations the extractor performs
// against a single element handle. Keeping the surface fixed means only this
// file knows how to talk to the automation driver.
type ElementProbe interface {
	Interactable() (bool, error)
	Characteristics() (ElementCharacteristics, error)
	CSSSelector() (string, error)
	XPath() (string, error)
	// Dispose releases the underlying handle. Best effort; failures are
	// swallowed.
	Dispose()
}

// PageDriver hands element probes to the extractor for a loaded page
type PageDriver interface {
	QueryAll(selector string) ([]ElementProbe, error)
}

// Browser wraps the Playwright browser lifecycle
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewBrowser launches a Chromium instance
func NewBrowser(headless bool) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &Browser{pw: pw, browser: browser}, nil
}

// Close releases all browser resources
func (b *Browser) Close() error {
	if b.browser != nil {
		b.browser.Close()
	}
	if b.pw != nil {
		return b.pw.Stop()
	}
	return nil
}

// OpenPage opens a new page and navigates to url, waiting for network idle.
// The page is closed before returning a navigation error.
func (b *Browser) OpenPage(url string, timeout time.Duration) (playwright.Page, error) {
	page, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}

	return page, nil
}

// Driver returns a PageDriver for an open page
func (b *Browser) Driver(page playwright.Page) PageDriver {
	return &playwrightDriver{page: page}
}

type playwrightDriver struct {
	page playwright.Page
}

func (d *playwrightDriver) QueryAll(selector string) ([]ElementProbe, error) {
	handles, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", selector, err)
	}

	probes := make([]ElementProbe, 0, len(handles))
	for _, h := range handles {
		probes = append(probes, &playwrightProbe{handle: h})
	}
	return probes, nil
}

type playwrightProbe struct {
	handle playwright.ElementHandle
}

const interactableJS = `node => {
	const style = getComputedStyle(node);
	if (style.display === 'none' || style.visibility === 'hidden' || +style.opacity === 0) return false;

	const rect = node.getBoundingClientRect();
	if (!rect || rect.width === 0 || rect.height === 0) return false;

	const tag = node.tagName.toLowerCase();
	if (['input', 'button', 'select', 'textarea', 'a', 'form'].includes(tag)) return true;

	if (node.hasAttribute('onclick')) return true;

	const role = node.getAttribute('role') || '';
	if (['button', 'link', 'tab', 'menuitem', 'search', 'navigation'].includes(role)) return true;

	if (node.hasAttribute('tabindex')) return true;

	return ['h1', 'h2', 'h3', 'h4', 'h5', 'h6', 'main', 'nav', 'header', 'footer', 'article', 'section'].includes(tag);
}`

const characteristicsJS = `node => {
	const attrs = {};
	for (const a of Array.from(node.attributes || [])) attrs[String(a.name)] = String(a.value);

	return {
		tagName: String(node.tagName).toLowerCase(),
		classes: Array.from(node.classList || []),
		attributes: attrs,
		textContent: String(node.textContent || '').replace(/\s+/g, ' ').trim().slice(0, 100),
		role: node.getAttribute('role') || '',
		placeholder: node.getAttribute('placeholder') || '',
		type: node.getAttribute('type') || '',
		href: node.getAttribute('href') || '',
		src: node.getAttribute('src') || ''
	};
}`

const cssSelectorJS = `node => {
	const tag = String(node.tagName).toLowerCase();
	if (node.id) return '#' + node.id;
	const cls = Array.from(node.classList || []);
	if (cls.length) return tag + '.' + cls.slice(0, 3).join('.');
	return tag;
}`

const xpathJS = `node => {
	const getXPath = (n) => {
		if (n.id) return '//*[@id="' + n.id + '"]';
		if (n === document.body) return '/html/body';
		const parent = n.parentElement;
		if (!parent) return '/';
		const sameTag = Array.from(parent.children).filter(s => s.tagName === n.tagName);
		const index = sameTag.indexOf(n) + 1;
		return getXPath(parent) + '/' + String(n.tagName).toLowerCase() + '[' + (index || 1) + ']';
	};
	return getXPath(node);
}`

func (p *playwrightProbe) Interactable() (bool, error) {
	result, err := p.handle.Evaluate(interactableJS)
	if err != nil {
		return false, fmt.Errorf("evaluating interactability: %w", err)
	}
	ok, _ := result.(bool)
	return ok, nil
}

func (p *playwrightProbe) Characteristics() (ElementCharacteristics, error) {
	result, err := p.handle.Evaluate(characteristicsJS)
	if err != nil {
		return ElementCharacteristics{}, fmt.Errorf("evaluating characteristics: %w", err)
	}

	raw, ok := result.(map[string]interface{})
	if !ok {
		return ElementCharacteristics{}, fmt.Errorf("unexpected characteristics shape %T", result)
	}

	return ElementCharacteristics{
		TagName:     asString(raw["tagName"]),
		Classes:     asStringSlice(raw["classes"]),
		Attributes:  asStringMap(raw["attributes"]),
		TextContent: asString(raw["textContent"]),
		Role:        asString(raw["role"]),
		Placeholder: asString(raw["placeholder"]),
		Type:        asString(raw["type"]),
		Href:        asString(raw["href"]),
		Src:         asString(raw["src"]),
	}, nil
}

func (p *playwrightProbe) CSSSelector() (string, error) {
	result, err := p.handle.Evaluate(cssSelectorJS)
	if err != nil {
		return "", fmt.Errorf("evaluating css selector: %w", err)
	}
	return asString(result), nil
}

func (p *playwrightProbe) XPath() (string, error) {
	result, err := p.handle.Evaluate(xpathJS)
	if err != nil {
		return "", fmt.Errorf("evaluating xpath: %w", err)
	}
	return asString(result), nil
}

func (p *playwrightProbe) Dispose() {
	_ = p.handle.Dispose()
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, asString(item))
	}
	return out
}

func asStringMap(v interface{}) map[string]string {
	items, ok := v.(map[string]interface{})
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(items))
	for k, item := range items {
		out[k] = asString(item)
	}
	return out
}
