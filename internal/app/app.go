// Package app wires the router, the lazy loader and the site catalog into
// the directory page. The App owns every instance it creates.
package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vcrobe/navdeck/catalog"
	"github.com/vcrobe/navdeck/config"
	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/lazyload"
	"github.com/vcrobe/navdeck/router"
)

// Page element hooks.
const (
	SearchInputID  = "search-input"
	LoadingClass   = "is-loading"
	CategoryClass  = "category"
	CardSelector   = ".site-card"
	TabsSelector   = ".category__tabs"
	TabSelector    = ".category__tab"
	ActiveTabClass = "active"
	ThemeToggleID  = "theme-toggle"
	ThemeAttr      = "data-theme"
	BackToTopID    = "back-to-top"
	VisibleClass   = "visible"

	// minQueryRunes is the shortest query that filters cards.
	minQueryRunes = 2
	// backToTopOffset is the scroll offset past which the back-to-top
	// button shows.
	backToTopOffset = 300
)

// Themes set on the root element.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Scroller is the window's scroll position.
type Scroller interface {
	ScrollY() float64
	ScrollTo(y float64)
	OnScroll(fn func()) (release func())
}

// Host is the platform the App runs on.
type Host interface {
	router.Host
	lazyload.Host
	Scroller
}

// App is the directory page.
type App struct {
	cfg    config.Config
	host   Host
	texts  *Texts
	router *router.Router
	loader *lazyload.Loader

	releases []func()
}

// New builds the router and loader from cfg.
func New(cfg config.Config, host Host) (*App, error) {
	rc, err := cfg.RouterConfig()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.LazyOptions()
	if err != nil {
		return nil, err
	}
	lang, err := cfg.Language()
	if err != nil {
		return nil, err
	}
	texts, err := NewTexts(lang)
	if err != nil {
		return nil, err
	}
	r, err := router.New(rc, host)
	if err != nil {
		return nil, err
	}
	l, err := lazyload.New(opts, host)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, host: host, texts: texts, router: r, loader: l}, nil
}

// Router returns the App's router.
func (a *App) Router() *router.Router { return a.router }

// Loader returns the App's lazy loader.
func (a *App) Loader() *lazyload.Loader { return a.loader }

func (a *App) doc() dom.Document { return a.host.Document() }

// Start initialises the page. A catalog that fails to load is logged and
// leaves the lists empty.
func (a *App) Start(ctx context.Context, src catalog.Source) {
	console.Log("[App.Start] initialising")

	a.loader.Init()
	console.Debug("[App.Start] router mode", string(a.router.Config().Mode), "loaded class", a.loader.Options().LoadedClass)
	a.registerRoutes()
	a.releases = append(a.releases, a.router.Subscribe(func(c router.RouteChange) {
		console.Debug("[App] route changed:", c.Previous, "->", c.Current)
		a.loader.Refresh()
	}))
	a.router.Init()

	sites, err := src.Sites(ctx)
	if err != nil {
		console.Error("[App.Start] loading sites failed:", err.Error())
	} else {
		a.RenderCatalog(sites)
		console.Log("[App.Start] loaded", len(sites), "sites")
	}

	a.initSearch()
	a.initTabs()
	a.initThemeToggle()
	a.initBackToTop()

	if body := a.doc().Body(); body != nil {
		body.RemoveClass(LoadingClass)
	}
}

func (a *App) registerRoutes() {
	a.router.Add("/", a.ShowAll)
	for _, c := range a.cfg.Catalog.Categories {
		category := c
		a.router.Add("/"+category, func() { a.ShowCategory(category) })
	}
	a.router.Add("(.*)", func() {
		console.Log("[App] unknown page, redirecting home")
		a.router.Replace("/")
	})
}

// ShowAll shows every category.
func (a *App) ShowAll() {
	for _, el := range a.doc().QueryAll("." + CategoryClass) {
		el.SetStyle("display", "block")
	}
	a.doc().SetTitle(a.texts.HomeTitle())
	a.loader.Refresh()
}

// ShowCategory shows only the category section with the given id.
func (a *App) ShowCategory(category string) {
	for _, el := range a.doc().QueryAll("." + CategoryClass) {
		el.SetStyle("display", "none")
	}
	if el, ok := a.doc().ByID(category); ok {
		el.SetStyle("display", "block")
	} else {
		console.Warn("[App.ShowCategory] no section for", category)
	}
	a.doc().SetTitle(a.texts.CategoryTitle(category))
	a.loader.Refresh()
}

// RenderCatalog fills each "<category>-list" container with cards.
func (a *App) RenderCatalog(sites []catalog.Site) {
	labels := a.texts.Labels()
	for _, sec := range catalog.Group(sites, a.cfg.Catalog.Categories) {
		container, ok := a.doc().ByID(sec.Category + "-list")
		if !ok {
			continue
		}
		container.ReplaceChildren(catalog.Cards(sec, labels)...)
	}
	a.loader.Refresh()
}

func (a *App) initSearch() {
	input, ok := a.doc().ByID(SearchInputID)
	if !ok {
		return
	}
	a.releases = append(a.releases, input.Listen("input", func(ev *dom.Event) {
		a.Search(ev.Value)
	}))
}

// Search hides the cards whose name and description do not contain query.
// Queries shorter than two characters show every card.
func (a *App) Search(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	cards := a.doc().QueryAll(CardSelector)
	if utf8.RuneCountInString(query) < minQueryRunes {
		for _, card := range cards {
			card.SetStyle("display", "flex")
		}
		a.loader.Refresh()
		return
	}
	for _, card := range cards {
		display := "none"
		if strings.Contains(strings.ToLower(firstText(card, ".site-name")), query) ||
			strings.Contains(strings.ToLower(firstText(card, ".site-desc")), query) {
			display = "flex"
		}
		card.SetStyle("display", display)
	}
	a.loader.Refresh()
}

func firstText(el dom.Element, selector string) string {
	found := el.QueryAll(selector)
	if len(found) == 0 {
		return ""
	}
	return found[0].Text()
}

func (a *App) initTabs() {
	for _, container := range a.doc().QueryAll(TabsSelector) {
		tabs := container.QueryAll(TabSelector)
		section, _ := container.Closest("." + CategoryClass)
		for _, tab := range tabs {
			tab := tab
			a.releases = append(a.releases, tab.Listen("click", func(ev *dom.Event) {
				ev.PreventDefault()
				a.SelectTab(section, tabs, tab)
			}))
		}
	}
}

// SelectTab activates tab and filters the cards of section by its data-tab.
func (a *App) SelectTab(section dom.Element, tabs []dom.Element, tab dom.Element) {
	for _, t := range tabs {
		t.RemoveClass(ActiveTabClass)
	}
	tab.AddClass(ActiveTabClass)

	id, _ := tab.Attr("data-tab")
	if section != nil {
		for _, card := range section.QueryAll(CardSelector) {
			card.SetStyle("display", cardDisplay(card, id))
		}
	}
	a.loader.Refresh()
}

func cardDisplay(card dom.Element, tab string) string {
	if tab == "all" {
		return "flex"
	}
	cats, _ := card.Attr("data-categories")
	for _, c := range strings.Split(cats, ",") {
		if c == tab {
			return "flex"
		}
	}
	return "none"
}

func (a *App) initThemeToggle() {
	toggle, ok := a.doc().ByID(ThemeToggleID)
	if !ok {
		return
	}
	a.releases = append(a.releases, toggle.Listen("change", func(ev *dom.Event) {
		if ev.Checked {
			a.SetTheme(ThemeDark)
		} else {
			a.SetTheme(ThemeLight)
		}
	}))
}

// SetTheme sets the data-theme attribute on the root element.
func (a *App) SetTheme(theme string) {
	roots := a.doc().QueryAll("html")
	if len(roots) == 0 {
		return
	}
	roots[0].SetAttr(ThemeAttr, theme)
}

func (a *App) initBackToTop() {
	button, ok := a.doc().ByID(BackToTopID)
	if !ok {
		return
	}
	update := func() {
		if a.host.ScrollY() > backToTopOffset {
			button.AddClass(VisibleClass)
		} else {
			button.RemoveClass(VisibleClass)
		}
	}
	update()
	a.releases = append(a.releases,
		a.host.OnScroll(update),
		button.Listen("click", func(ev *dom.Event) {
			ev.PreventDefault()
			a.host.ScrollTo(0)
		}),
	)
}

// Close detaches every listener and stops the loader.
func (a *App) Close() {
	for _, release := range a.releases {
		release()
	}
	a.releases = nil
	a.router.Close()
	a.loader.Destroy()
}
