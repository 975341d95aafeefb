//go:build !wasm
// +build !wasm

package lazyload_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/headless"
	"github.com/vcrobe/navdeck/lazyload"
	"github.com/vcrobe/navdeck/vdom"
)

// imagePage stacks n lazy images, 100px each, from the top of the page.
func imagePage(n int) string {
	var sb strings.Builder
	sb.WriteString(`<html><head></head><body><div id="grid">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<img id="img%d" class="lazy" data-src="/icons/%d.png" alt="">`, i, i)
	}
	sb.WriteString(`</div></body></html>`)
	return sb.String()
}

func newWindow(t *testing.T, markup string, opts headless.Options) *headless.Window {
	t.Helper()
	win, err := headless.New(markup, opts)
	require.NoError(t, err)
	return win
}

func newLoader(t *testing.T, win *headless.Window, opts lazyload.Options) *lazyload.Loader {
	t.Helper()
	l, err := lazyload.New(opts, win)
	require.NoError(t, err)
	t.Cleanup(l.Destroy)
	return l
}

func el(t *testing.T, win *headless.Window, id string) *headless.Element {
	t.Helper()
	e, ok := win.Doc().Query("#" + id)
	require.True(t, ok, "element #%s", id)
	return e
}

func loadedIDs(win *headless.Window, class string) []string {
	var ids []string
	for _, e := range win.Document().QueryAll("." + class) {
		id, _ := e.Attr("id")
		ids = append(ids, id)
	}
	return ids
}

func countLoads(l *lazyload.Loader) map[string]int {
	counts := make(map[string]int)
	l.Subscribe(func(ev lazyload.Loaded) {
		id, _ := ev.Element.Attr("id")
		counts[id]++
	})
	return counts
}

func TestLoader_LoadsImagesNearTheViewport(t *testing.T) {
	// Arrange: 800px viewport plus the default 200px bottom margin covers
	// the first ten rows.
	win := newWindow(t, imagePage(20), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())

	// Act
	l.Init()
	win.Tick()

	// Assert: sources are live, but nothing is marked before the load event.
	src, ok := el(t, win, "img9").Attr("src")
	assert.True(t, ok)
	assert.Equal(t, "/icons/9.png", src)
	_, ok = el(t, win, "img10").Attr("src")
	assert.False(t, ok, "a row touching the margin edge with zero ratio is not loaded")
	assert.Empty(t, loadedIDs(win, "lazy-loaded"))

	assert.Equal(t, 10, win.CompleteLoads())

	assert.Len(t, loadedIDs(win, "lazy-loaded"), 10)
	img0 := el(t, win, "img0")
	_, hasData := img0.Attr("data-src")
	assert.False(t, hasData)
	assert.Equal(t, 10, l.Pending())
}

func TestLoader_ScrollingLoadsTheRest(t *testing.T) {
	win := newWindow(t, imagePage(20), headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())
	counts := countLoads(l)
	l.Init()
	win.Tick()

	win.ScrollTo(1000)
	win.Tick()

	assert.Len(t, loadedIDs(win, "lazy-loaded"), 20)
	assert.Len(t, counts, 20)
	for id, n := range counts {
		assert.Equal(t, 1, n, id)
	}
	assert.Zero(t, l.Pending())
}

// TestLoader_FallbackLoadsEverythingDuringInit covers hosts without
// intersection observation: every candidate is loaded before Init returns.
func TestLoader_FallbackLoadsEverythingDuringInit(t *testing.T) {
	markup := `<html><body>
<img id="a" class="lazy" data-src="/a.png">
<img id="b" class="lazy" data-src="/b.png" style="display:none">
</body></html>`
	win := newWindow(t, markup, headless.Options{NoIntersectionObserver: true})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Init()

	for _, id := range []string{"a", "b"} {
		e := el(t, win, id)
		assert.True(t, e.HasClass("lazy-loaded"), id)
		src, _ := e.Attr("src")
		assert.Equal(t, "/"+id+".png", src)
	}
	assert.True(t, l.Initialized())
}

func TestLoader_FallbackRefreshLoadsNewContent(t *testing.T) {
	markup := `<html><body><div id="grid"></div></body></html>`
	win := newWindow(t, markup, headless.Options{NoIntersectionObserver: true})
	l := newLoader(t, win, lazyload.DefaultOptions())
	l.Init()

	grid, _ := win.Document().ByID("grid")
	grid.ReplaceChildren(
		vdom.NewVNode("img", map[string]any{"id": "n", "class": "lazy", "data-src": "/n.png"}, nil, ""),
	)
	l.Refresh()

	assert.True(t, el(t, win, "n").HasClass("lazy-loaded"))
}

// TestLoader_RefreshAfterLoadIsIdempotent promotes one element and
// refreshes twice more: its load logic runs exactly once.
func TestLoader_RefreshAfterLoadIsIdempotent(t *testing.T) {
	markup := `<html><body><img id="c" class="lazy" data-src="/c.png"></body></html>`
	win := newWindow(t, markup, headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())
	counts := countLoads(l)
	l.Init()
	win.Tick()
	win.Tick()
	require.True(t, el(t, win, "c").HasClass("lazy-loaded"))

	l.Refresh()
	l.Refresh()
	win.Tick()

	assert.Equal(t, map[string]int{"c": 1}, counts)
	assert.Zero(t, l.Pending())
}

func TestLoader_RefreshNeverWatchesTwice(t *testing.T) {
	win := newWindow(t, imagePage(3), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())
	counts := countLoads(l)
	l.Init()

	l.Refresh()
	l.Refresh()
	assert.Equal(t, 3, l.Pending())

	win.Tick()
	win.CompleteLoads()
	assert.Equal(t, map[string]int{"img0": 1, "img1": 1, "img2": 1}, counts)
}

func TestLoader_RefreshBeforeInitDoesNothing(t *testing.T) {
	win := newWindow(t, imagePage(3), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Refresh()
	win.Tick()

	assert.Zero(t, l.Pending())
	_, ok := el(t, win, "img0").Attr("src")
	assert.False(t, ok)
}

func TestLoader_RefreshPicksUpNewContent(t *testing.T) {
	markup := `<html><body><div id="grid"></div></body></html>`
	win := newWindow(t, markup, headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())
	l.Init()
	win.Tick()

	grid, ok := win.Document().ByID("grid")
	require.True(t, ok)
	grid.ReplaceChildren(
		vdom.NewVNode("img", map[string]any{"id": "late", "class": "site-icon lazy", "data-src": "/late.svg"}, nil, ""),
	)
	l.Refresh()
	win.Tick()
	win.Tick()

	assert.True(t, el(t, win, "late").HasClass("lazy-loaded"))
}

func TestLoader_ThresholdGatesPartialVisibility(t *testing.T) {
	opts := lazyload.DefaultOptions()
	opts.RootMargin = "0px"
	opts.Threshold = 0.6
	win := newWindow(t, imagePage(5), headless.Options{ViewportHeight: 250})
	l := newLoader(t, win, opts)
	l.Init()
	win.Tick()

	// img2 spans 200..300 and shows 50%
	_, ok := el(t, win, "img2").Attr("src")
	assert.False(t, ok)
	_, ok = el(t, win, "img1").Attr("src")
	assert.True(t, ok)

	win.ScrollTo(20)

	_, ok = el(t, win, "img2").Attr("src")
	assert.True(t, ok, "70% visible passes the threshold")
}

func TestLoader_RootMarginExtendsTheViewport(t *testing.T) {
	opts := lazyload.DefaultOptions()
	opts.RootMargin = "0px 0px 50% 0px"
	win := newWindow(t, imagePage(10), headless.Options{ViewportHeight: 400})
	l := newLoader(t, win, opts)

	l.Init()
	win.Tick()

	_, ok := el(t, win, "img5").Attr("src")
	assert.True(t, ok, "400px viewport plus 200px margin reaches row 5")
	_, ok = el(t, win, "img6").Attr("src")
	assert.False(t, ok)
}

func TestLoader_BackgroundTarget(t *testing.T) {
	markup := `<html><body><div id="icon" class="site-icon lazy" data-src="/icons/a b.svg"></div></body></html>`
	win := newWindow(t, markup, headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())
	var kinds []lazyload.TargetKind
	l.Subscribe(func(ev lazyload.Loaded) { kinds = append(kinds, ev.Kind) })

	l.Init()
	win.Tick()

	icon := el(t, win, "icon")
	assert.Equal(t, `url("/icons/a b.svg")`, icon.Style("background-image"))
	assert.True(t, icon.HasClass("lazy-loaded"), "no load event to wait for")
	_, ok := icon.Attr("src")
	assert.False(t, ok)
	assert.Equal(t, []lazyload.TargetKind{lazyload.BackgroundTarget}, kinds)
}

func TestLoader_BackgroundTargetUsesFirstSrcsetCandidate(t *testing.T) {
	markup := `<html><body><div id="icon" class="site-icon lazy" data-srcset="/a.png 1x, /b.png 2x"></div></body></html>`
	win := newWindow(t, markup, headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Init()
	win.Tick()

	icon := el(t, win, "icon")
	assert.Equal(t, `url("/a.png")`, icon.Style("background-image"))
	_, ok := icon.Attr("data-srcset")
	assert.False(t, ok)
}

func TestLoader_BackgroundTargetKeepsDataURI(t *testing.T) {
	markup := `<html><body><div id="icon" class="site-icon lazy" data-src="data:image/png;base64,AAAA"></div></body></html>`
	win := newWindow(t, markup, headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Init()
	win.Tick()

	icon := el(t, win, "icon")
	assert.Equal(t, `url("data:image/png;base64,AAAA")`, icon.Style("background-image"))
	assert.True(t, icon.HasClass("lazy-loaded"))
}

func TestLoader_SrcsetOnlyImage(t *testing.T) {
	markup := `<html><body><img id="i" class="lazy" data-srcset="/a.png 1x, /b.png 2x"></body></html>`
	win := newWindow(t, markup, headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Init()
	win.Tick()
	win.Tick()

	img := el(t, win, "i")
	srcset, _ := img.Attr("srcset")
	assert.Equal(t, "/a.png 1x, /b.png 2x", srcset)
	_, ok := img.Attr("src")
	assert.False(t, ok)
	assert.True(t, img.HasClass("lazy-loaded"))
}

func TestLoader_CandidateWithoutSourceIsLeftAlone(t *testing.T) {
	markup := `<html><body><img id="bare" class="lazy"></body></html>`
	win := newWindow(t, markup, headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())
	counts := countLoads(l)

	l.Init()
	win.Tick()
	win.Tick()

	bare := el(t, win, "bare")
	assert.False(t, bare.HasClass("lazy-loaded"))
	_, ok := bare.Attr("src")
	assert.False(t, ok)
	assert.Empty(t, counts)
	assert.Zero(t, l.Pending())
}

func TestLoader_ImageWaitsForLoadEvent(t *testing.T) {
	win := newWindow(t, imagePage(1), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())
	l.Init()
	win.Tick()

	img := el(t, win, "img0")
	require.True(t, img.PendingLoad())
	assert.False(t, img.HasClass("lazy-loaded"))
	assert.Equal(t, 1, l.Pending(), "still loading")

	// a second refresh while loading must not restart the element
	l.Refresh()
	win.Tick()
	assert.Equal(t, 1, l.Pending())

	img.CompleteLoad()
	assert.True(t, img.HasClass("lazy-loaded"))
	assert.Zero(t, l.Pending())
}

func TestLoader_LoadImageDirectly(t *testing.T) {
	win := newWindow(t, imagePage(1), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())
	counts := countLoads(l)

	img := el(t, win, "img0")
	l.LoadImage(img)
	img.CompleteLoad()
	l.LoadImage(img)

	assert.True(t, img.HasClass("lazy-loaded"))
	assert.Equal(t, map[string]int{"img0": 1}, counts)
}

func TestLoader_LoadImageOnWatchedElementPromotesOnce(t *testing.T) {
	win := newWindow(t, imagePage(3), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())
	counts := countLoads(l)
	l.Init()

	img := el(t, win, "img0")
	l.LoadImage(img)
	l.LoadImage(img)
	win.Tick()
	win.CompleteLoads()

	assert.Equal(t, 1, counts["img0"])
	assert.True(t, img.HasClass("lazy-loaded"))
	assert.Zero(t, l.Pending())
}

func TestLoader_AlreadyLoadedElementsAreNotCandidates(t *testing.T) {
	markup := `<html><body><img id="done" class="lazy lazy-loaded" src="/x.png" data-src="/y.png"></body></html>`
	win := newWindow(t, markup, headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Init()
	win.Tick()

	assert.Zero(t, l.Pending())
	src, _ := el(t, win, "done").Attr("src")
	assert.Equal(t, "/x.png", src)
}

func TestLoader_HiddenElementsWaitUntilShown(t *testing.T) {
	markup := `<html><body><div id="tab" hidden><img id="h" class="lazy" data-src="/h.png"></div></body></html>`
	win := newWindow(t, markup, headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())
	l.Init()
	win.Tick()

	h := el(t, win, "h")
	_, ok := h.Attr("src")
	assert.False(t, ok)

	el(t, win, "tab").RemoveAttr("hidden")
	win.Tick()

	_, ok = h.Attr("src")
	assert.True(t, ok)
}

func TestLoader_ResizeRescans(t *testing.T) {
	markup := `<html><body><div id="grid"></div></body></html>`
	win := newWindow(t, markup, headless.Options{AutoCompleteLoads: true})
	l := newLoader(t, win, lazyload.DefaultOptions())
	l.Init()
	_, _, resize, _ := win.Listeners()
	require.Equal(t, 1, resize)

	grid, _ := win.Document().ByID("grid")
	grid.ReplaceChildren(
		vdom.NewVNode("img", map[string]any{"id": "r", "class": "lazy", "data-src": "/r.png"}, nil, ""),
	)
	win.Resize(900)
	win.Tick()

	assert.True(t, el(t, win, "r").HasClass("lazy-loaded"))
}

func TestLoader_UppercaseRootMarginUnits(t *testing.T) {
	win := newWindow(t, imagePage(20), headless.Options{ViewportHeight: 300, AutoCompleteLoads: true})
	opts := lazyload.DefaultOptions()
	opts.RootMargin = "0PX 0PX 200PX 0PX"
	require.NoError(t, opts.Validate())
	l := newLoader(t, win, opts)

	require.NotPanics(t, l.Init)
	win.Tick()
	win.Tick()

	img4 := el(t, win, "img4")
	assert.True(t, img4.HasClass("lazy-loaded"))
	assert.False(t, el(t, win, "img6").HasClass("lazy-loaded"))
}

func TestLoader_Destroy(t *testing.T) {
	win := newWindow(t, imagePage(20), headless.Options{AutoCompleteLoads: true})
	l, err := lazyload.New(lazyload.DefaultOptions(), win)
	require.NoError(t, err)
	l.Init()
	win.Tick()

	l.Destroy()
	win.ScrollTo(1000)
	win.Tick()

	_, ok := el(t, win, "img15").Attr("src")
	assert.False(t, ok)
	assert.False(t, l.Initialized())
	_, _, resize, _ := win.Listeners()
	assert.Zero(t, resize)

	l.Init()
	assert.False(t, l.Initialized(), "a destroyed loader stays inert")
	l.Destroy()
}

func TestLoader_InitTwice(t *testing.T) {
	win := newWindow(t, imagePage(3), headless.Options{})
	l := newLoader(t, win, lazyload.DefaultOptions())

	l.Init()
	l.Init()

	assert.True(t, l.Initialized())
	assert.Equal(t, 3, l.Pending())
	_, _, resize, _ := win.Listeners()
	assert.Equal(t, 1, resize)
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	win := newWindow(t, imagePage(1), headless.Options{})
	mutate := map[string]func(*lazyload.Options){
		"empty selector":     func(o *lazyload.Options) { o.Selector = " " },
		"bad selector":       func(o *lazyload.Options) { o.Selector = "img[" },
		"bad margin unit":    func(o *lazyload.Options) { o.RootMargin = "10em" },
		"threshold too high": func(o *lazyload.Options) { o.Threshold = 1.5 },
		"negative threshold": func(o *lazyload.Options) { o.Threshold = -0.1 },
		"two classes":        func(o *lazyload.Options) { o.LoadedClass = "a b" },
		"no class":           func(o *lazyload.Options) { o.LoadedClass = "" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			opts := lazyload.DefaultOptions()
			fn(&opts)
			_, err := lazyload.New(opts, win)
			assert.ErrorIs(t, err, lazyload.ErrInvalidOptions)
		})
	}
}

func TestClassify(t *testing.T) {
	win := newWindow(t, `<html><body><img id="i"><div id="d"></div></body></html>`, headless.Options{})
	assert.Equal(t, lazyload.ImageTarget, lazyload.Classify(el(t, win, "i")))
	assert.Equal(t, lazyload.BackgroundTarget, lazyload.Classify(el(t, win, "d")))
	assert.Equal(t, "background", lazyload.BackgroundTarget.String())
}

var _ lazyload.Host = (*headless.Window)(nil)
var _ dom.ObserverFactory = (*headless.Window)(nil)
