package lazyload

import "github.com/vcrobe/navdeck/dom"

// Deferred-source attributes carried by lazy candidates.
const (
	AttrSrc    = "data-src"
	AttrSrcset = "data-srcset"
)

// TargetKind selects how a candidate is promoted.
type TargetKind int

const (
	// ImageTarget is an <img>: the deferred sources move into src/srcset
	// and the element is marked loaded when the image's load event fires.
	ImageTarget TargetKind = iota
	// BackgroundTarget is any other element: the source becomes its
	// background-image. There is no load event to wait for.
	BackgroundTarget
)

func (k TargetKind) String() string {
	switch k {
	case ImageTarget:
		return "image"
	case BackgroundTarget:
		return "background"
	default:
		return "unknown"
	}
}

// Classify picks the TargetKind for el.
func Classify(el dom.Element) TargetKind {
	if el.TagName() == "img" {
		return ImageTarget
	}
	return BackgroundTarget
}

// candidate is a matched element with its kind fixed at scan time.
type candidate struct {
	el   dom.Element
	kind TargetKind
}

func deferredSources(el dom.Element) (src, srcset string) {
	src, _ = el.Attr(AttrSrc)
	srcset, _ = el.Attr(AttrSrcset)
	return src, srcset
}
