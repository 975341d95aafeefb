package dom

// ObserverInit configures an IntersectionObserver.
type ObserverInit struct {
	// RootMargin grows or shrinks the viewport, CSS margin shorthand.
	RootMargin string
	// Threshold is the visible ratio that counts as intersecting.
	Threshold float64
}

// IntersectionEntry reports a change in one target's visibility.
type IntersectionEntry struct {
	Target         Element
	IsIntersecting bool
	Ratio          float64
}

// IntersectionObserver watches elements and reports entries in batches.
type IntersectionObserver interface {
	Observe(el Element)
	Unobserve(el Element)
	Disconnect()
}

// ObserverFactory is implemented by hosts able to report viewport
// intersection. ok is false when the capability is missing.
type ObserverFactory interface {
	NewIntersectionObserver(callback func([]IntersectionEntry), init ObserverInit) (observer IntersectionObserver, ok bool)
}
