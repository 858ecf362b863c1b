package reveal

import "sync"

// Region is an axis-aligned rectangle in page coordinates.
type Region struct {
	Left, Top, Right, Bottom float64
}

// Intersects reports a non-zero overlap between r and o. Touching edges do
// not count.
func (r Region) Intersects(o Region) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

type watch struct {
	region Region
	enter  func()
}

// ScrollObserver is an Observer driven by explicit viewport updates. Each
// observed region fires once, on the first Scroll whose viewport intersects
// it, and is then forgotten.
type ScrollObserver struct {
	mu       sync.Mutex
	viewport Region
	pending  []watch
}

// NewScrollObserver starts with the given viewport.
func NewScrollObserver(viewport Region) *ScrollObserver {
	return &ScrollObserver{viewport: viewport}
}

// Observe fires enter immediately when region is already in view.
func (o *ScrollObserver) Observe(region Region, enter func()) error {
	o.mu.Lock()
	inView := region.Intersects(o.viewport)
	if !inView {
		o.pending = append(o.pending, watch{region: region, enter: enter})
	}
	o.mu.Unlock()

	if inView {
		enter()
	}
	return nil
}

// Scroll moves the viewport and fires every pending region it now
// intersects.
func (o *ScrollObserver) Scroll(viewport Region) {
	o.mu.Lock()
	o.viewport = viewport
	var fire []func()
	kept := o.pending[:0]
	for _, w := range o.pending {
		if w.region.Intersects(viewport) {
			fire = append(fire, w.enter)
			continue
		}
		kept = append(kept, w)
	}
	o.pending = kept
	o.mu.Unlock()

	for _, f := range fire {
		f()
	}
}

// Pending is the number of regions still waiting to enter the viewport.
func (o *ScrollObserver) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}
