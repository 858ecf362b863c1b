// Package reveal implements the scroll reveal used by every page section: a
// block starts hidden and becomes visible once, after an optional delay, the
// first time it intersects the viewport. The browser side (static/reveal.js)
// follows the same rules; this package is the reference model and renders
// the markup the script consumes.
package reveal

import (
	"errors"
	"fmt"
	"html/template"
	"sync"
	"sync/atomic"
	"time"
)

const (
	Duration = 600 * time.Millisecond
	Easing   = "ease-out"
	OffsetPx = 30
)

// ErrUnsupported is returned by an Observer that cannot detect intersection.
var ErrUnsupported = errors.New("viewport intersection unsupported")

// Observer calls enter at most once, when region first intersects the
// viewport.
type Observer interface {
	Observe(region Region, enter func()) error
}

// Block is one revealable content block.
type Block struct {
	ID    string
	Delay time.Duration

	visible atomic.Bool
	once    sync.Once
}

// Visible reports whether the block has been revealed. It never goes back
// to false.
func (b *Block) Visible() bool {
	return b.visible.Load()
}

// Controller mounts blocks against an Observer. A nil Observer means
// intersection is unavailable and every block is shown at once.
type Controller struct {
	observer Observer
	// afterFunc schedules delayed reveals; tests replace it.
	afterFunc func(time.Duration, func())
}

func NewController(observer Observer) *Controller {
	return &Controller{
		observer: observer,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Mount registers a block occupying region. Negative delays count as zero.
func (c *Controller) Mount(id string, region Region, delay time.Duration) *Block {
	if delay < 0 {
		delay = 0
	}
	b := &Block{ID: id, Delay: delay}

	if c.observer == nil {
		b.visible.Store(true)
		return b
	}
	if err := c.observer.Observe(region, func() { c.trigger(b) }); err != nil {
		b.visible.Store(true)
	}
	return b
}

func (c *Controller) trigger(b *Block) {
	b.once.Do(func() {
		if b.Delay == 0 {
			b.visible.Store(true)
			return
		}
		c.afterFunc(b.Delay, func() { b.visible.Store(true) })
	})
}

// Stagger returns base + step*index, the delay pattern used for lists of
// cards.
func Stagger(base, step time.Duration, index int) time.Duration {
	return base + step*time.Duration(index)
}

// Attrs renders the markup attributes for a block revealed after delayMs.
func Attrs(delayMs int) template.HTMLAttr {
	if delayMs < 0 {
		delayMs = 0
	}
	return template.HTMLAttr(fmt.Sprintf(`data-reveal data-reveal-delay="%d"`, delayMs)) //nolint: gosec
}
