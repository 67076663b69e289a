package searchbox

import "sync"

// Group tracks the boxes rendered on one page.
type Group struct {
	mu    sync.Mutex
	boxes []*Box
}

// NewGroup creates a group of boxes.
func NewGroup(boxes ...*Box) *Group {
	return &Group{boxes: boxes}
}

// Add registers another box.
func (g *Group) Add(b *Box) {
	g.mu.Lock()
	g.boxes = append(g.boxes, b)
	g.mu.Unlock()
}

// ClickOutside soft-closes every box. Cached results survive.
func (g *Group) ClickOutside() {
	g.mu.Lock()
	boxes := append([]*Box(nil), g.boxes...)
	g.mu.Unlock()
	for _, b := range boxes {
		b.SoftClose()
	}
}

// Close closes every box.
func (g *Group) Close() {
	g.mu.Lock()
	boxes := g.boxes
	g.boxes = nil
	g.mu.Unlock()
	for _, b := range boxes {
		b.Close()
	}
}
