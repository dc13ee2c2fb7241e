package scene

import "sync"

// Holder is the handle through which the renderer publishes its scene to
// the export pipeline. The renderer calls Set and Clear; exports only call
// Get. The last Set wins.
type Holder struct {
	mu   sync.RWMutex
	root *Node
}

// NewHolder returns a holder, optionally primed with root.
func NewHolder(root *Node) *Holder {
	return &Holder{root: root}
}

// Set publishes root.
func (h *Holder) Set(root *Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.root = root
}

// Get returns the current scene, or nil. A nil holder has no scene.
func (h *Holder) Get() *Node {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.root
}

// Clear drops the scene, typically on renderer teardown.
func (h *Holder) Clear() {
	h.Set(nil)
}
