package kb

import "sync/atomic"

// Handle publishes a knowledge base to concurrent readers. Reload follows
// the load-then-publish discipline: a replacement table is fully parsed and
// validated before the pointer swap, so in-flight evaluations never observe
// a partially updated table.
type Handle struct {
	ptr atomic.Pointer[KnowledgeBase]
}

// NewHandle creates a handle publishing the given table.
func NewHandle(k *KnowledgeBase) *Handle {
	h := &Handle{}
	h.ptr.Store(k)
	return h
}

// Current returns the currently published table.
func (h *Handle) Current() *KnowledgeBase {
	return h.ptr.Load()
}

// Reload loads and validates the file at path and atomically swaps it in.
// On any error the previously published table stays in effect.
func (h *Handle) Reload(path string) error {
	k, err := Load(path)
	if err != nil {
		return err
	}
	h.ptr.Store(k)
	return nil
}
