package ring

import "github.com/pyropy/ringaudit/core/model"

// Handoffs enumerates, lazily and in ring order, the distinct devices past a
// partition's primaries. The sequence eventually covers every remaining
// device; callers are expected to consume it truncated.
func (r *Ring) Handoffs(part uint64) *HandoffIter {
	seen := make(map[string]struct{}, r.replicas)
	for _, n := range r.pick(part, r.replicas, nil) {
		seen[n.ID] = struct{}{}
	}

	return &HandoffIter{
		ring: r,
		pos:  r.search(part),
		left: len(r.vnodes),
		seen: seen,
	}
}

type HandoffIter struct {
	ring *Ring
	pos  int
	left int
	seen map[string]struct{}
}

// Next returns the next handoff node, or false once the ring is exhausted.
func (it *HandoffIter) Next() (model.Node, bool) {
	for it.left > 0 {
		vn := it.ring.vnodes[it.pos%len(it.ring.vnodes)]
		it.pos++
		it.left--

		if _, ok := it.seen[vn.node.ID]; ok {
			continue
		}

		it.seen[vn.node.ID] = struct{}{}
		return vn.node, true
	}

	return model.Node{}, false
}
