package core

// Link is one slot of an intrusive doubly-linked list node. A View embeds
// six of these, one per (phase, stack-kind) pair, so it can move between
// list owners in O(1) without the caller ever naming the list it
// currently belongs to: RelinkFront/RelinkBack read the link's own
// prev/next pointers to unlink, then push it onto the front or back of
// the destination head.
type Link struct {
	prev, next *Link
	head       *listHead
	view       *View
}

// View returns the view that owns this link.
func (l *Link) View() *View { return l.view }

// Linked reports whether l currently belongs to a list.
func (l *Link) Linked() bool { return l.head != nil }

// listHead is an intrusive list's sentinel. It never holds a payload
// itself, only the boundary pointers.
type listHead struct {
	first, last *Link
	len         int
}

// Len returns the number of links currently on h.
func (h *listHead) Len() int { return h.len }

// PushFront links l at the front of h. l must not already be linked.
func (h *listHead) PushFront(l *Link) {
	l.head = h
	l.prev = nil
	l.next = h.first
	if h.first != nil {
		h.first.prev = l
	} else {
		h.last = l
	}
	h.first = l
	h.len++
}

// PushBack links l at the back of h. l must not already be linked.
func (h *listHead) PushBack(l *Link) {
	l.head = h
	l.next = nil
	l.prev = h.last
	if h.last != nil {
		h.last.next = l
	} else {
		h.first = l
	}
	h.last = l
	h.len++
}

// Unlink removes l from whatever list it is currently on. It is a no-op
// if l is not linked.
func (l *Link) Unlink() {
	h := l.head
	if h == nil {
		return
	}
	if l.prev != nil {
		l.prev.next = l.next
	} else {
		h.first = l.next
	}
	if l.next != nil {
		l.next.prev = l.prev
	} else {
		h.last = l.prev
	}
	l.prev, l.next, l.head = nil, nil, nil
	h.len--
}

// RelinkFront unlinks l from its current list (if any) and pushes it to
// the front of dst.
func (l *Link) RelinkFront(dst *listHead) {
	l.Unlink()
	dst.PushFront(l)
}

// RelinkBack unlinks l from its current list (if any) and pushes it to
// the back of dst.
func (l *Link) RelinkBack(dst *listHead) {
	l.Unlink()
	dst.PushBack(l)
}

// Front returns the first link on h, or nil if h is empty.
func (h *listHead) Front() *Link { return h.first }

// Views walks h front to back and returns the owning views in order.
func (h *listHead) Views() []*View {
	out := make([]*View, 0, h.len)
	for l := h.first; l != nil; l = l.next {
		out = append(out, l.view)
	}
	return out
}

// PrependAllFrom moves every link currently on src to the front of dst,
// preserving src's relative order, and leaves src empty. Used when
// evacuating an output's stacks into the hidden holding area.
func (dst *listHead) PrependAllFrom(src *listHead) {
	if src.len == 0 {
		return
	}
	// Walk src back-to-front, pushing each to dst's front, so the final
	// order on dst matches src's original front-to-back order followed
	// by whatever was already on dst.
	for l := src.last; l != nil; {
		prev := l.prev
		l.Unlink()
		dst.PushFront(l)
		l = prev
	}
}
