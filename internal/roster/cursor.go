package roster

// Cursor points at one live node and follows links in O(1). A cursor is only
// valid until the node it points at is removed; moving other nodes keeps it
// usable.
type Cursor[K comparable, T any] struct {
	r *Roster[K, T]
	i int
}

// Seek locates k and returns a cursor on it.
func (r *Roster[K, T]) Seek(k K) (Cursor[K, T], bool) {
	i := r.locate(k)
	if i == none {
		return Cursor[K, T]{}, false
	}
	return Cursor[K, T]{r: r, i: i}, true
}

// Front returns a cursor on the head.
func (r *Roster[K, T]) Front() (Cursor[K, T], bool) {
	if r.tail == none {
		return Cursor[K, T]{}, false
	}
	return Cursor[K, T]{r: r, i: r.head()}, true
}

// Value returns the item under the cursor.
func (c Cursor[K, T]) Value() T { return c.r.nodes[c.i].item }

// Key returns the key of the item under the cursor.
func (c Cursor[K, T]) Key() K { return c.r.key(c.r.nodes[c.i].item) }

// Next moves one link forward.
func (c Cursor[K, T]) Next() Cursor[K, T] {
	return Cursor[K, T]{r: c.r, i: c.r.nodes[c.i].next}
}

// Prev moves one link backward.
func (c Cursor[K, T]) Prev() Cursor[K, T] {
	return Cursor[K, T]{r: c.r, i: c.r.nodes[c.i].prev}
}

// Valid reports whether the cursor still points at a live node.
func (c Cursor[K, T]) Valid() bool {
	return c.r != nil && c.i >= 0 && c.i < len(c.r.nodes) && c.r.nodes[c.i].live
}
