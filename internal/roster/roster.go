// Package roster implements a generic circular doubly-linked ring.
//
// Nodes live in an arena and are addressed by stable indices, so splicing and
// removal never leave dangling links. Only the tail index is stored; the head
// is always tail.next, giving O(1) access to both ends. Entries are located by
// an explicit comparable key extracted from each item, never by value equality.
package roster

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrEmpty is returned when an operation needs at least one node.
var ErrEmpty = errors.New("roster: ring is empty")

const none = -1

type node[T any] struct {
	item T
	next int
	prev int
	live bool
}

// Roster is a circular doubly-linked ring of items identified by keys of type K.
type Roster[K comparable, T any] struct {
	nodes []node[T]
	free  []int
	tail  int
	size  int
	key   func(T) K
}

// New creates an empty ring. The key function must be stable for the lifetime
// of an item inside the ring.
func New[K comparable, T any](key func(T) K) *Roster[K, T] {
	return &Roster[K, T]{tail: none, key: key}
}

// Len returns the number of items in the ring.
func (r *Roster[K, T]) Len() int { return r.size }

// IsEmpty reports whether the ring has no items.
func (r *Roster[K, T]) IsEmpty() bool { return r.size == 0 }

func (r *Roster[K, T]) alloc(item T) int {
	if n := len(r.free); n > 0 {
		i := r.free[n-1]
		r.free = r.free[:n-1]
		r.nodes[i] = node[T]{item: item, next: i, prev: i, live: true}
		return i
	}
	i := len(r.nodes)
	r.nodes = append(r.nodes, node[T]{item: item, next: i, prev: i, live: true})
	return i
}

func (r *Roster[K, T]) release(i int) {
	r.nodes[i] = node[T]{next: none, prev: none}
	r.free = append(r.free, i)
}

func (r *Roster[K, T]) head() int {
	if r.tail == none {
		return none
	}
	return r.nodes[r.tail].next
}

// linkAfter splices the detached node i in right after node p.
func (r *Roster[K, T]) linkAfter(p, i int) {
	n := r.nodes[p].next
	r.nodes[i].prev = p
	r.nodes[i].next = n
	r.nodes[p].next = i
	r.nodes[n].prev = i
	r.size++
}

func (r *Roster[K, T]) unlink(i int) T {
	item := r.nodes[i].item
	if r.size == 1 {
		r.tail = none
	} else {
		p, n := r.nodes[i].prev, r.nodes[i].next
		r.nodes[p].next = n
		r.nodes[n].prev = p
		if i == r.tail {
			r.tail = p
		}
	}
	r.size--
	r.release(i)
	return item
}

// locate scans one full revolution from the head.
func (r *Roster[K, T]) locate(k K) int {
	i := r.head()
	for n := 0; n < r.size; n++ {
		if r.key(r.nodes[i].item) == k {
			return i
		}
		i = r.nodes[i].next
	}
	return none
}

// InsertAtEnd appends item as the new tail. On an empty ring the node links
// to itself.
func (r *Roster[K, T]) InsertAtEnd(item T) {
	i := r.alloc(item)
	if r.tail == none {
		r.tail = i
		r.size = 1
		return
	}
	r.linkAfter(r.tail, i)
	r.tail = i
}

// InsertAtHead inserts item as the new head. The tail is unchanged unless the
// ring was empty.
func (r *Roster[K, T]) InsertAtHead(item T) {
	i := r.alloc(item)
	if r.tail == none {
		r.tail = i
		r.size = 1
		return
	}
	r.linkAfter(r.tail, i)
}

// InsertAfter inserts item right after the entry keyed by anchor. It returns
// false when anchor is not in the ring. Inserting after the tail makes item
// the new tail.
func (r *Roster[K, T]) InsertAfter(anchor K, item T) bool {
	p := r.locate(anchor)
	if p == none {
		return false
	}
	i := r.alloc(item)
	r.linkAfter(p, i)
	if p == r.tail {
		r.tail = i
	}
	return true
}

// InsertBefore inserts item right before the entry keyed by anchor. Inserting
// before the head is the same as InsertAtHead.
func (r *Roster[K, T]) InsertBefore(anchor K, item T) bool {
	p := r.locate(anchor)
	if p == none {
		return false
	}
	i := r.alloc(item)
	r.linkAfter(r.nodes[p].prev, i)
	return true
}

// Remove unlinks the entry keyed by k. Removing the tail promotes its
// predecessor; removing the last entry empties the ring.
func (r *Roster[K, T]) Remove(k K) bool {
	i := r.locate(k)
	if i == none {
		return false
	}
	r.unlink(i)
	return true
}

// RemoveHead unlinks and returns the head.
func (r *Roster[K, T]) RemoveHead() (T, error) {
	if r.tail == none {
		var zero T
		return zero, ErrEmpty
	}
	return r.unlink(r.head()), nil
}

// RemoveTail unlinks and returns the tail.
func (r *Roster[K, T]) RemoveTail() (T, error) {
	if r.tail == none {
		var zero T
		return zero, ErrEmpty
	}
	return r.unlink(r.tail), nil
}

// RemoveAfter unlinks the successor of the entry keyed by k. It fails when k
// is absent or has no distinct successor.
func (r *Roster[K, T]) RemoveAfter(k K) (T, bool) {
	var zero T
	i := r.locate(k)
	if i == none || r.size < 2 {
		return zero, false
	}
	return r.unlink(r.nodes[i].next), true
}

// RemoveBefore unlinks the predecessor of the entry keyed by k.
func (r *Roster[K, T]) RemoveBefore(k K) (T, bool) {
	var zero T
	i := r.locate(k)
	if i == none || r.size < 2 {
		return zero, false
	}
	return r.unlink(r.nodes[i].prev), true
}

// Contains reports whether an entry keyed by k is in the ring.
func (r *Roster[K, T]) Contains(k K) bool {
	return r.locate(k) != none
}

// Next returns the successor of the entry keyed by k.
func (r *Roster[K, T]) Next(k K) (T, bool) {
	i := r.locate(k)
	if i == none {
		var zero T
		return zero, false
	}
	return r.nodes[r.nodes[i].next].item, true
}

// Prev returns the predecessor of the entry keyed by k.
func (r *Roster[K, T]) Prev(k K) (T, bool) {
	i := r.locate(k)
	if i == none {
		var zero T
		return zero, false
	}
	return r.nodes[r.nodes[i].prev].item, true
}

// Head returns the first item.
func (r *Roster[K, T]) Head() (T, bool) {
	if r.tail == none {
		var zero T
		return zero, false
	}
	return r.nodes[r.head()].item, true
}

// Tail returns the last item.
func (r *Roster[K, T]) Tail() (T, bool) {
	if r.tail == none {
		var zero T
		return zero, false
	}
	return r.nodes[r.tail].item, true
}

// FindExtremum walks the ring once from the head and returns the best item.
// compare is called as compare(candidate, best) and best is replaced only
// when the result is > 0, so the first item seen wins ties.
func (r *Roster[K, T]) FindExtremum(compare func(candidate, best T) int) (T, bool) {
	if r.tail == none {
		var zero T
		return zero, false
	}
	i := r.head()
	best := r.nodes[i].item
	for n := 0; n < r.size; n++ {
		if candidate := r.nodes[i].item; compare(candidate, best) > 0 {
			best = candidate
		}
		i = r.nodes[i].next
	}
	return best, true
}

// Find returns the first item from the head matching pred.
func (r *Roster[K, T]) Find(pred func(T) bool) (T, bool) {
	i := r.head()
	for n := 0; n < r.size; n++ {
		if pred(r.nodes[i].item) {
			return r.nodes[i].item, true
		}
		i = r.nodes[i].next
	}
	var zero T
	return zero, false
}

// Position returns the live seat index of k, counted from the head.
func (r *Roster[K, T]) Position(k K) (int, bool) {
	i := r.head()
	for n := 0; n < r.size; n++ {
		if r.key(r.nodes[i].item) == k {
			return n, true
		}
		i = r.nodes[i].next
	}
	return 0, false
}

// At returns the item sitting at live seat index pos.
func (r *Roster[K, T]) At(pos int) (T, bool) {
	if pos < 0 || pos >= r.size {
		var zero T
		return zero, false
	}
	i := r.head()
	for n := 0; n < pos; n++ {
		i = r.nodes[i].next
	}
	return r.nodes[i].item, true
}

// Items returns a snapshot of the ring in order from the head.
func (r *Roster[K, T]) Items() []T {
	items := make([]T, 0, r.size)
	for item := range r.All() {
		items = append(items, item)
	}
	return items
}

// All yields the items in order from the head. The ring must not be mutated
// while iterating.
func (r *Roster[K, T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		i := r.head()
		for n := 0; n < r.size; n++ {
			if !yield(r.nodes[i].item) {
				return
			}
			i = r.nodes[i].next
		}
	}
}

// Clone returns a new ring holding the same items in the same order.
func (r *Roster[K, T]) Clone() *Roster[K, T] {
	c := New(r.key)
	for item := range r.All() {
		c.InsertAtEnd(item)
	}
	return c
}

// Clear drops every node.
func (r *Roster[K, T]) Clear() {
	r.nodes = nil
	r.free = nil
	r.tail = none
	r.size = 0
}

// String renders the ring as "HEAD -> a <-> b -> (HEAD)".
func (r *Roster[K, T]) String() string {
	if r.size == 0 {
		return "HEAD -> (empty)"
	}
	parts := make([]string, 0, r.size)
	for item := range r.All() {
		parts = append(parts, fmt.Sprint(item))
	}
	return "HEAD -> " + strings.Join(parts, " <-> ") + " -> (HEAD)"
}

// Validate checks ring closure, link symmetry and the size count.
func (r *Roster[K, T]) Validate() error {
	live := 0
	for _, n := range r.nodes {
		if n.live {
			live++
		}
	}
	if live != r.size {
		return fmt.Errorf("roster: size %d but %d live nodes", r.size, live)
	}
	if r.size == 0 {
		if r.tail != none {
			return fmt.Errorf("roster: empty ring has tail %d", r.tail)
		}
		return nil
	}
	if r.tail < 0 || r.tail >= len(r.nodes) || !r.nodes[r.tail].live {
		return fmt.Errorf("roster: tail %d is not a live node", r.tail)
	}
	start := r.head()
	i := start
	for n := 0; n < r.size; n++ {
		next := r.nodes[i].next
		if next < 0 || next >= len(r.nodes) || !r.nodes[next].live {
			return fmt.Errorf("roster: node %d links to dead node %d", i, next)
		}
		if r.nodes[next].prev != i {
			return fmt.Errorf("roster: prev of node %d is %d, want %d", next, r.nodes[next].prev, i)
		}
		i = next
		if i == start && n != r.size-1 {
			return fmt.Errorf("roster: ring closes after %d steps, size is %d", n+1, r.size)
		}
	}
	if i != start {
		return fmt.Errorf("roster: %d steps from head do not return to head", r.size)
	}
	return nil
}
