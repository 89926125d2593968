package game

import (
	"github.com/lox/pastortable/internal/pastor"
)

// RepairReport describes one run of the seating repair.
type RepairReport struct {
	Passes    int  // outer passes, including the final clean one
	Moves     int  // agents reseated
	Fallbacks int  // reseats that found no valid slot and went to the tail
	Resolved  bool // no two neighbours share a profession
}

// Exhausted reports that the pass bound ran out with conflicts left.
func (r RepairReport) Exhausted() bool { return !r.Resolved }

// RepairSeating reseats agents until no two neighbours share a profession or
// repairFactor*size passes have run. Each pass stops at the first
// conflicting pair (a, b), lifts b out and walks back from a for a slot
// whose both sides differ from b's profession, falling back to the tail.
// Giving up is reported, never an error.
func (e *Engine) RepairSeating() RepairReport {
	report := RepairReport{Resolved: true}
	size := e.ring.Len()
	if size <= 1 {
		return report
	}

	limit := e.repairFactor * size
	for report.Passes < limit {
		report.Passes++
		a, found := e.firstConflict()
		if !found {
			break
		}
		e.reseat(a, &report)
	}

	conflicts := e.Conflicts()
	report.Resolved = conflicts == 0
	if report.Exhausted() {
		e.logger.Warn("Seating repair exhausted",
			"passes", report.Passes,
			"conflicts", conflicts,
			"seatable", pastor.Seatable(e.ring.Items()))
	} else if report.Moves > 0 {
		e.logger.Debug("Seating repaired", "passes", report.Passes, "moves", report.Moves)
	}
	if report.Moves > 0 || report.Exhausted() {
		e.bus.Publish(NewSeatingRepairEvent(e.clock.Now(), report, conflicts))
	}
	return report
}

func (e *Engine) firstConflict() (cursor, bool) {
	c, ok := e.ring.Front()
	if !ok {
		return cursor{}, false
	}
	for range e.ring.Len() {
		if c.Value().Profession == c.Next().Value().Profession {
			return c, true
		}
		c = c.Next()
	}
	return cursor{}, false
}

// reseat moves the right-hand agent of the conflicting pair starting at a.
func (e *Engine) reseat(a cursor, report *RepairReport) {
	moved := a.Next().Value()
	e.ring.Remove(moved.ID)

	p := a
	found := false
	for range e.ring.Len() {
		p = p.Prev()
		if p.Value().Profession != moved.Profession && p.Next().Value().Profession != moved.Profession {
			found = true
			break
		}
	}

	if found {
		e.ring.InsertAfter(p.Key(), moved)
		e.logger.Debug("Reseated agent", "agent", moved.Name, "after", p.Value().Name)
	} else {
		e.ring.InsertAtEnd(moved)
		report.Fallbacks++
		e.logger.Debug("Reseated agent at tail", "agent", moved.Name)
	}
	report.Moves++
}

// Conflicts counts neighbouring pairs that share a profession.
func (e *Engine) Conflicts() int {
	if e.ring.Len() <= 1 {
		return 0
	}
	c, _ := e.ring.Front()
	n := 0
	for range e.ring.Len() {
		if c.Value().Profession == c.Next().Value().Profession {
			n++
		}
		c = c.Next()
	}
	return n
}

// Seatable reports whether a conflict-free seating exists for the ring.
func (e *Engine) Seatable() bool {
	return pastor.Seatable(e.ring.Items())
}
