package pastor

import (
	"fmt"
	"strings"
)

// Profession is the ministry an agent serves in. Neighbours at the table must
// not share one.
type Profession string

// Vocabulary lists every profession an agent can be generated with.
var Vocabulary = []Profession{
	"Senior Pastor",
	"Associate Pastor",
	"Youth Pastor",
	"Children's Pastor",
	"Worship Pastor",
	"Evangelism Pastor",
	"Missionary Pastor",
	"Assistant Pastor",
	"Music Minister",
	"Education Minister",
	"Chaplain",
	"Evangelist",
	"Bible Teacher",
	"Pastoral Counselor",
	"Ministry Director",
	"Elders Pastor",
	"Family Pastor",
	"Discipleship Pastor",
	"Cell Group Leader",
	"Ministries Coordinator",
	"Intercession Pastor",
	"Visitation Minister",
	"Sunday School Director",
	"Hospital Pastor",
	"Benevolence Minister",
	"Head Deacon",
	"Restoration Pastor",
	"Communications Minister",
	"Church Planting Pastor",
	"Volunteer Coordinator",
}

// LookupProfession finds a vocabulary entry by name, ignoring case.
func LookupProfession(name string) (Profession, bool) {
	name = strings.TrimSpace(name)
	for _, p := range Vocabulary {
		if strings.EqualFold(string(p), name) {
			return p, true
		}
	}
	return "", false
}

// ParseProfessions resolves a list of names against the vocabulary.
func ParseProfessions(names []string) ([]Profession, error) {
	out := make([]Profession, 0, len(names))
	seen := make(map[Profession]bool, len(names))
	for _, name := range names {
		p, ok := LookupProfession(name)
		if !ok {
			return nil, fmt.Errorf("unknown profession %q", name)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// Majority returns the largest number of agents sharing one profession.
func Majority(agents []*Agent) int {
	counts := make(map[Profession]int, len(agents))
	best := 0
	for _, a := range agents {
		counts[a.Profession]++
		best = max(best, counts[a.Profession])
	}
	return best
}

// Seatable reports whether agents can sit in a ring with no two neighbours
// sharing a profession.
func Seatable(agents []*Agent) bool {
	if len(agents) <= 1 {
		return true
	}
	return Majority(agents) <= len(agents)/2
}
