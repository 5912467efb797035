package game

import "sort"

// Usage is the intensity of a tool use.
type Usage int

const (
	UsageNormal Usage = iota
	UsageIntensive
	UsageCareful
)

// Wear returns the durability points one use of this intensity costs.
func (u Usage) Wear() float64 {
	switch u {
	case UsageIntensive:
		return 5
	case UsageCareful:
		return 1
	default:
		return 2
	}
}

// Loadout holds the tools a session may use and their durability (0..100).
// A tool present in Tools always has a Durability entry and vice versa.
type Loadout struct {
	Tools      []string           `json:"tools"`
	Durability map[string]float64 `json:"durability"`
}

// NewLoadout copies the profile's tools. Tools missing a durability entry start at 100.
func NewLoadout(p *PlayerProfile) *Loadout {
	l := &Loadout{Durability: map[string]float64{}}
	if p == nil {
		return l
	}
	for _, tool := range p.Tools {
		d, ok := p.ToolDurability[tool]
		if !ok {
			d = 100
		}
		if d <= 0 {
			continue
		}
		l.Tools = append(l.Tools, tool)
		l.Durability[tool] = d
	}
	return l
}

// Has reports whether the tool is usable.
func (l *Loadout) Has(tool string) bool {
	_, ok := l.Durability[tool]
	return ok
}

// Add installs a tool at full durability.
func (l *Loadout) Add(tool string) {
	if l.Has(tool) {
		return
	}
	l.Tools = append(l.Tools, tool)
	l.Durability[tool] = 100
}

// Use wears the tool and reports whether it broke. Unknown tools are ignored.
func (l *Loadout) Use(tool string, u Usage) (broken bool) {
	return l.Degrade(tool, u.Wear())
}

// Degrade removes amount durability points, dropping the tool at zero.
func (l *Loadout) Degrade(tool string, amount float64) (broken bool) {
	d, ok := l.Durability[tool]
	if !ok {
		return false
	}
	d -= amount
	if d <= 0 {
		l.remove(tool)
		return true
	}
	l.Durability[tool] = d
	return false
}

// Repair restores a tool to 100 and returns the points restored.
func (l *Loadout) Repair(tool string) float64 {
	d, ok := l.Durability[tool]
	if !ok {
		return 0
	}
	l.Durability[tool] = 100
	return 100 - d
}

func (l *Loadout) remove(tool string) {
	delete(l.Durability, tool)
	for i, t := range l.Tools {
		if t == tool {
			l.Tools = append(l.Tools[:i], l.Tools[i+1:]...)
			return
		}
	}
}

// Sorted returns tool names in order.
func (l *Loadout) Sorted() []string {
	out := append([]string(nil), l.Tools...)
	sort.Strings(out)
	return out
}

// MirrorInto writes the loadout back into the profile.
func (l *Loadout) MirrorInto(p *PlayerProfile) {
	p.Tools = append([]string(nil), l.Tools...)
	p.ToolDurability = make(map[string]float64, len(l.Durability))
	for k, v := range l.Durability {
		p.ToolDurability[k] = v
	}
}
