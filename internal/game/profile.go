package game

import (
	"errors"
	"sort"
	"sync"
)

// ErrProfileNotFound is returned by persistence when no profile was saved yet.
var ErrProfileNotFound = errors.New("profile not found")

// HardwareSlot is one component of the player's rig.
type HardwareSlot struct {
	Level int     `json:"level"`
	Bonus float64 `json:"bonus"`
}

// Effective is the multiplier contribution of the slot.
func (h HardwareSlot) Effective() float64 {
	return float64(h.Level) * h.Bonus
}

// PlayerStats are the cumulative career counters.
type PlayerStats struct {
	MissionsCompleted int `json:"missions_completed"`
	TotalEarnings     int `json:"total_earnings"`
	SuccessfulHacks   int `json:"successful_hacks"`
	StealthMissions   int `json:"stealth_missions"`
	DataStolenValue   int `json:"data_stolen_value"`
	LargestBotnet     int `json:"largest_botnet"`
	TotalRansom       int `json:"total_ransom"`
}

// PlayerProfile is the long-lived player record. Sessions reference it and
// only write tool state back at checkpoints.
type PlayerProfile struct {
	ID                string                  `json:"id"`
	Faction           Faction                 `json:"faction"`
	Level             int                     `json:"level"`
	Credits           int                     `json:"credits"`
	Tools             []string                `json:"tools"`
	ToolDurability    map[string]float64      `json:"tool_durability"`
	Hardware          map[string]HardwareSlot `json:"hardware"`
	Stats             PlayerStats             `json:"stats"`
	CompletedMissions []string                `json:"completed_missions"`
	Progression       []byte                  `json:"progression,omitempty"` // dag state snapshot
}

// NewPlayerProfile returns the starting profile for a faction.
func NewPlayerProfile(id string, faction Faction) *PlayerProfile {
	return &PlayerProfile{
		ID:             id,
		Faction:        faction,
		Level:          1,
		Credits:        1000,
		Tools:          []string{ToolVPN},
		ToolDurability: map[string]float64{ToolVPN: 100},
		Hardware: map[string]HardwareSlot{
			HardwareCPU:     {Level: 1, Bonus: 0.1},
			HardwareRAM:     {Level: 1, Bonus: 0.1},
			HardwareNetwork: {Level: 1, Bonus: 0.1},
			HardwareCooling: {Level: 1, Bonus: 0.1},
		},
	}
}

// HasTool reports whether the profile owns a tool.
func (p *PlayerProfile) HasTool(name string) bool {
	for _, t := range p.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// AddTool grants a tool at full durability; owning it already is a no-op.
func (p *PlayerProfile) AddTool(name string) {
	if p.HasTool(name) {
		return
	}
	p.Tools = append(p.Tools, name)
	if p.ToolDurability == nil {
		p.ToolDurability = map[string]float64{}
	}
	p.ToolDurability[name] = 100
}

// HardwareBonus returns the effective bonus of a hardware slot.
func (p *PlayerProfile) HardwareBonus(slot string) float64 {
	if p == nil || p.Hardware == nil {
		return 0
	}
	return p.Hardware[slot].Effective()
}

// UpgradeHardware adds an increment to a slot's bonus.
func (p *PlayerProfile) UpgradeHardware(slot string, increment float64) {
	if p.Hardware == nil {
		p.Hardware = map[string]HardwareSlot{}
	}
	h := p.Hardware[slot]
	if h.Level == 0 {
		h.Level = 1
	}
	h.Bonus += increment
	p.Hardware[slot] = h
}

// AddCredits adjusts the balance; it never goes below zero.
func (p *PlayerProfile) AddCredits(amount int) {
	p.Credits += amount
	if p.Credits < 0 {
		p.Credits = 0
	}
}

// SpendCredits debits amount if the balance allows it.
func (p *PlayerProfile) SpendCredits(amount int) bool {
	if amount < 0 || p.Credits < amount {
		return false
	}
	p.Credits -= amount
	return true
}

// HasCompleted reports whether a mission id was already completed.
func (p *PlayerProfile) HasCompleted(missionID string) bool {
	for _, id := range p.CompletedMissions {
		if id == missionID {
			return true
		}
	}
	return false
}

// Clone deep-copies the profile.
func (p *PlayerProfile) Clone() *PlayerProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Tools = append([]string(nil), p.Tools...)
	c.CompletedMissions = append([]string(nil), p.CompletedMissions...)
	c.Progression = append([]byte(nil), p.Progression...)
	c.ToolDurability = make(map[string]float64, len(p.ToolDurability))
	for k, v := range p.ToolDurability {
		c.ToolDurability[k] = v
	}
	c.Hardware = make(map[string]HardwareSlot, len(p.Hardware))
	for k, v := range p.Hardware {
		c.Hardware[k] = v
	}
	return &c
}

// SortedTools returns the tool list in name order.
func (p *PlayerProfile) SortedTools() []string {
	out := append([]string(nil), p.Tools...)
	sort.Strings(out)
	return out
}

// Persistence is the collaborator that stores the player profile.
type Persistence interface {
	Save(p *PlayerProfile) error
	Load() (*PlayerProfile, error)
}

// MemoryPersistence keeps the last saved profile in memory.
type MemoryPersistence struct {
	mu      sync.Mutex
	profile *PlayerProfile
	saves   int
}

// NewMemoryPersistence returns an empty in-memory store.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// Save implements Persistence.
func (m *MemoryPersistence) Save(p *PlayerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = p.Clone()
	m.saves++
	return nil
}

// Load implements Persistence.
func (m *MemoryPersistence) Load() (*PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil, ErrProfileNotFound
	}
	return m.profile.Clone(), nil
}

// Saves returns how many times Save was called.
func (m *MemoryPersistence) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
