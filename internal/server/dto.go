package server

import (
	"sort"

	"CyberHack/internal/dag"
	"CyberHack/internal/game"
)

// Outbound websocket frame types.
const (
	frameOutput = "output"
	frameEvents = "events"
	frameState  = "state"
)

type inboundCommand struct {
	Line string `json:"line"`
}

type linesDTO struct {
	Lines  []string `json:"lines"`
	Prompt string   `json:"prompt"`
}

type errorDTO struct {
	Message string `json:"message"`
}

// stateDTO is the periodic terminal view pushed to websocket clients.
type stateDTO struct {
	Profile   string                `json:"profile"`
	InMission bool                  `json:"in_mission"`
	Session   *game.SessionSnapshot `json:"session,omitempty"`
}

type missionDTO struct {
	Key         string   `json:"key"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Difficulty  int      `json:"difficulty"`
	Label       string   `json:"difficulty_label"`
	Reward      int      `json:"reward"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
	Secondary   []string `json:"secondary"`
	Tools       []string `json:"recommended_tools"`
}

func missionToDTO(m game.Mission) missionDTO {
	dto := missionDTO{
		Key:         m.Key,
		ID:          m.ID,
		Title:       m.Title,
		Type:        string(m.Type),
		Difficulty:  m.Difficulty,
		Label:       game.DifficultyLabel(m.Difficulty),
		Reward:      m.Reward,
		Description: m.Description,
		Objectives:  m.Objectives,
		Tools:       m.RecommendedTools,
	}
	for _, s := range m.SecondaryObjectives {
		dto.Secondary = append(dto.Secondary, s.Description)
	}
	return dto
}

// unlocksDTO mirrors dag.Unlocks for clients.
type unlocksDTO struct {
	Tools    []string           `json:"tools"`
	Hardware map[string]float64 `json:"hardware"`
	Credits  int                `json:"credits"`
}

type profileDTO struct {
	*game.PlayerProfile
	Unlocks  unlocksDTO      `json:"unlocks"`
	Sessions []checkpointDTO `json:"recent_sessions"`
}

// profileUnlocks evaluates the profile's stored progression against the
// shared level graph.
func profileUnlocks(p *game.PlayerProfile) unlocksDTO {
	dto := unlocksDTO{Tools: []string{}, Hardware: map[string]float64{}}
	if len(p.Progression) == 0 {
		return dto
	}
	state, err := dag.LoadSnapshot(p.Progression)
	if err != nil {
		return dto
	}
	u := dag.CalculateUnlocks(dag.GetGraph(), state)
	if u.Tools != nil {
		dto.Tools = u.Tools
	}
	dto.Hardware = u.Hardware
	dto.Credits = u.Credits
	return dto
}

type checkpointDTO struct {
	Session  string  `json:"session"`
	Mission  string  `json:"mission"`
	State    string  `json:"state"`
	Complete bool    `json:"completed"`
	Credits  int     `json:"credits"`
	Alert    float64 `json:"alert"`
	SavedAt  string  `json:"saved_at"`
}

func sortedFactions() []game.FactionInfo {
	out := make([]game.FactionInfo, 0, len(game.AllFactions))
	for _, f := range game.AllFactions {
		if info, ok := game.DescribeFaction(f); ok {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Faction < out[j].Faction })
	return out
}
