package dag

import (
	"fmt"
	"sort"
	"strconv"
)

// MilestoneEvery is the level spacing between unlock nodes.
const MilestoneEvery = 5

// CreditsPerLevel is the flat credit bonus multiplied by the milestone level.
const CreditsPerLevel = 500

type milestone struct {
	level    int
	tool     string
	hardware string
	bonus    float64
}

var levelMilestones = []milestone{
	{5, "keylogger", "cpu", 0.2},
	{10, "rootkit", "ram", 0.2},
	{15, "cryptolocker", "network", 0.2},
	{20, "botnet_manager", "cooling", 0.2},
	{25, "system_eraser", "cpu", 0.3},
	{30, "network_scanner", "ram", 0.3},
	{35, "data_extractor", "network", 0.3},
	{40, "system_analyzer", "cooling", 0.3},
	{45, "stealth_kit", "cpu", 0.4},
	{50, "master_toolkit", "network", 0.4},
}

// LevelNodeID returns the unlock node id of a milestone level.
func LevelNodeID(level int) NodeID {
	return NodeID(fmt.Sprintf("unlock.level_%02d", level))
}

// SeedLevelUnlockNodes defines one instant unlock node per milestone level,
// chained so each milestone requires the previous one.
func SeedLevelUnlockNodes() []*Node {
	nodes := make([]*Node, 0, len(levelMilestones))
	var prevID NodeID
	for _, m := range levelMilestones {
		id := LevelNodeID(m.level)
		requires := []NodeID{}
		if prevID != "" {
			requires = []NodeID{prevID}
		}
		nodes = append(nodes, &Node{
			ID:    id,
			Kind:  NodeKindUnlock,
			Label: "Niveau " + strconv.Itoa(m.level),
			Payload: map[string]string{
				"level":    strconv.Itoa(m.level),
				"tool":     m.tool,
				"hardware": m.hardware,
				"bonus":    strconv.FormatFloat(m.bonus, 'f', -1, 64),
			},
			Requires: requires,
			Effects: []Effect{
				{Type: EffectToolUnlock, Target: m.tool},
				{Type: EffectHardwareBonus, Target: m.hardware, Value: m.bonus},
				{Type: EffectCredits, Value: float64(m.level * CreditsPerLevel)},
			},
		})
		prevID = id
	}
	return nodes
}

// NodeLevel reads the milestone level from a node payload.
func NodeLevel(node *Node) (int, error) {
	v, err := GetPayloadFloat(node.Payload, "level")
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// GetPayloadFloat extracts a float64 from a node's payload map.
func GetPayloadFloat(payload map[string]string, key string) (float64, error) {
	val, exists := payload[key]
	if !exists {
		return 0, fmt.Errorf("payload missing key: %s", key)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("payload key %s is not a valid float: %v", key, err)
	}
	return f, nil
}

// Unlocks aggregates the rewards of every completed unlock node.
type Unlocks struct {
	Tools    []string
	Hardware map[string]float64
	Credits  int
}

// CalculateUnlocks sums the effects of completed unlock nodes of graph.
// Tools are returned sorted.
func CalculateUnlocks(graph *Graph, state *State) Unlocks {
	u := Unlocks{Hardware: map[string]float64{}}
	if graph == nil || state == nil {
		return u
	}
	for _, nodeID := range state.Completed(graph) {
		node := graph.GetNode(nodeID)
		if node.Kind != NodeKindUnlock {
			continue
		}
		for _, eff := range node.Effects {
			switch eff.Type {
			case EffectToolUnlock:
				if eff.Target != "" {
					u.Tools = append(u.Tools, eff.Target)
				}
			case EffectHardwareBonus:
				u.Hardware[eff.Target] += eff.Value
			case EffectCredits:
				u.Credits += int(eff.Value)
			}
		}
	}
	sort.Strings(u.Tools)
	return u
}
