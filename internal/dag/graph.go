// Package dag holds the player progression graph: level milestones and
// the unlocks they grant.
//
// The graph is server-authoritative and validated at boot. Per-player
// progress lives in a State that the profile stores as JSON.
package dag

import (
	"errors"
	"fmt"
)

// NodeID uniquely identifies a node in the graph.
type NodeID string

// NodeKind categorizes the node type.
type NodeKind string

// NodeKindUnlock is a level milestone that grants rewards.
const NodeKindUnlock NodeKind = "unlock"

// EffectType describes the type of effect a node provides.
type EffectType int

const (
	EffectToolUnlock EffectType = iota
	EffectHardwareBonus
	EffectCredits
)

// Effect describes what a node grants when completed.
type Effect struct {
	Type   EffectType `json:"type"`
	Target string     `json:"target,omitempty"` // tool or hardware slot
	Value  float64    `json:"value,omitempty"`  // hardware increment or credit amount
}

// Node is a single milestone of the graph.
type Node struct {
	ID       NodeID            `json:"id"`
	Kind     NodeKind          `json:"kind"`
	Label    string            `json:"label"`
	Payload  map[string]string `json:"payload"`
	Requires []NodeID          `json:"requires"`
	Effects  []Effect          `json:"effects,omitempty"`
}

// Graph is the validated milestone graph.
type Graph struct {
	Nodes      map[NodeID]*Node
	RequiresIn map[NodeID][]NodeID // reverse index: which nodes require this one
	TopoOrder  []NodeID
}

var (
	ErrCycleDetected = errors.New("dag: cycle detected in graph")
	ErrNodeNotFound  = errors.New("dag: node not found")
	ErrDuplicateNode = errors.New("dag: duplicate node")
)

var defaultGraph *Graph

// NewGraph builds and validates a graph without touching the global one.
func NewGraph(nodes []*Node) (*Graph, error) {
	g := &Graph{
		Nodes:      make(map[NodeID]*Node, len(nodes)),
		RequiresIn: make(map[NodeID][]NodeID),
	}
	for _, node := range nodes {
		if _, dup := g.Nodes[node.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
		}
		g.Nodes[node.ID] = node
	}
	for _, node := range nodes {
		for _, reqID := range node.Requires {
			if _, ok := g.Nodes[reqID]; !ok {
				return nil, fmt.Errorf("%w: node %s requires missing node %s", ErrNodeNotFound, node.ID, reqID)
			}
			g.RequiresIn[reqID] = append(g.RequiresIn[reqID], node.ID)
		}
	}
	order, err := g.topoSort(nodes)
	if err != nil {
		return nil, err
	}
	g.TopoOrder = order
	return g, nil
}

// Init installs the global graph after validating it.
func Init(nodes []*Node) error {
	g, err := NewGraph(nodes)
	if err != nil {
		return err
	}
	defaultGraph = g
	return nil
}

// GetGraph returns the global graph, nil before Init.
func GetGraph() *Graph {
	return defaultGraph
}

// GetNode returns a node by ID, or nil if not found.
func (g *Graph) GetNode(id NodeID) *Node {
	return g.Nodes[id]
}

// topoSort runs Kahn's algorithm seeded in declaration order so the result
// is stable across runs.
func (g *Graph) topoSort(nodes []*Node) ([]NodeID, error) {
	inDegree := make(map[NodeID]int, len(nodes))
	var queue []NodeID
	for _, node := range nodes {
		inDegree[node.ID] = len(node.Requires)
		if len(node.Requires) == 0 {
			queue = append(queue, node.ID)
		}
	}

	order := make([]NodeID, 0, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)
		for _, next := range g.RequiresIn[curr] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(g.Nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}
