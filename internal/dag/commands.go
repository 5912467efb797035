package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeNotAvailable is returned when granting a node whose requirements are unmet.
	ErrNodeNotAvailable = errors.New("dag: node not available")
	// ErrAlreadyGranted is returned when granting a completed node.
	ErrAlreadyGranted = errors.New("dag: node already granted")
)

// Effects receives the nodes completed by Grant. Consumers apply the node
// effects to a player profile.
type Effects interface {
	OnComplete(nodeID NodeID, node *Node)
}

// Grant completes an available node and hands it to effects.
func Grant(graph *Graph, state *State, nodeID NodeID, effects Effects) error {
	node := graph.GetNode(nodeID)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	switch status := state.GetStatus(nodeID); status {
	case StatusCompleted:
		return fmt.Errorf("%w: %s", ErrAlreadyGranted, nodeID)
	case StatusAvailable:
	default:
		return fmt.Errorf("%w: %s (status: %s)", ErrNodeNotAvailable, nodeID, status)
	}
	state.SetStatus(nodeID, StatusCompleted)
	if effects != nil {
		effects.OnComplete(nodeID, node)
	}
	return nil
}

// Backfill marks every node matching done as completed without effects and
// returns how many changed. It repairs progress stored before a milestone
// existed.
func Backfill(graph *Graph, state *State, done func(*Node) bool) int {
	n := 0
	for _, id := range graph.TopoOrder {
		node := graph.Nodes[id]
		if state.GetStatus(id) == StatusCompleted || !done(node) {
			continue
		}
		state.SetStatus(id, StatusCompleted)
		n++
	}
	return n
}
