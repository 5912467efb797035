package dag

import "encoding/json"

// Status is a node's progression for one player.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusCompleted Status = "completed"
)

// State is one player's progression. Nodes missing from Status are locked.
type State struct {
	Status map[NodeID]Status `json:"status"`
}

// NewState returns a state with every node locked.
func NewState() *State {
	return &State{Status: make(map[NodeID]Status)}
}

// GetStatus returns the status of a node.
func (s *State) GetStatus(id NodeID) Status {
	if status, ok := s.Status[id]; ok {
		return status
	}
	return StatusLocked
}

// SetStatus updates the status of a node.
func (s *State) SetStatus(id NodeID, status Status) {
	s.Status[id] = status
}

// Completed lists the completed nodes of graph in topological order.
func (s *State) Completed(graph *Graph) []NodeID {
	var out []NodeID
	for _, id := range graph.TopoOrder {
		if s.GetStatus(id) == StatusCompleted {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot encodes the state for the profile record.
func (s *State) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// LoadSnapshot restores a state written by Snapshot. Fields of older
// snapshots that the state no longer carries are ignored.
func LoadSnapshot(data []byte) (*State, error) {
	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Status == nil {
		state.Status = make(map[NodeID]Status)
	}
	return state, nil
}
