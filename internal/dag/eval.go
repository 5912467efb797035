package dag

// Refresh opens every locked node whose requirements are all completed and
// returns the opened nodes in topological order. Completed nodes never
// regress.
func Refresh(graph *Graph, state *State) []NodeID {
	var opened []NodeID
	for _, id := range graph.TopoOrder {
		if state.GetStatus(id) != StatusLocked {
			continue
		}
		if requirementsMet(graph.Nodes[id], state) {
			state.SetStatus(id, StatusAvailable)
			opened = append(opened, id)
		}
	}
	return opened
}

func requirementsMet(node *Node, state *State) bool {
	for _, req := range node.Requires {
		if state.GetStatus(req) != StatusCompleted {
			return false
		}
	}
	return true
}
