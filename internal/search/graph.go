package search

// Node is one proof state encountered during a search.
type Node struct {
	StateID      string
	Goals        []string
	Depth        int
	TacticsTried []string
	Successes    []Edge
	Failures     []string
}

// Edge records a tactic that advanced one state to another.
type Edge struct {
	Tactic   string
	NewState string
}

// Graph traces a search run: every state visited, every tactic tried,
// and the solution sequences found. Useful for post-hoc inspection; the
// search itself never reads it back.
type Graph struct {
	Nodes     map[string]*Node
	Solutions [][]string
	Root      string
}

func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

func (g *Graph) RecordNode(stateID string, goals []string, depth int) *Node {
	node, ok := g.Nodes[stateID]
	if !ok {
		node = &Node{StateID: stateID, Goals: goals, Depth: depth}
		g.Nodes[stateID] = node
		if depth == 0 && g.Root == "" {
			g.Root = stateID
		}
		return node
	}
	node.Goals = goals
	if depth < node.Depth {
		node.Depth = depth
	}
	return node
}

func (g *Graph) RecordAttempt(stateID, tactic string, newState string, success bool) {
	node, ok := g.Nodes[stateID]
	if !ok {
		node = &Node{StateID: stateID}
		g.Nodes[stateID] = node
	}
	node.TacticsTried = append(node.TacticsTried, tactic)
	if success {
		node.Successes = append(node.Successes, Edge{Tactic: tactic, NewState: newState})
	} else {
		node.Failures = append(node.Failures, tactic)
	}
}
