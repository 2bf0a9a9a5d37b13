package transition

import "github.com/cuemby/pcmk-scheduler/pkg/types"

// GraphAction is one emitted transition-graph entry.
type GraphAction struct {
	ID             int
	ResourceID     string
	Task           types.Task
	Node           string
	IntervalMS     int
	TimeoutMS      int
	Priority       int
	Pseudo         bool
	MetaAttributes map[string]string
	Predecessors   []int
}

// Graph is the fully assembled transition, ready for pkg/cib to serialize.
type Graph struct {
	TransitionID string
	Actions      []GraphAction
}

// Assemble walks ws.Actions in deterministic (resource, task, interval)
// order and produces the emitted Graph, dropping any pseudo-action left
// with no predecessors and no successors once pkg/ordering has run, and
// any migration-mirror phantom stop/start action (pkg/actions.generateMigration,
// pkg/ordering.migrationOrders) - those exist only to give other ordering
// constraints something to key off of and are never meant to reach the
// executor.
func Assemble(ws *types.WorkingSet) *Graph {
	g := &Graph{TransitionID: ws.TransitionID}
	for _, key := range ws.SortedActionKeys() {
		a := ws.Actions[key]
		if a.HasFlag(types.FlagPseudo) && len(a.Predecessors) == 0 && len(a.Successors) == 0 {
			continue
		}
		if a.HasFlag(types.FlagPhantom) {
			continue
		}
		g.Actions = append(g.Actions, GraphAction{
			ID:             a.ID,
			ResourceID:     key.ResourceID,
			Task:           key.Task,
			Node:           a.Node,
			IntervalMS:     key.IntervalMS,
			TimeoutMS:      a.TimeoutMS,
			Priority:       a.Priority,
			Pseudo:         a.HasFlag(types.FlagPseudo),
			MetaAttributes: a.MetaAttributes,
			Predecessors:   a.Predecessors,
		})
	}
	return g
}
