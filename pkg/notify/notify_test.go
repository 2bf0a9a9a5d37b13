package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/ordering"
	"github.com/cuemby/pcmk-scheduler/pkg/transition"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

func newResource(id string, notify bool) *types.Resource {
	return &types.Resource{
		ID:           id,
		Variant:      types.VariantPromotableClone,
		Flags:        types.ResourceFlags{Notify: notify, Managed: true},
		CurrentRole:  map[string]types.Role{},
		RunningOn:    nil,
		AllowedNodes: map[string]float64{},
	}
}

func TestGenerateSkipsResourcesWithoutNotifyFlag(t *testing.T) {
	ws := types.NewWorkingSet(time.Now())
	ws.Nodes["node1"] = &types.Node{ID: "node1", Online: true}
	r := newResource("rsc1", false)
	ws.Resources["rsc1"] = r
	ws.GetOrCreateAction(types.ActionKey{ResourceID: "rsc1", Task: types.TaskStart}, "node1")

	Generate(ws)

	for key := range ws.Actions {
		assert.NotEqual(t, types.TaskPseudoPreNotify, key.Task)
	}
}

func TestGenerateSkipsResourcesWithNoActionsThisPass(t *testing.T) {
	ws := types.NewWorkingSet(time.Now())
	ws.Nodes["node1"] = &types.Node{ID: "node1", Online: true}
	r := newResource("rsc1", true)
	ws.Resources["rsc1"] = r

	Generate(ws)

	assert.Empty(t, ws.Actions)
}

func TestGenerateCreatesPrePostNotifyActionsWithMetaAttributes(t *testing.T) {
	ws := types.NewWorkingSet(time.Now())
	ws.Nodes["node1"] = &types.Node{ID: "node1", Online: true}
	ws.Nodes["node2"] = &types.Node{ID: "node2", Online: true}

	r := newResource("rsc1", true)
	r.RunningOn = []string{"node1"}
	r.CurrentRole["node1"] = types.RoleStarted
	ws.Resources["rsc1"] = r

	ws.GetOrCreateAction(types.ActionKey{ResourceID: "rsc1", Task: types.TaskStart}, "node2")

	Generate(ws)

	pre, ok := ws.Actions[types.ActionKey{ResourceID: "rsc1", Task: types.TaskPseudoPreNotify}]
	require.True(t, ok)
	assert.True(t, pre.HasFlag(types.FlagPseudo))
	assert.True(t, pre.HasFlag(types.FlagRunnable))
	assert.Equal(t, "rsc1", pre.MetaAttributes["notify_start_resource"])
	assert.Equal(t, "node2", pre.MetaAttributes["notify_start_uname"])
	assert.Equal(t, "node1", pre.MetaAttributes["notify_active_uname"])

	post, ok := ws.Actions[types.ActionKey{ResourceID: "rsc1", Task: types.TaskPseudoPostNotify}]
	require.True(t, ok)
	assert.Equal(t, pre.MetaAttributes, post.MetaAttributes)
}

func TestGeneratedNotifyActionsSurviveOrderingAndAssembly(t *testing.T) {
	ws := types.NewWorkingSet(time.Now())
	ws.Nodes["node1"] = &types.Node{ID: "node1", Online: true}
	ws.Nodes["node2"] = &types.Node{ID: "node2", Online: true}

	r := newResource("rsc1", true)
	r.RunningOn = []string{"node1"}
	r.CurrentRole["node1"] = types.RoleStarted
	ws.Resources["rsc1"] = r

	ws.GetOrCreateAction(types.ActionKey{ResourceID: "rsc1", Task: types.TaskStart}, "node2")

	Generate(ws)
	require.NoError(t, ordering.Build(ws, &constraints.Set{}))
	graph := transition.Assemble(ws)

	tasks := map[types.Task]int{}
	for _, a := range graph.Actions {
		if a.ResourceID == "rsc1" {
			tasks[a.Task]++
		}
	}
	assert.Equal(t, 1, tasks[types.TaskPseudoPreNotify], "pre-notify pseudo-action must survive Assemble")
	assert.Equal(t, 1, tasks[types.TaskPseudoPreNotifyDone])
	assert.Equal(t, 1, tasks[types.TaskPseudoPostNotify])
	assert.Equal(t, 1, tasks[types.TaskPseudoPostNotifyDone])
	assert.Equal(t, 1, tasks[types.TaskStart])

	notifyCount := 0
	for _, a := range graph.Actions {
		if a.Task == types.TaskNotify {
			notifyCount++
		}
	}
	assert.Equal(t, 2, notifyCount, "pre-notify calls on both node1 (active) and node2 (start target) must survive")
}

func TestCompareSortsByResourceThenNodeWithMissingNodeLast(t *testing.T) {
	a := entry{resourceID: "r1", nodeID: ""}
	b := entry{resourceID: "r1", nodeID: "n1"}
	assert.False(t, compare(a, b)) // a (missing node) sorts after b
	assert.True(t, compare(b, a))
}

func TestCompareOrdersByResourceIDFirst(t *testing.T) {
	a := entry{resourceID: "r1", nodeID: "z"}
	b := entry{resourceID: "r2", nodeID: "a"}
	assert.True(t, compare(a, b))
}

func TestSortEntriesDeduplicates(t *testing.T) {
	in := []entry{
		{resourceID: "r1", nodeID: "n1"},
		{resourceID: "r1", nodeID: "n1"},
		{resourceID: "r1", nodeID: "n2"},
	}
	out := sortEntries(in)
	assert.Len(t, out, 2)
}

func TestFormatListJoinsSortedFields(t *testing.T) {
	in := []entry{
		{resourceID: "r1", nodeID: "n2"},
		{resourceID: "r1", nodeID: "n1"},
	}
	assert.Equal(t, "n1 n2", formatList(in, nodeField))
}
