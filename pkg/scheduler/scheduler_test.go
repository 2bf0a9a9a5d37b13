package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pcmk-scheduler/pkg/types"
	"github.com/cuemby/pcmk-scheduler/test/framework"
)

var fixedNow = time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)

func TestScheduleStartsAnUnallocatedResource(t *testing.T) {
	configXML, statusXML := framework.TwoNodeOneResource()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)
	require.NotNil(t, result.Graph)

	var started bool
	for _, a := range result.Graph.Actions {
		if a.ResourceID == "rsc1" && a.Task == types.TaskStart {
			started = true
			assert.Contains(t, []string{"node1", "node2"}, a.Node)
		}
	}
	assert.True(t, started, "expected a start action for rsc1")
}

func TestScheduleIsDeterministic(t *testing.T) {
	configXML, statusXML := framework.TwoNodeOneResource()

	first, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)
	second, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	firstXML, err := EncodeGraph(first)
	require.NoError(t, err)
	secondXML, err := EncodeGraph(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstXML), string(secondXML))
}

func TestScheduleRespectsLocationConstraint(t *testing.T) {
	configXML, statusXML := framework.LocationConstrained()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	for _, a := range result.Graph.Actions {
		if a.ResourceID == "rsc1" && a.Task == types.TaskStart {
			assert.Equal(t, "node1", a.Node)
		}
	}
}

func TestScheduleStopsUnmanagedRunningResource(t *testing.T) {
	configXML, statusXML := framework.RunningResourceToStop()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	var stopped bool
	for _, a := range result.Graph.Actions {
		if a.ResourceID == "rsc1" && a.Task == types.TaskStop {
			stopped = true
		}
	}
	assert.True(t, stopped, "expected a stop action for the unmanaged running resource")
}

func TestScheduleOrdersConstrainedPair(t *testing.T) {
	configXML, statusXML := framework.OrderedPair()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	var aStart, bStart *int
	for _, a := range result.Graph.Actions {
		switch {
		case a.ResourceID == "rsc-a" && a.Task == types.TaskStart:
			id := a.ID
			aStart = &id
		case a.ResourceID == "rsc-b" && a.Task == types.TaskStart:
			id := a.ID
			bStart = &id
		}
	}
	require.NotNil(t, aStart)
	require.NotNil(t, bStart)

	for _, a := range result.Graph.Actions {
		if a.ID == *bStart {
			assert.Contains(t, a.Predecessors, *aStart, "rsc-b start must wait on rsc-a start")
		}
	}
}

func TestScheduleAntiColocatesResourcePair(t *testing.T) {
	configXML, statusXML := framework.AntiColocatedPair()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	var aNode, bNode string
	for _, a := range result.Graph.Actions {
		switch {
		case a.ResourceID == "rsc-a" && a.Task == types.TaskStart:
			aNode = a.Node
		case a.ResourceID == "rsc-b" && a.Task == types.TaskStart:
			bNode = a.Node
		}
	}
	require.Equal(t, "node1", aNode, "rsc-a must land on node1 per its location constraint")
	if bNode != "" {
		assert.NotEqual(t, aNode, bNode, "rsc-b must never be started on the same node as rsc-a")
	}
}

func TestSchedulePromotesExactlyOneCloneInstance(t *testing.T) {
	configXML, statusXML := framework.PromotableClone()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	starts := map[string]bool{}
	promotes := 0
	for _, a := range result.Graph.Actions {
		switch a.Task {
		case types.TaskStart:
			starts[a.ResourceID] = true
		case types.TaskPromote:
			promotes++
		}
	}
	assert.True(t, starts["rsc1:1"], "the second clone instance must start on the second node")
	assert.Equal(t, 1, promotes, "promoted-max=1 must yield exactly one promote action")
}

func TestScheduleFencesUncleanNodeAndSuppressesDirectStop(t *testing.T) {
	configXML, statusXML := framework.UncleanNodeWithStonith()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	var fenced bool
	for _, a := range result.Graph.Actions {
		if a.Task == types.TaskFence && a.Node == "node2" {
			fenced = true
		}
		if a.ResourceID == "rsc1" && a.Task == types.TaskStop {
			t.Fatalf("rsc1's stop on the unclean node must be implied by fencing, not emitted directly")
		}
	}
	assert.True(t, fenced, "expected a fence action for the unclean node")
}

func TestScheduleFencesNodeOnTicketLossPolicy(t *testing.T) {
	configXML, statusXML := framework.TicketBoundFenceOnLoss()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)

	var fenced bool
	for _, a := range result.Graph.Actions {
		if a.Task == types.TaskFence && a.Node == "node1" {
			fenced = true
		}
		if a.ResourceID == "rsc1" && a.Task == types.TaskStart {
			t.Fatalf("rsc1 must not be (re)started while its ticket is ungranted")
		}
	}
	assert.True(t, fenced, "expected a fence action for the node running a resource whose ticket loss-policy is fence")
}

func TestScheduleComputesNextRecheck(t *testing.T) {
	configXML, statusXML := framework.TwoNodeOneResource()

	result, err := Schedule(configXML, statusXML, fixedNow)
	require.NoError(t, err)
	assert.True(t, result.NextRecheck.After(fixedNow))
}
