package cib

import (
	"encoding/xml"
	"sort"

	"github.com/cuemby/pcmk-scheduler/pkg/transition"
)

type xmlTransitionGraph struct {
	XMLName      xml.Name          `xml:"transition_graph"`
	TransitionID string            `xml:"transition_id,attr"`
	Synapses     []xmlSynapse      `xml:"synapse"`
}

type xmlSynapse struct {
	ID      int               `xml:"id,attr"`
	Action  xmlGraphAction    `xml:"action"`
	Inputs  []xmlSynapseInput `xml:"inputs>trigger,omitempty"`
}

type xmlSynapseInput struct {
	ActionID int `xml:"id,attr"`
}

type xmlGraphAction struct {
	ID             int             `xml:"id,attr"`
	ResourceID     string          `xml:"resource,attr"`
	Task           string          `xml:"task,attr"`
	Node           string          `xml:"on_node,attr,omitempty"`
	IntervalMS     int             `xml:"interval,attr,omitempty"`
	TimeoutMS      int             `xml:"timeout,attr,omitempty"`
	Priority       int             `xml:"priority,attr,omitempty"`
	Pseudo         bool            `xml:"pseudo,attr,omitempty"`
	Attributes     []xmlNVPair     `xml:"attributes>nvpair,omitempty"`
}

// EncodeGraph serializes an assembled transition graph into
// transition_graph_xml, one synapse per action keyed by its own action ID
// and listing every predecessor as a trigger input.
func EncodeGraph(g *transition.Graph) ([]byte, error) {
	doc := xmlTransitionGraph{TransitionID: g.TransitionID}
	for _, a := range g.Actions {
		synapse := xmlSynapse{
			ID: a.ID,
			Action: xmlGraphAction{
				ID:         a.ID,
				ResourceID: a.ResourceID,
				Task:       string(a.Task),
				Node:       a.Node,
				IntervalMS: a.IntervalMS,
				TimeoutMS:  a.TimeoutMS,
				Priority:   a.Priority,
				Pseudo:     a.Pseudo,
			},
		}
		for _, name := range sortedAttrNames(a.MetaAttributes) {
			synapse.Action.Attributes = append(synapse.Action.Attributes, xmlNVPair{Name: name, Value: a.MetaAttributes[name]})
		}
		preds := append([]int(nil), a.Predecessors...)
		sort.Ints(preds)
		for _, p := range preds {
			synapse.Inputs = append(synapse.Inputs, xmlSynapseInput{ActionID: p})
		}
		doc.Synapses = append(doc.Synapses, synapse)
	}
	return xml.MarshalIndent(doc, "", "  ")
}

func sortedAttrNames(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
