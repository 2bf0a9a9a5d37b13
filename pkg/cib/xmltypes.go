package cib

import "encoding/xml"

// The types in this file mirror the CIB configuration schema closely
// enough to decode real Pacemaker configuration_xml documents, trimmed to
// the elements and attributes this scheduler consults.

type xmlCIB struct {
	XMLName       xml.Name            `xml:"cib"`
	Configuration xmlConfigurationTag `xml:"configuration"`
}

type xmlConfigurationTag struct {
	CRMConfig   xmlCRMConfig   `xml:"crm_config"`
	Nodes       []xmlNode      `xml:"nodes>node"`
	Resources   xmlResources   `xml:"resources"`
	Constraints xmlConstraints `xml:"constraints"`
	Tags        []xmlTag       `xml:"tags>tag"`
	Tickets     []xmlTicketDef `xml:"tickets>ticket_state"`
}

type xmlCRMConfig struct {
	ClusterPropertySets []xmlNVSet `xml:"cluster_property_set"`
}

type xmlNVSet struct {
	ID    string  `xml:"id,attr"`
	Rule  *xmlRule `xml:"rule"`
	NVPairs []xmlNVPair `xml:"nvpair"`
}

type xmlNVPair struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlNode struct {
	ID         string     `xml:"id,attr"`
	Uname      string     `xml:"uname,attr"`
	Type       string     `xml:"type,attr"` // "member", "remote", "guest"
	InstanceAttributes []xmlNVSet `xml:"instance_attributes"`
	Utilization        []xmlNVSet `xml:"utilization"`
}

type xmlTag struct {
	ID   string          `xml:"id,attr"`
	Objs []xmlObjectRef  `xml:"obj_ref"`
}

type xmlObjectRef struct {
	ID string `xml:"id,attr"`
}

type xmlTicketDef struct {
	ID      string `xml:"id,attr"`
	Granted bool   `xml:"granted,attr"`
	Standby bool   `xml:"standby,attr"`
}

type xmlResources struct {
	Primitives []xmlPrimitive `xml:"primitive"`
	Groups     []xmlGroup     `xml:"group"`
	Clones     []xmlClone     `xml:"clone"`
	Bundles    []xmlBundle    `xml:"bundle"`
}

type xmlPrimitive struct {
	ID                 string      `xml:"id,attr"`
	Class              string      `xml:"class,attr"`
	Provider           string      `xml:"provider,attr"`
	Type               string      `xml:"type,attr"`
	Template           string      `xml:"template,attr"`
	MetaAttributes     []xmlNVSet  `xml:"meta_attributes"`
	InstanceAttributes []xmlNVSet  `xml:"instance_attributes"`
	Operations         []xmlOp     `xml:"operations>op"`
}

type xmlOp struct {
	ID         string `xml:"id,attr"`
	Name       string `xml:"name,attr"`
	Role       string `xml:"role,attr"`
	Interval   string `xml:"interval,attr"`
	Timeout    string `xml:"timeout,attr"`
}

type xmlGroup struct {
	ID             string         `xml:"id,attr"`
	MetaAttributes []xmlNVSet     `xml:"meta_attributes"`
	Primitives     []xmlPrimitive `xml:"primitive"`
}

type xmlClone struct {
	ID             string         `xml:"id,attr"`
	MetaAttributes []xmlNVSet     `xml:"meta_attributes"`
	Primitive      *xmlPrimitive  `xml:"primitive"`
	Group          *xmlGroup      `xml:"group"`
}

type xmlBundle struct {
	ID             string     `xml:"id,attr"`
	MetaAttributes []xmlNVSet `xml:"meta_attributes"`
	Primitive      *xmlPrimitive `xml:"primitive"`
}

type xmlRule struct {
	ID            string          `xml:"id,attr"`
	BooleanOp     string          `xml:"boolean-op,attr"`
	Score         string          `xml:"score,attr"`
	ScoreAttribute string         `xml:"score-attribute,attr"`
	DateExprs     []xmlDateExpr   `xml:"date_expression"`
	Expressions   []xmlExpression `xml:"expression"`
	SubRules      []xmlRule       `xml:"rule"`
}

type xmlExpression struct {
	ID        string `xml:"id,attr"`
	Attribute string `xml:"attribute,attr"`
	Operation string `xml:"operation,attr"`
	Value     string `xml:"value,attr"`
	Type      string `xml:"type,attr"`
}

type xmlDateExpr struct {
	ID        string       `xml:"id,attr"`
	Operation string       `xml:"operation,attr"`
	Start     string       `xml:"start,attr"`
	End       string       `xml:"end,attr"`
	Spec      *xmlDateSpec `xml:"date_spec"`
}

type xmlDateSpec struct {
	Years    string `xml:"years,attr"`
	Months   string `xml:"months,attr"`
	Weekdays string `xml:"weekdays,attr"`
	Hours    string `xml:"hours,attr"`
}

type xmlConstraints struct {
	Locations   []xmlLocation   `xml:"rsc_location"`
	Colocations []xmlColocation `xml:"rsc_colocation"`
	Orders      []xmlOrder      `xml:"rsc_order"`
	Tickets     []xmlRscTicket  `xml:"rsc_ticket"`
}

type xmlLocation struct {
	ID        string    `xml:"id,attr"`
	RSC       string    `xml:"rsc,attr"`
	Node      string    `xml:"node,attr"`
	Score     string    `xml:"score,attr"`
	Role      string    `xml:"role,attr"`
	Resources string    `xml:"resource-discovery,attr"`
	Rules     []xmlRule `xml:"rule"`
}

type xmlColocation struct {
	ID            string         `xml:"id,attr"`
	RSC           string         `xml:"rsc,attr"`
	WithRSC       string         `xml:"with-rsc,attr"`
	Score         string         `xml:"score,attr"`
	RSCRole       string         `xml:"rsc-role,attr"`
	WithRSCRole   string         `xml:"with-rsc-role,attr"`
	NodeAttribute string         `xml:"node-attribute,attr"`
	Influence     string         `xml:"influence,attr"`
	ResourceSets  []xmlResourceSet `xml:"resource_set"`
}

type xmlOrder struct {
	ID            string           `xml:"id,attr"`
	First         string           `xml:"first,attr"`
	FirstAction   string           `xml:"first-action,attr"`
	Then          string           `xml:"then,attr"`
	ThenAction    string           `xml:"then-action,attr"`
	Kind          string           `xml:"kind,attr"`
	Score         string           `xml:"score,attr"`
	Symmetrical   string           `xml:"symmetrical,attr"`
	ResourceSets  []xmlResourceSet `xml:"resource_set"`
}

type xmlResourceSet struct {
	ID         string         `xml:"id,attr"`
	Sequential string         `xml:"sequential,attr"`
	RequireAll string         `xml:"require-all,attr"`
	Role       string         `xml:"role,attr"`
	Refs       []xmlObjectRef `xml:"resource_ref"`
}

type xmlRscTicket struct {
	ID         string `xml:"id,attr"`
	RSC        string `xml:"rsc,attr"`
	Ticket     string `xml:"ticket,attr"`
	RSCRole    string `xml:"rsc-role,attr"`
	LossPolicy string `xml:"loss-policy,attr"`
}

// --- status ---

type xmlStatus struct {
	XMLName   xml.Name        `xml:"status"`
	NodeState []xmlNodeState  `xml:"node_state"`
}

type xmlNodeState struct {
	ID           string          `xml:"id,attr"`
	Uname        string          `xml:"uname,attr"`
	InCCM        string          `xml:"in_ccm,attr"`
	Crmd         string          `xml:"crmd,attr"`
	Join         string          `xml:"join,attr"`
	Standby      string          `xml:"standby,attr"`
	Maintenance  string          `xml:"maintenance,attr"`
	Shutdown     string          `xml:"shutdown,attr"`
	Unclean      string          `xml:"unclean,attr"`
	TransientAttributes []xmlNVSet `xml:"transient_attributes>instance_attributes"`
	LRM          xmlLRM          `xml:"lrm"`
}

type xmlLRM struct {
	Resources []xmlLRMResource `xml:"lrm_resources>lrm_resource"`
}

type xmlLRMResource struct {
	ID  string       `xml:"id,attr"`
	Ops []xmlLRMRscOp `xml:"lrm_rsc_op"`
}

type xmlLRMRscOp struct {
	ID         string `xml:"id,attr"`
	Operation  string `xml:"operation,attr"`
	Interval   string `xml:"interval,attr"`
	CallID     string `xml:"call-id,attr"`
	RC         string `xml:"rc-code,attr"`
	OpStatus   string `xml:"op-status,attr"`
}
