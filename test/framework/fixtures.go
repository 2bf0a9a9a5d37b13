// Package framework builds minimal but well-formed configuration_xml and
// status_xml fixtures for scheduler tests, in the shape pkg/cib decodes.
package framework

// TwoNodeOneResource returns a fixture with two online cluster nodes and a
// single managed primitive resource, allowed to run anywhere, not
// currently running - the smallest input that exercises the full
// placement-to-graph pipeline.
func TwoNodeOneResource() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="false"/>
        <nvpair id="opt-quorum" name="no-quorum-policy" value="stop"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
      <node id="node2" uname="node2" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc1" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="rsc1-meta">
          <nvpair id="rsc1-managed" name="is-managed" value="true"/>
        </meta_attributes>
        <operations>
          <op id="rsc1-monitor" name="monitor" interval="10s" timeout="20s"/>
        </operations>
      </primitive>
    </resources>
    <constraints/>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online"/>
  <node_state id="node2" uname="node2" in_ccm="true" crmd="online"/>
</status>`)
	return configurationXML, statusXML
}

// LocationConstrained returns a fixture with two nodes and one resource
// pinned to node1 via a location constraint with score 100.
func LocationConstrained() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="false"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
      <node id="node2" uname="node2" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc1" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="rsc1-meta">
          <nvpair id="rsc1-managed" name="is-managed" value="true"/>
        </meta_attributes>
      </primitive>
    </resources>
    <constraints>
      <rsc_location id="loc1" rsc="rsc1" node="node1" score="100"/>
    </constraints>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online"/>
  <node_state id="node2" uname="node2" in_ccm="true" crmd="online"/>
</status>`)
	return configurationXML, statusXML
}

// RunningResourceToStop returns a fixture where rsc1 is currently running
// on node1 but is no longer managed, so the expected transition is a stop.
func RunningResourceToStop() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="false"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc1" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="rsc1-meta">
          <nvpair id="rsc1-managed" name="is-managed" value="false"/>
        </meta_attributes>
      </primitive>
    </resources>
    <constraints/>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online">
    <lrm>
      <lrm_resources>
        <lrm_resource id="rsc1">
          <lrm_rsc_op id="rsc1_start_0" operation="start" interval="0" call-id="2" rc-code="0" op-status="0"/>
        </lrm_resource>
      </lrm_resources>
    </lrm>
  </node_state>
</status>`)
	return configurationXML, statusXML
}

// AntiColocatedPair returns a fixture with two resources bound by a
// -INFINITY colocation (rsc-b must never run where rsc-a runs) and a
// location constraint pinning rsc-a to node1, so the allocator has to push
// rsc-b onto node2 or leave it stopped if no other node qualifies.
func AntiColocatedPair() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="false"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
      <node id="node2" uname="node2" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc-a" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="a-meta"><nvpair id="a-managed" name="is-managed" value="true"/></meta_attributes>
      </primitive>
      <primitive id="rsc-b" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="b-meta"><nvpair id="b-managed" name="is-managed" value="true"/></meta_attributes>
      </primitive>
    </resources>
    <constraints>
      <rsc_location id="loc-a" rsc="rsc-a" node="node1" score="100"/>
      <rsc_colocation id="anti1" rsc="rsc-b" with-rsc="rsc-a" score="-INFINITY"/>
    </constraints>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online"/>
  <node_state id="node2" uname="node2" in_ccm="true" crmd="online"/>
</status>`)
	return configurationXML, statusXML
}

// PromotableClone returns a fixture with a two-instance promotable clone
// (clone-max=2, clone-node-max=1, promoted-max=1) across two nodes, with
// one instance already running (unpromoted) on node1 per status - the
// scheduler is expected to start the second instance on node2 and promote
// exactly one of the two.
func PromotableClone() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="false"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
      <node id="node2" uname="node2" type="member"/>
    </nodes>
    <resources>
      <clone id="clone1">
        <meta_attributes id="clone1-meta">
          <nvpair id="clone1-promotable" name="promotable" value="true"/>
          <nvpair id="clone1-max" name="clone-max" value="2"/>
          <nvpair id="clone1-node-max" name="clone-node-max" value="1"/>
          <nvpair id="clone1-promoted-max" name="promoted-max" value="1"/>
        </meta_attributes>
        <primitive id="rsc1" class="ocf" provider="pacemaker" type="Stateful">
          <meta_attributes id="rsc1-meta">
            <nvpair id="rsc1-managed" name="is-managed" value="true"/>
          </meta_attributes>
          <operations>
            <op id="rsc1-monitor" name="monitor" interval="10s" timeout="20s" role="Unpromoted"/>
            <op id="rsc1-monitor-master" name="monitor" interval="5s" timeout="20s" role="Promoted"/>
          </operations>
        </primitive>
      </clone>
    </resources>
    <constraints/>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online">
    <lrm>
      <lrm_resources>
        <lrm_resource id="rsc1">
          <lrm_rsc_op id="rsc1_start_0" operation="start" interval="0" call-id="2" rc-code="0" op-status="0"/>
        </lrm_resource>
      </lrm_resources>
    </lrm>
  </node_state>
  <node_state id="node2" uname="node2" in_ccm="true" crmd="online"/>
</status>`)
	return configurationXML, statusXML
}

// UncleanNodeWithStonith returns a fixture with a single, unclean node
// hosting rsc1 per status and stonith enabled - with nowhere else to
// place rsc1, the scheduler is expected to fence the node rather than
// leave rsc1's stop as an ordinary, un-implied action.
func UncleanNodeWithStonith() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="true"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node2" uname="node2" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc1" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="rsc1-meta">
          <nvpair id="rsc1-managed" name="is-managed" value="true"/>
        </meta_attributes>
      </primitive>
    </resources>
    <constraints/>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node2" uname="node2" in_ccm="true" crmd="online" unclean="true">
    <lrm>
      <lrm_resources>
        <lrm_resource id="rsc1">
          <lrm_rsc_op id="rsc1_start_0" operation="start" interval="0" call-id="2" rc-code="0" op-status="0"/>
        </lrm_resource>
      </lrm_resources>
    </lrm>
  </node_state>
</status>`)
	return configurationXML, statusXML
}

// TicketBoundFenceOnLoss returns a fixture where rsc1 is bound to a ticket
// that is not granted with loss-policy "fence", while rsc1 is currently
// running on node1 per status - the scheduler is expected to stop trying
// to run rsc1 there and fence node1 instead of issuing a plain stop.
func TicketBoundFenceOnLoss() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="true"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc1" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="rsc1-meta">
          <nvpair id="rsc1-managed" name="is-managed" value="true"/>
        </meta_attributes>
      </primitive>
    </resources>
    <constraints>
      <rsc_ticket id="rt1" rsc="rsc1" ticket="ticketA" loss-policy="fence"/>
    </constraints>
    <tickets>
      <ticket_state id="ticketA" granted="false"/>
    </tickets>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online">
    <lrm>
      <lrm_resources>
        <lrm_resource id="rsc1">
          <lrm_rsc_op id="rsc1_start_0" operation="start" interval="0" call-id="2" rc-code="0" op-status="0"/>
        </lrm_resource>
      </lrm_resources>
    </lrm>
  </node_state>
</status>`)
	return configurationXML, statusXML
}

// OrderedPair returns a fixture with two resources joined by a mandatory
// start-before-start ordering constraint: rsc-a must start before rsc-b.
func OrderedPair() (configurationXML, statusXML []byte) {
	configurationXML = []byte(`<cib>
  <configuration>
    <crm_config>
      <cluster_property_set id="cib-bootstrap-options">
        <nvpair id="opt-stonith" name="stonith-enabled" value="false"/>
      </cluster_property_set>
    </crm_config>
    <nodes>
      <node id="node1" uname="node1" type="member"/>
    </nodes>
    <resources>
      <primitive id="rsc-a" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="a-meta"><nvpair id="a-managed" name="is-managed" value="true"/></meta_attributes>
      </primitive>
      <primitive id="rsc-b" class="ocf" provider="pacemaker" type="Dummy">
        <meta_attributes id="b-meta"><nvpair id="b-managed" name="is-managed" value="true"/></meta_attributes>
      </primitive>
    </resources>
    <constraints>
      <rsc_order id="order1" first="rsc-a" first-action="start" then="rsc-b" then-action="start" kind="Mandatory"/>
    </constraints>
  </configuration>
</cib>`)

	statusXML = []byte(`<status>
  <node_state id="node1" uname="node1" in_ccm="true" crmd="online"/>
</status>`)
	return configurationXML, statusXML
}
