/*
Package cib is the only package in this module allowed to import
encoding/xml (SPEC_FULL.md §2): it decodes configuration_xml and
status_xml into a *types.WorkingSet and *constraints.Input, and encodes a
computed transition graph back to XML.

Decoding is tolerant by design (spec.md §7): an invalid score, an
unparsable rule or date, or a similar malformed element becomes a
diagnostic on the working set rather than a decode error, and the
offending element is skipped. Enumerated attribute values (no-quorum-policy,
node-health strategy, placement strategy, ticket loss-policy, roles,
resource-discovery) are taken as written and are not checked against a
recognized set here; an order's kind is checked later, by
pkg/constraints. The exceptions are the
handful of structural failures decoding itself cannot route around - an
unparsable XML document, a missing required root element - which are
returned as a Go error from Decode.

No XPath, tag-name string comparison, or XML type survives past this
package's boundary: everything downstream operates on pkg/types and
pkg/constraints values only (spec.md "XML interop at boundaries only").
*/
package cib
