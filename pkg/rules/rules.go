package rules

import (
	"strconv"
	"time"
)

// BooleanOp combines a rule's child expressions and sub-rules.
type BooleanOp string

const (
	BooleanAnd BooleanOp = "and"
	BooleanOr  BooleanOp = "or"
)

// AttrType controls how AttributeExpression compares its operand.
type AttrType string

const (
	AttrTypeString  AttrType = "string"
	AttrTypeInteger AttrType = "integer"
	AttrTypeNumber  AttrType = "number"
	AttrTypeVersion AttrType = "version"
)

// AttrOperation is the comparison an AttributeExpression performs.
type AttrOperation string

const (
	AttrDefined    AttrOperation = "defined"
	AttrNotDefined AttrOperation = "not_defined"
	AttrEq         AttrOperation = "eq"
	AttrNe         AttrOperation = "ne"
	AttrLt         AttrOperation = "lt"
	AttrLte        AttrOperation = "lte"
	AttrGt         AttrOperation = "gt"
	AttrGte        AttrOperation = "gte"
)

// AttributeExpression compares a node attribute against a literal value.
// Node attribute comparisons never change with wall-clock time, so they
// never contribute a next-recheck hint.
type AttributeExpression struct {
	Attribute string
	Operation AttrOperation
	Value     string
	Type      AttrType
}

// Evaluate reports whether the expression holds for the given attribute
// set. AttributeExpression never contributes a next-recheck time.
func (e AttributeExpression) Evaluate(_ time.Time, attrs map[string]string) (bool, *time.Time) {
	return e.EvaluateAttrs(attrs), nil
}

// EvaluateAttrs is the attribute-aware half of Evaluate; Rule.Evaluate
// calls it directly with the node's attribute map, since attribute truth
// does not depend on "now".
func (e AttributeExpression) EvaluateAttrs(attrs map[string]string) bool {
	val, defined := attrs[e.Attribute]
	switch e.Operation {
	case AttrDefined:
		return defined
	case AttrNotDefined:
		return !defined
	}
	if !defined {
		return false
	}
	cmp := compareTyped(val, e.Value, e.Type)
	switch e.Operation {
	case AttrEq:
		return cmp == 0
	case AttrNe:
		return cmp != 0
	case AttrLt:
		return cmp < 0
	case AttrLte:
		return cmp <= 0
	case AttrGt:
		return cmp > 0
	case AttrGte:
		return cmp >= 0
	default:
		return false
	}
}

// compareTyped returns -1/0/1 comparing a to b under the given type. Type
// mismatches or unparsable operands fall back to string comparison so an
// expression never panics on malformed CIB content; the fallback records
// no diagnostic.
func compareTyped(a, b string, t AttrType) int {
	switch t {
	case AttrTypeInteger:
		ai, aerr := strconv.ParseInt(a, 10, 64)
		bi, berr := strconv.ParseInt(b, 10, 64)
		if aerr == nil && berr == nil {
			return cmpInt64(ai, bi)
		}
	case AttrTypeNumber:
		af, aerr := strconv.ParseFloat(a, 64)
		bf, berr := strconv.ParseFloat(b, 64)
		if aerr == nil && berr == nil {
			return cmpFloat64(af, bf)
		}
	case AttrTypeVersion:
		return compareVersion(a, b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareVersion compares dotted-integer version strings component by
// component, treating a missing trailing component as 0 (so "1.2" == "1.2.0").
func compareVersion(a, b string) int {
	as, bs := splitVersion(a), splitVersion(b)
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int64
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if c := cmpInt64(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

func splitVersion(v string) []int64 {
	var out []int64
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == '.' {
			if i > start {
				n, err := strconv.ParseInt(v[start:i], 10, 64)
				if err == nil {
					out = append(out, n)
				}
			}
			start = i + 1
		}
	}
	return out
}

// DateOperation is the comparison a DateExpression performs.
type DateOperation string

const (
	DateLt      DateOperation = "lt"
	DateGt      DateOperation = "gt"
	DateInRange DateOperation = "in_range"
)

// DateExpression compares "now" against absolute start/end boundaries.
// Unlike AttributeExpression, its truth value is a function of time alone
// and so it is the source of every meaningful next-recheck hint.
type DateExpression struct {
	Operation DateOperation
	Start     *time.Time
	End       *time.Time
	// Spec, when non-nil, additionally restricts the expression to a
	// recurring calendar window (date_spec); see DateSpec.
	Spec *DateSpec
}

// DateSpec models a recurring calendar window: a CIB date_spec element.
// A component is "unrestricted" when its slice is empty.
type DateSpec struct {
	Years    []int // e.g. 2024
	Months   []int // 1-12
	Weekdays []int // 1 (Monday) - 7 (Sunday), ISO 8601
	Hours    []int // 0-23
}

// Evaluate reports whether now falls within the expression's window, and
// if not (or if it does but the window closes), the earliest future
// instant at which that would change.
func (e DateExpression) Evaluate(now time.Time, _ map[string]string) (bool, *time.Time) {
	switch e.Operation {
	case DateLt:
		if e.End == nil {
			return false, nil
		}
		if now.Before(*e.End) {
			end := *e.End
			return true, &end
		}
		return false, nil
	case DateGt:
		if e.Start == nil {
			return false, nil
		}
		if now.After(*e.Start) {
			return true, nil
		}
		start := *e.Start
		return false, &start
	case DateInRange:
		return e.evaluateRange(now)
	default:
		return false, nil
	}
}

func (e DateExpression) evaluateRange(now time.Time) (bool, *time.Time) {
	inBounds := true
	var next *time.Time

	if e.Start != nil && now.Before(*e.Start) {
		inBounds = false
		start := *e.Start
		next = &start
	}
	if e.End != nil {
		if now.After(*e.End) {
			inBounds = false
		} else if inBounds {
			end := *e.End
			next = earlier(next, &end)
		}
	}
	if !inBounds {
		return false, next
	}

	if e.Spec != nil {
		specOK, specNext := e.Spec.evaluate(now)
		if !specOK {
			return false, specNext
		}
		next = earlier(next, specNext)
	}
	return true, next
}

// evaluate reports whether now matches the recurring window, and the
// earliest future boundary at which the match would change. The
// implementation only resolves the hour-of-day boundary precisely (the
// common case for maintenance windows); year/month/weekday restrictions
// are checked for membership but do not sharpen the next-recheck hint
// beyond "check again at the next hour boundary", which is always a safe
// (if occasionally over-eager) upper bound.
func (d DateSpec) evaluate(now time.Time) (bool, *time.Time) {
	ok := matches(d.Years, now.Year()) &&
		matches(d.Months, int(now.Month())) &&
		matches(d.Weekdays, isoWeekday(now)) &&
		matches(d.Hours, now.Hour())

	var next *time.Time
	if len(d.Hours) > 0 || len(d.Weekdays) > 0 || len(d.Months) > 0 || len(d.Years) > 0 {
		boundary := now.Truncate(time.Hour).Add(time.Hour)
		next = &boundary
	}
	return ok, next
}

func matches(allowed []int, v int) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func earlier(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Before(*a) {
		return b
	}
	return a
}

// Expression is anything a Rule can combine: a DateExpression or an
// AttributeExpression wrapped so Rule.Evaluate can treat both uniformly
// for the time-only half of evaluation. Attribute truth is resolved
// separately by AttributeExpression.EvaluateAttrs, since it additionally
// needs a node's attribute map.
type Expression struct {
	Date *DateExpression
	Attr *AttributeExpression
}

// Rule is a boolean combination of expressions and nested rules,
// evaluated against a target time and a node's attribute set.
type Rule struct {
	ID         string
	BooleanOp  BooleanOp
	Expressions []Expression
	SubRules   []*Rule
}

// Evaluate reports the rule's truth value for (now, attrs) and the
// earliest future time at which that value could change. All children are
// evaluated unconditionally (no short-circuit) so that a next-recheck
// hint is never lost to boolean short-circuiting - see spec.md invariant
// 8.
func (r *Rule) Evaluate(now time.Time, attrs map[string]string) (bool, *time.Time) {
	op := r.BooleanOp
	if op == "" {
		op = BooleanAnd
	}

	var next *time.Time
	result := op == BooleanAnd // AND starts true, OR starts false

	combine := func(v bool, n *time.Time) {
		next = earlier(next, n)
		if op == BooleanAnd {
			result = result && v
		} else {
			result = result || v
		}
	}

	for _, expr := range r.Expressions {
		switch {
		case expr.Date != nil:
			v, n := expr.Date.Evaluate(now, attrs)
			combine(v, n)
		case expr.Attr != nil:
			v := expr.Attr.EvaluateAttrs(attrs)
			combine(v, nil)
		}
	}
	for _, sub := range r.SubRules {
		v, n := sub.Evaluate(now, attrs)
		combine(v, n)
	}

	if len(r.Expressions) == 0 && len(r.SubRules) == 0 {
		result = true
	}
	return result, next
}

// NextRecheck folds a set of rules' next-change hints into a single
// earliest-future-time value, as required for the cluster-wide
// next_recheck_epoch output (spec.md invariant 8 and §6). Hints at or
// before now are discarded: a boundary already passed contributes nothing
// further to "next" recheck.
func NextRecheck(now time.Time, hints ...*time.Time) *time.Time {
	var best *time.Time
	for _, h := range hints {
		if h == nil || !h.After(now) {
			continue
		}
		best = earlier(best, h)
	}
	return best
}
