package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)

func TestAttributeExpressionEvaluateAttrs(t *testing.T) {
	attrs := map[string]string{"role": "primary", "weight": "10"}

	assert.True(t, AttributeExpression{Attribute: "role", Operation: AttrDefined}.EvaluateAttrs(attrs))
	assert.False(t, AttributeExpression{Attribute: "missing", Operation: AttrDefined}.EvaluateAttrs(attrs))
	assert.True(t, AttributeExpression{Attribute: "missing", Operation: AttrNotDefined}.EvaluateAttrs(attrs))

	assert.True(t, AttributeExpression{Attribute: "role", Operation: AttrEq, Value: "primary"}.EvaluateAttrs(attrs))
	assert.True(t, AttributeExpression{Attribute: "role", Operation: AttrNe, Value: "backup"}.EvaluateAttrs(attrs))

	assert.True(t, AttributeExpression{Attribute: "weight", Operation: AttrGt, Value: "5", Type: AttrTypeInteger}.EvaluateAttrs(attrs))
	assert.False(t, AttributeExpression{Attribute: "weight", Operation: AttrLt, Value: "5", Type: AttrTypeInteger}.EvaluateAttrs(attrs))
}

func TestAttributeExpressionUndefinedIsAlwaysFalseExceptNotDefined(t *testing.T) {
	attrs := map[string]string{}
	assert.False(t, AttributeExpression{Attribute: "x", Operation: AttrEq, Value: "y"}.EvaluateAttrs(attrs))
	assert.True(t, AttributeExpression{Attribute: "x", Operation: AttrNotDefined}.EvaluateAttrs(attrs))
}

func TestCompareVersionTreatsMissingTrailingComponentsAsZero(t *testing.T) {
	assert.Equal(t, 0, compareVersion("1.2", "1.2.0"))
	assert.Equal(t, -1, compareVersion("1.2", "1.3"))
	assert.Equal(t, 1, compareVersion("2.0", "1.9.9"))
}

func TestDateExpressionLt(t *testing.T) {
	end := fixedNow.Add(time.Hour)
	ok, next := DateExpression{Operation: DateLt, End: &end}.Evaluate(fixedNow, nil)
	assert.True(t, ok)
	assert.Equal(t, end, *next)

	past := fixedNow.Add(-time.Hour)
	ok, next = DateExpression{Operation: DateLt, End: &past}.Evaluate(fixedNow, nil)
	assert.False(t, ok)
	assert.Nil(t, next)
}

func TestDateExpressionGt(t *testing.T) {
	start := fixedNow.Add(-time.Hour)
	ok, next := DateExpression{Operation: DateGt, Start: &start}.Evaluate(fixedNow, nil)
	assert.True(t, ok)
	assert.Nil(t, next)

	future := fixedNow.Add(time.Hour)
	ok, next = DateExpression{Operation: DateGt, Start: &future}.Evaluate(fixedNow, nil)
	assert.False(t, ok)
	assert.Equal(t, future, *next)
}

func TestDateExpressionInRangeBeforeWindow(t *testing.T) {
	start := fixedNow.Add(time.Hour)
	end := fixedNow.Add(2 * time.Hour)
	ok, next := DateExpression{Operation: DateInRange, Start: &start, End: &end}.Evaluate(fixedNow, nil)
	assert.False(t, ok)
	assert.Equal(t, start, *next)
}

func TestDateExpressionInRangeInsideWindow(t *testing.T) {
	start := fixedNow.Add(-time.Hour)
	end := fixedNow.Add(time.Hour)
	ok, next := DateExpression{Operation: DateInRange, Start: &start, End: &end}.Evaluate(fixedNow, nil)
	assert.True(t, ok)
	assert.Equal(t, end, *next)
}

func TestDateExpressionInRangeAfterWindow(t *testing.T) {
	start := fixedNow.Add(-2 * time.Hour)
	end := fixedNow.Add(-time.Hour)
	ok, next := DateExpression{Operation: DateInRange, Start: &start, End: &end}.Evaluate(fixedNow, nil)
	assert.False(t, ok)
	assert.Nil(t, next)
}

func TestRuleAndRequiresAllChildrenTrue(t *testing.T) {
	attrs := map[string]string{"role": "primary"}
	r := &Rule{
		BooleanOp: BooleanAnd,
		Expressions: []Expression{
			{Attr: &AttributeExpression{Attribute: "role", Operation: AttrEq, Value: "primary"}},
			{Attr: &AttributeExpression{Attribute: "role", Operation: AttrNe, Value: "backup"}},
		},
	}
	ok, _ := r.Evaluate(fixedNow, attrs)
	assert.True(t, ok)

	r.Expressions[1].Attr.Value = "primary" // now Ne check fails
	ok, _ = r.Evaluate(fixedNow, attrs)
	assert.False(t, ok)
}

func TestRuleOrRequiresAnyChildTrue(t *testing.T) {
	attrs := map[string]string{"role": "backup"}
	r := &Rule{
		BooleanOp: BooleanOr,
		Expressions: []Expression{
			{Attr: &AttributeExpression{Attribute: "role", Operation: AttrEq, Value: "primary"}},
			{Attr: &AttributeExpression{Attribute: "role", Operation: AttrEq, Value: "backup"}},
		},
	}
	ok, _ := r.Evaluate(fixedNow, attrs)
	assert.True(t, ok)
}

func TestRuleEmptyRuleIsTrue(t *testing.T) {
	r := &Rule{}
	ok, next := r.Evaluate(fixedNow, nil)
	assert.True(t, ok)
	assert.Nil(t, next)
}

func TestRuleEvaluatesAllChildrenWithoutShortCircuit(t *testing.T) {
	end := fixedNow.Add(30 * time.Minute)
	r := &Rule{
		BooleanOp: BooleanAnd,
		Expressions: []Expression{
			{Attr: &AttributeExpression{Attribute: "missing", Operation: AttrDefined}}, // false, no hint
			{Date: &DateExpression{Operation: DateLt, End: &end}},                      // true, hint=end
		},
	}
	ok, next := r.Evaluate(fixedNow, nil)
	assert.False(t, ok)
	// Even though the AND is already false, the date hint must still surface.
	assert.Equal(t, end, *next)
}

func TestRuleNestedSubRules(t *testing.T) {
	inner := &Rule{
		BooleanOp:   BooleanOr,
		Expressions: []Expression{{Attr: &AttributeExpression{Attribute: "x", Operation: AttrDefined}}},
	}
	outer := &Rule{
		BooleanOp: BooleanAnd,
		SubRules:  []*Rule{inner},
	}
	ok, _ := outer.Evaluate(fixedNow, map[string]string{"x": "1"})
	assert.True(t, ok)
	ok, _ = outer.Evaluate(fixedNow, map[string]string{})
	assert.False(t, ok)
}

func TestNextRecheckDiscardsPastAndNilHints(t *testing.T) {
	past := fixedNow.Add(-time.Minute)
	future1 := fixedNow.Add(time.Hour)
	future2 := fixedNow.Add(30 * time.Minute)

	got := NextRecheck(fixedNow, nil, &past, &future1, &future2)
	assert.Equal(t, future2, *got)
}

func TestNextRecheckReturnsNilWhenNoFutureHints(t *testing.T) {
	past := fixedNow.Add(-time.Minute)
	got := NextRecheck(fixedNow, nil, &past)
	assert.Nil(t, got)
}
