package query

import "fmt"

// Condition is one WHERE predicate. SQL renders it using param as the name of
// its bind parameter, if it needs one, and returns the value to bind.
type Condition interface {
	SQL(param string) (fragment string, value any, binds bool)
}

type comparison struct {
	field string
	op    string
	value any
}

// Eq matches rows where field = value.
func Eq(field string, value any) Condition {
	return comparison{field: field, op: "=", value: value}
}

// Ne matches rows where field != value.
func Ne(field string, value any) Condition {
	return comparison{field: field, op: "!=", value: value}
}

func (c comparison) SQL(param string) (string, any, bool) {
	return fmt.Sprintf("%s %s @%s", c.field, c.op, param), c.value, true
}

type nullCheck struct {
	field string
	not   bool
}

// IsNull matches rows where field is NULL.
func IsNull(field string) Condition {
	return nullCheck{field: field}
}

// IsNotNull matches rows where field is not NULL.
func IsNotNull(field string) Condition {
	return nullCheck{field: field, not: true}
}

func (c nullCheck) SQL(string) (string, any, bool) {
	if c.not {
		return c.field + " IS NOT NULL", nil, false
	}
	return c.field + " IS NULL", nil, false
}
