package query

import (
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Builder constructs SELECT statements for Cloud Spanner. Every method returns
// a new Builder, so partial queries can be shared. Bind parameters are named
// p0, p1, ... in the order conditions were added.
type Builder struct {
	table   string
	columns []string
	where   []Condition
	orderBy string
	dir     Direction
	limit   int64
}

// From starts a query on table.
func From(table string) Builder {
	return Builder{table: table}
}

// Select appends columns to the projection. Without any, all columns are selected.
func (b Builder) Select(columns ...string) Builder {
	b.columns = append(slices.Clip(b.columns), columns...)
	return b
}

// Where adds a condition. Conditions are combined with AND.
func (b Builder) Where(c Condition) Builder {
	b.where = append(slices.Clip(b.where), c)
	return b
}

// OrderBy sets the sort column and direction.
func (b Builder) OrderBy(column string, dir Direction) Builder {
	b.orderBy, b.dir = column, dir
	return b
}

// Limit caps the number of rows; zero means no limit.
func (b Builder) Limit(n int64) Builder {
	b.limit = n
	return b
}

// Build renders the statement and its parameters.
func (b Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	projection := "*"
	if len(b.columns) > 0 {
		projection = strings.Join(b.columns, ", ")
	}
	fmt.Fprintf(&sql, "SELECT %s FROM %s", projection, b.table)

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		for _, c := range b.where {
			param := fmt.Sprintf("p%d", len(params))
			fragment, value, binds := c.SQL(param)
			if binds {
				params[param] = value
			}
			parts = append(parts, fragment)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if b.orderBy != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.orderBy)
		if b.dir == Desc {
			sql.WriteString(" DESC")
		} else {
			sql.WriteString(" ASC")
		}
	}

	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}
