// Package sqlbuild composes the WHERE clause shared by the relational article stores.
package sqlbuild

import (
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// Dialect captures the few places where PostgreSQL and SQLite differ.
type Dialect interface {
	Placeholder(n int) string
	// ContainsFold renders a case-insensitive substring match of col against the pattern placeholder.
	ContainsFold(col, placeholder string) string
	// In renders a membership test of col against values, binding through arg.
	In(col string, values []string, arg func(v any) string) string
	TimeArg(t time.Time) any
}

type Postgres struct{}

func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (Postgres) ContainsFold(col, ph string) string {
	return col + " ILIKE " + ph + ` ESCAPE '\'`
}

func (Postgres) In(col string, values []string, arg func(v any) string) string {
	return col + " = ANY(" + arg(values) + ")"
}

func (Postgres) TimeArg(t time.Time) any { return t.UTC() }

type SQLite struct{}

// FoldFunc is the SQLite scalar that lower-cases full Unicode text. SQLite's own
// lower() only folds ASCII; the sqlite store registers this one on the driver.
const FoldFunc = "fold"

// Placeholder is numbered so one argument can be referenced more than once.
func (SQLite) Placeholder(n int) string { return "?" + strconv.Itoa(n) }

func (SQLite) ContainsFold(col, ph string) string {
	return FoldFunc + "(" + col + ") LIKE " + FoldFunc + "(" + ph + `) ESCAPE '\'`
}

func (SQLite) In(col string, values []string, arg func(v any) string) string {
	phs := make([]string, len(values))
	for i, v := range values {
		phs[i] = arg(v)
	}
	return col + " IN (" + strings.Join(phs, ", ") + ")"
}

// TimeLayout is how SQLite stores timestamps: fixed width, so text order is time order.
const TimeLayout = "2006-01-02T15:04:05Z"

func (SQLite) TimeArg(t time.Time) any { return t.UTC().Format(TimeLayout) }

type Query struct {
	dialect Dialect
	where   []string
	Args    []any
}

func New(d Dialect) *Query {
	return &Query{dialect: d}
}

// Arg binds v and returns its placeholder.
func (q *Query) Arg(v any) string {
	q.Args = append(q.Args, v)
	return q.dialect.Placeholder(len(q.Args))
}

// Where appends the conditions expressed by c.
func (q *Query) Where(c domain.Criteria) *Query {
	if c.Keyword != "" {
		pattern := "%" + EscapeLike(c.Keyword) + "%"
		ph := q.Arg(pattern)
		q.where = append(q.where, "("+q.dialect.ContainsFold("title", ph)+" OR "+q.dialect.ContainsFold("description", ph)+")")
	}
	if from, to, ok := c.DayRange(); ok {
		q.where = append(q.where, "published_at >= "+q.Arg(q.dialect.TimeArg(from))+" AND published_at < "+q.Arg(q.dialect.TimeArg(to)))
	}
	if c.Category != "" {
		q.where = append(q.where, "category = "+q.Arg(c.Category))
	}
	if c.Source != "" {
		q.where = append(q.where, "source = "+q.Arg(c.Source))
	}
	q.in("source", c.Sources)
	q.in("category", c.Categories)
	q.in("author", c.Authors)
	return q
}

func (q *Query) in(col string, values []string) {
	if len(values) == 0 {
		return
	}
	q.where = append(q.where, q.dialect.In(col, values, q.Arg))
}

// Clause returns " WHERE ..." or "" when there are no conditions.
func (q *Query) Clause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

const OrderNewestFirst = " ORDER BY published_at DESC, id DESC"

// EscapeLike escapes LIKE metacharacters using backslash.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
