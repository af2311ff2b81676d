package repository

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (Page-1)*PageSize well inside int range on every platform.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// ListOptions carries the search, ordering and paging parameters shared by
// every list endpoint.
type ListOptions struct {
	Search   string
	Ordering string // field name, "-" prefix for descending
	Page     int
	PageSize int
}

// Normalize clamps paging to sane values.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Page > MaxPage {
		o.Page = MaxPage
	}
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		o.PageSize = DefaultPageSize
	}
	o.Search = strings.TrimSpace(o.Search)
	o.Ordering = strings.TrimSpace(o.Ordering)
	return o
}

func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// paginate applies limit/offset for normalized options.
func paginate(o ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(o.PageSize).Offset(o.Offset())
	}
}

// search splits the query into tokens and requires each token to appear in at
// least one of the columns, case-insensitively.
// Example: "go tips" on (title, content) ->
//
//	(LOWER(title) LIKE '%go%' OR LOWER(content) LIKE '%go%') AND (LOWER(title) LIKE '%tips%' OR ...)
func search(q string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tokens := strings.Fields(strings.ToLower(q))
		if len(tokens) == 0 || len(columns) == 0 {
			return db
		}
		for _, t := range tokens {
			p := "%" + escapeLike(t) + "%"
			clauses := make([]string, 0, len(columns))
			args := make([]interface{}, 0, len(columns))
			for _, col := range columns {
				clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '\\'")
				args = append(args, p)
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
		return db
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// orderBy resolves a client ordering against the allowed field->column map and
// falls back to def when the field is unknown. The primary key breaks ties so
// pages are stable.
func orderBy(ordering string, allowed map[string]string, def string, pk string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		clause := resolveOrdering(ordering, allowed)
		if clause == "" {
			clause = resolveOrdering(def, allowed)
		}
		if clause == "" {
			return db.Order(pk + " DESC")
		}
		dir := " DESC"
		if strings.HasSuffix(clause, " ASC") {
			dir = " ASC"
		}
		return db.Order(clause).Order(pk + dir)
	}
}

func resolveOrdering(ordering string, allowed map[string]string) string {
	field := strings.TrimSpace(ordering)
	dir := "ASC"
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	col, ok := allowed[field]
	if !ok {
		return ""
	}
	return col + " " + dir
}
