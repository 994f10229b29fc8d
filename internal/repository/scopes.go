package repository

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scope is one composable part of a list query
type scope = func(db *gorm.DB) *gorm.DB

// likeEscape is the escape character used by containsAny. '!' is portable
// across MySQL, PostgreSQL and SQLite, unlike a backslash.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// whereEq adds "column = value". Column names come from code, never from callers.
func whereEq(column string, value interface{}) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
}

// whereIn adds "column IN (values)"
func whereIn(column string, values interface{}) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" IN ?", values)
	}
}

// whereBetween adds an inclusive range; either bound may be nil.
func whereBetween(column string, from, to interface{}) scope {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(clause.Gte{Column: clause.Column{Name: column}, Value: from})
		}
		if to != nil {
			db = db.Where(clause.Lte{Column: clause.Column{Name: column}, Value: to})
		}
		return db
	}
}

// containsAny matches term as a case-insensitive substring of any column.
// The sub-terms are OR-combined inside one parenthesised group.
func containsAny(columns []string, term string) scope {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		parts[i] = "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
		args[i] = pattern
	}
	expr := "(" + strings.Join(parts, " OR ") + ")"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(expr, args...)
	}
}

// orderBy sorts by column and then by id in the same direction so pages are stable.
func orderBy(column string, desc bool) scope {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
		if column != "id" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
		}
		return db
	}
}

// paginate applies limit and offset only when present. A zero limit means
// unbounded. An offset without a limit still needs a LIMIT clause on MySQL
// and SQLite.
func paginate(limit, offset *int) scope {
	return func(db *gorm.DB) *gorm.DB {
		bounded := limit != nil && *limit > 0
		if bounded {
			db = db.Limit(*limit)
		}
		if offset != nil && *offset > 0 {
			if !bounded {
				db = db.Limit(math.MaxInt32)
			}
			db = db.Offset(*offset)
		}
		return db
	}
}

// timeBounds converts optional bounds to the interface values whereBetween expects
func timeBounds(from, to *time.Time) (interface{}, interface{}) {
	var lo, hi interface{}
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}
	return lo, hi
}

// listQuery runs the count and the page query for a composed plan.
func listQuery[T any](db *gorm.DB, where []scope, order scope, page scope) ([]T, int64, error) {
	base := func() *gorm.DB {
		var model T
		return db.Model(&model).Scopes(where...)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0)
	if err := base().Scopes(order, page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
