package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/circleone/member-directory/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ContainsFold matches rows where any of the columns contains term, ignoring case.
// LOWER(...) LIKE is used instead of ILIKE so the same query runs on SQLite, MySQL and PostgreSQL.
func ContainsFold(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// MostViewed orders by popularity, newest first on ties, then by id so pages are stable.
func MostViewed(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".view_count DESC").
			Order(table + ".created_at DESC").
			Order(table + ".id DESC")
	}
}
