package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// whereContains narrows db to rows where any of the columns contains term.
// Matching is case-sensitive substring containment on every dialect, which
// rules out LIKE (case-insensitive for ASCII on SQLite).
func whereContains(db *gorm.DB, term string, columns ...string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return db
	}

	fn := "strpos(%s, ?) > 0"
	if db.Dialector.Name() == "sqlite" {
		fn = "instr(%s, ?) > 0"
	}

	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = fmt.Sprintf(fn, col)
		args[i] = term
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}
