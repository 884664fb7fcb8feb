package repository

import "fmt"

// limitOffsetClause renders pagination with the shared defaults.
func limitOffsetClause(limit, offset int) string {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
