package utils

import "gorm.io/gorm"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// SanitizePagination clamps page and limit to usable values: page starts
// at 1, limit defaults to 50 and never exceeds 100.
func SanitizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Paginate is a gorm scope applying offset/limit from a 1-based page.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, limit := SanitizePagination(page, limit)
		offset := (page - 1) * limit
		return db.Offset(offset).Limit(limit)
	}
}
