// Package planrepo caches planned graph fragments keyed by their tokenize
// digest (spec.md §4.10: "tokenize must... allow CSE and caching"), backed
// by GORM across postgres, mysql, or sqlite, adapted from the teacher's
// internal/repository dialect-switch pattern.
package planrepo

import "time"

// PlanCacheEntry is one row of the plan_cache table: a serialized,
// optionally compressed graph fragment keyed by its tokenize digest.
type PlanCacheEntry struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Token      string    `gorm:"column:token;type:varchar(64);uniqueIndex"`
	Payload    []byte    `gorm:"column:payload;type:blob"`
	Compressed bool      `gorm:"column:compressed"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"column:expires_at"`
}

// TableName returns the table name for PlanCacheEntry.
func (PlanCacheEntry) TableName() string {
	return "plan_cache"
}
