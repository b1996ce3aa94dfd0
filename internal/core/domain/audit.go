package domain

import "time"

// AuditFields are embedded in every mutable entity to track who touched it.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	CreatedBy     string    `json:"createdBy" db:"created_by"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt" db:"last_updated_at"`
	LastUpdatedBy string    `json:"lastUpdatedBy" db:"last_updated_by"`
}

// Touch stamps the audit fields for an update by userID at now.
func (a *AuditFields) Touch(userID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// Stamp initializes the audit fields for a creation by userID at now.
func (a *AuditFields) Stamp(userID string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = userID
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}
