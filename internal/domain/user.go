package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents an authenticated account within the platform.
//
// Plan is stored as a raw string on purpose: plan values arrive from billing
// callbacks and legacy rows, and the limits package owns the rule that
// anything unrecognized behaves as the free tier.
type User struct {
	ID             string
	Email          string
	Name           string
	Locale         string
	Currency       string // preferred display currency code, may be empty
	Role           UserRole
	Plan           string
	DocumentsCount int
	AnalysesUsed   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
