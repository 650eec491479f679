package domain

import "time"

// StaffRole enumerates operator roles for the assignment API.
type StaffRole string

const (
	StaffRoleViewer     StaffRole = "VIEWER"
	StaffRoleDispatcher StaffRole = "DISPATCHER"
	StaffRoleAdmin      StaffRole = "ADMIN"
)

// StaffMember is an operator allowed to call the assignment API.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
