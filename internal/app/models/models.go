package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RolePlayer RoleType = "player"
	RoleParent RoleType = "parent"
	RoleCoach  RoleType = "coach"
	RoleAdmin  RoleType = "admin"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	switch r {
	case RolePlayer, RoleParent, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// RegistrationStatus is the admin review state of a registration
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationAccepted RegistrationStatus = "accepted"
	RegistrationRejected RegistrationStatus = "rejected"
)

// PaymentStatus mirrors the payment provider's view of a registration
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// NormalizeEmail is the canonical form used for every email lookup and write
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
