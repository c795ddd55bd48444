package models

import "time"

// Registration is a submitted application. The player and parent snapshots never change
// after creation; only the link, status and payment fields are written later.
type Registration struct {
	ID              int64              `json:"id" db:"id" example:"12"`
	PlayerFirstName string             `json:"playerFirstName" db:"player_firstname" example:"Amine"`
	PlayerLastName  string             `json:"playerLastName" db:"player_lastname" example:"Tazi"`
	PlayerBirthDate *time.Time         `json:"playerBirthDate,omitempty" db:"player_birth_date"`
	PlayerID        *int64             `json:"playerId,omitempty" db:"player_id"`
	PlayerEmail     *string            `json:"playerEmail,omitempty" db:"player_email"`
	ParentName      string             `json:"parentName" db:"parent_name" example:"Youssef Tazi"`
	ParentEmail     string             `json:"parentEmail" db:"parent_email" example:"youssef@example.com"`
	ParentPhone     string             `json:"parentPhone" db:"parent_phone" example:"+212611111111"`
	CategoryID      *int64             `json:"categoryId,omitempty" db:"category_id"`
	Status          RegistrationStatus `json:"status" db:"status" example:"pending"`
	PaymentStatus   PaymentStatus      `json:"paymentStatus" db:"payment_status" example:"unpaid"`
	CreatedAt       time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" db:"updated_at"`
}
