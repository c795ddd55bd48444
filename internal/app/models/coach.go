package models

import "time"

// Coach is a staff member. Its link to a User is the shared email, not a foreign key.
type Coach struct {
	ID         int64     `json:"id" db:"id" example:"3"`
	Name       string    `json:"name" db:"name" example:"Karim Alaoui"`
	Email      string    `json:"email" db:"email" example:"karim@example.com"`
	Phone      string    `json:"phone" db:"phone" example:"+212600000000"`
	Diploma    *string   `json:"diploma,omitempty" db:"diploma" example:"UEFA B"`
	CategoryID *int64    `json:"categoryId,omitempty" db:"category_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
