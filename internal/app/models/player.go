package models

import "time"

// Player is an accepted academy member. It holds no reference back to its Registration.
type Player struct {
	ID          int64      `json:"id" db:"id" example:"7"`
	FirstName   string     `json:"firstName" db:"firstname" example:"Amine"`
	LastName    string     `json:"lastName" db:"lastname" example:"Tazi"`
	BirthDate   *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	CategoryID  *int64     `json:"categoryId,omitempty" db:"category_id"`
	YellowCards int        `json:"yellowCards" db:"yellow_cards"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name the way account names are stored
func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}
