package models

// Category groups players and coaches by age bracket
type Category struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"U13"`
}
