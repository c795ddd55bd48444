package dto

import "time"

// SubmitRegistrationRequest is the public registration form
type SubmitRegistrationRequest struct {
	PlayerFirstName string     `json:"playerFirstName" validate:"required,notblank,max=100" example:"Amine"`
	PlayerLastName  string     `json:"playerLastName" validate:"required,notblank,max=100" example:"Tazi"`
	PlayerBirthDate *time.Time `json:"playerBirthDate,omitempty" example:"2014-05-02T00:00:00Z"`
	ParentName      string     `json:"parentName" validate:"required,notblank,max=200" example:"Youssef Tazi"`
	ParentEmail     string     `json:"parentEmail" validate:"omitempty,email,max=255" example:"youssef@example.com"`
	ParentPhone     string     `json:"parentPhone" validate:"required,notblank,max=50" example:"+212611111111"`
	CategoryID      *int64     `json:"categoryId,omitempty" validate:"omitempty,gt=0" example:"2"`
}

// AcceptRegistrationResponse reports the player a registration was promoted to
type AcceptRegistrationResponse struct {
	RegistrationID int64  `json:"registrationId" example:"12"`
	PlayerID       int64  `json:"playerId" example:"7"`
	Status         string `json:"status" example:"accepted"`
	PlayerCreated  bool   `json:"playerCreated" example:"true"`
}
