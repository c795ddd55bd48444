package dto

import (
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/auth"
)

// ClaimStatus is the outcome of a claim
type ClaimStatus string

const (
	ClaimCreated  ClaimStatus = "created"
	ClaimLinked   ClaimStatus = "linked"
	ClaimNotFound ClaimStatus = "not_found"
	ClaimConflict ClaimStatus = "conflict"
)

// LoginStatus is the outcome of a login or profile refresh
type LoginStatus string

const (
	LoginOK                 LoginStatus = "ok"
	LoginInvalidCredentials LoginStatus = "invalid_credentials"
	LoginNoProfile          LoginStatus = "no_profile"
)

// ClaimPlayerRequest is a player's claim on their academy record
type ClaimPlayerRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank,max=100" example:"Amine"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100" example:"Tazi"`
	Email     string `json:"email" validate:"required,email,max=255" example:"amine@example.com"`
}

// ClaimCoachRequest is a staff member's claim
type ClaimCoachRequest struct {
	Name       string  `json:"name" validate:"required,notblank,max=200" example:"Karim Alaoui"`
	Email      string  `json:"email" validate:"required,email,max=255" example:"karim@example.com"`
	Phone      string  `json:"phone" validate:"required,notblank,max=50" example:"+212600000000"`
	Diploma    *string `json:"diploma,omitempty" validate:"omitempty,max=100" example:"UEFA B"`
	CategoryID *int64  `json:"categoryId,omitempty" validate:"omitempty,gt=0" example:"2"`
}

// ClaimParentRequest is a parent's claim on the registrations they submitted
type ClaimParentRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=200" example:"Youssef Tazi"`
	Email    string `json:"email" validate:"required,email,max=255" example:"youssef@example.com"`
	Phone    string `json:"phone" validate:"required,notblank,max=50" example:"+212611111111"`
	PlayerID *int64 `json:"playerId,omitempty" validate:"omitempty,gt=0" example:"7"`
}

// LoginRequest authenticates a user for one expected role
type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email" example:"amine@example.com"`
	Password string          `json:"password" validate:"required" example:"Xk3pQ9mWz2Ab"`
	Role     models.RoleType `json:"role" validate:"required,oneof=player parent coach admin" example:"player"`
}

// ClaimPlayerResponse is returned by a successful player claim
type ClaimPlayerResponse struct {
	Status            ClaimStatus          `json:"status" example:"created"`
	User              *models.User         `json:"user"`
	Player            *models.Player       `json:"player"`
	Registration      *models.Registration `json:"registration"`
	Token             *auth.IssuedToken    `json:"token"`
	GeneratedPassword string               `json:"generatedPassword,omitempty" example:"Xk3pQ9mWz2Ab"`
}

// ClaimCoachResponse is returned by a successful coach claim
type ClaimCoachResponse struct {
	Status            ClaimStatus       `json:"status" example:"created"`
	Coach             *models.Coach     `json:"coach"`
	User              *models.User      `json:"user"`
	Token             *auth.IssuedToken `json:"token"`
	GeneratedPassword string            `json:"generatedPassword,omitempty"`
}

// ClaimParentResponse is returned by a successful parent claim
type ClaimParentResponse struct {
	Status            ClaimStatus            `json:"status" example:"created"`
	User              *models.User           `json:"user"`
	Registrations     []*models.Registration `json:"registrations"`
	Token             *auth.IssuedToken      `json:"token"`
	GeneratedPassword string                 `json:"generatedPassword,omitempty"`
}

// Profile is the operational record behind a user. Which fields are set depends on the role.
type Profile struct {
	Player        *models.Player         `json:"player,omitempty"`
	Registration  *models.Registration   `json:"registration,omitempty"`
	Coach         *models.Coach          `json:"coach,omitempty"`
	Registrations []*models.Registration `json:"registrations,omitempty"`
}

// LoginResponse is returned by login and profile refresh
type LoginResponse struct {
	Status  LoginStatus       `json:"status" example:"ok"`
	User    *models.User      `json:"user"`
	Profile *Profile          `json:"profile,omitempty"`
	Token   *auth.IssuedToken `json:"token,omitempty"`
}
