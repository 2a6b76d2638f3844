package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// CustomerType classifies a customer for pricing and reporting
type CustomerType string

const (
	CustomerAdult  CustomerType = "Adult"
	CustomerChild  CustomerType = "Child"
	CustomerSenior CustomerType = "Senior"
)

// Valid returns true if the customer type is known
func (t CustomerType) Valid() bool {
	switch t {
	case CustomerAdult, CustomerChild, CustomerSenior:
		return true
	default:
		return false
	}
}

// User represents a registered account
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	IsAdmin      bool         `json:"is_admin"`
	CustomerType CustomerType `json:"customer_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

// CustomerRef is the customer identity attached to an order
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// GuestCustomer returns a fabricated identity for checkouts without a login
func GuestCustomer() CustomerRef {
	return CustomerRef{
		ID:   "CUST-GUEST",
		Name: "Guest Visitor",
		Type: string(CustomerAdult),
	}
}

var userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserRegisterRequest represents the data needed to register an account
type UserRegisterRequest struct {
	Username     string       `json:"username"`
	Password     string       `json:"password"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	CustomerType CustomerType `json:"customer_type"`
}

// Validate validates the registration data
func (req *UserRegisterRequest) Validate() error {
	if strings.TrimSpace(req.Username) == "" {
		return errors.New("username is required")
	}

	if len(req.Username) > 64 {
		return errors.New("username must be less than 64 characters")
	}

	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if req.Email == "" {
		return errors.New("email is required")
	}

	if !userEmailRegex.MatchString(req.Email) {
		return errors.New("email format is invalid")
	}

	if strings.TrimSpace(req.FullName) == "" {
		return errors.New("full name is required")
	}

	if req.CustomerType != "" && !req.CustomerType.Valid() {
		return errors.New("invalid customer type")
	}

	return nil
}
