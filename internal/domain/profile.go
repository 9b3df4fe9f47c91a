package domain

import "time"

// Profile represents a single user record held in the profile collection.
type Profile struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Password      string    `json:"password"`
	Gender        string    `json:"gender"`
	FullName      string    `json:"full_name"`
	StreetAddress string    `json:"street_address"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// EditRequest carries the mutable fields of a profile for create and edit operations.
type EditRequest struct {
	Username      string `json:"username" validate:"required"`
	Password      string `json:"password" validate:"required"`
	Gender        string `json:"gender"`
	FullName      string `json:"full_name" validate:"required"`
	StreetAddress string `json:"street_address" validate:"required"`
	Email         string `json:"email" validate:"required,contains=@"`
}

// Apply returns a copy of p with every mutable field overwritten from the request.
// ID and CreatedAt are carried over unchanged.
func (r EditRequest) Apply(p Profile) Profile {
	p.Username = r.Username
	p.Password = r.Password
	p.Gender = r.Gender
	p.FullName = r.FullName
	p.StreetAddress = r.StreetAddress
	p.Email = r.Email
	return p
}
