package models

import "time"

// User is the durable credential-store record. Identity is the lowercase
// handle used as the key across all in-memory registries; Username keeps the
// casing the user registered with.
type User struct {
	Identity  string    `json:"userId"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin,omitempty"`
}

// ProfileUpdate carries a partial profile edit; nil fields are left untouched.
type ProfileUpdate struct {
	Bio    *string `json:"bio"`
	Status *string `json:"status"`
}
