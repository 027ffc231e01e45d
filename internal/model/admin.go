package model

import "time"

// Admin represents a staff user of the admission office.
type Admin struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	RoleName     string    `json:"role_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminLoginRequest is the payload for staff authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginResponse is returned after successful staff login.
type AdminLoginResponse struct {
	Token       string   `json:"token"`
	Admin       Admin    `json:"admin"`
	Permissions []string `json:"permissions"`
}

// Actor identifies who performs a core operation and what they may do.
// Mutating service methods take an Actor explicitly instead of reading
// ambient session state; they return ErrPermissionDenied when the required
// capability is missing.
type Actor struct {
	ID          int
	Permissions []string
}

// Can reports whether the actor holds the given permission.
func (a Actor) Can(p Permission) bool {
	for _, code := range a.Permissions {
		if code == string(p) {
			return true
		}
	}
	return false
}
