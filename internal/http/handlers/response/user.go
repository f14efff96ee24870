package response

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"time"
)

// User is the public view of an account. The password hash is never rendered.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     *string   `json:"photo,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func optional(o c.Optional[string]) *string {
	if !o.IsPresent {
		return nil
	}
	value := o.Value
	return &value
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = string(du.ID)
	u.Name = du.Name
	u.Email = string(du.Email)
	u.Photo = optional(du.Photo)
	u.Phone = optional(du.Phone)
	u.Bio = optional(du.Bio)
	u.CreatedAt = du.CreatedAt
	u.UpdatedAt = du.UpdatedAt
}

// Authenticated is returned by sign up and log in.
type Authenticated struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func NewAuthenticated(du user.User, token user.SessionToken) Authenticated {
	u := User{}
	u.FromDomainUser(du)
	return Authenticated{User: u, Token: string(token)}
}
