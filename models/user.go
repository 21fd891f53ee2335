package models

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type User struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone,omitempty"`
	Role    Role     `json:"role"`
	Address *Address `json:"address,omitempty"`
}

// IsAdmin treats every role other than admin as a member.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) RoleLabel() string {
	if u.IsAdmin() {
		return "Administrator"
	}
	return "Member"
}

// AuthResponse is what register and login return: a bearer token plus
// the authenticated user at the top level of the body.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
	Data  *User  `json:"data,omitempty"`
}

// Identity returns the user regardless of which key the server used.
func (r AuthResponse) Identity() *User {
	if r.User != nil {
		return r.User
	}
	return r.Data
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Address != nil {
		addr := *u.Address
		out.Address = &addr
	}
	return &out
}
