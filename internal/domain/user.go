package domain

// User as returned by the store API profile/registration endpoints.
// Locally only replaced wholesale, never partially mutated except via the
// session manager's local profile merge.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"creationAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Credentials for an explicit login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration payload for POST /users.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// TokenPair is the store API auth response. The refresh token is optional;
// the API does not always return one.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
