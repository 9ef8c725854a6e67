package dto

// LoginRequest accepts either a username or an email with the password.
type LoginRequest struct {
	Username string `json:"username" example:"ana01"`
	Email    string `json:"email" example:"ana@example.com"`
	Password string `json:"password" example:"Str0ng!Pass"`
}

// RefreshTokenRequest is the optional body of the refresh endpoint; the cookie
// takes precedence.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is the data of a successful login.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// TokenPairResponse is the data of a successful token refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
