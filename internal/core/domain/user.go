package domain

import "strings"

// User represents an account in the domain.
// PasswordHash and RefreshToken never leave the service layer; responses are
// built from a sanitized copy.
type User struct {
	UserID       string   `json:"userID"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	Avatar       string   `json:"avatar"`
	CoverImage   string   `json:"coverImage"`
	WatchHistory []string `json:"watchHistory"`
	PasswordHash string   `json:"-"`
	RefreshToken *string  `json:"-"`
	Timestamps

	pendingPassword *string
}

// SetPassword records a new plaintext password. It is hashed right before the
// record is persisted and never stored as-is.
func (u *User) SetPassword(plain string) {
	u.pendingPassword = &plain
}

// PendingPassword returns the plaintext set by SetPassword, if the password was
// modified since the last save.
func (u *User) PendingPassword() (string, bool) {
	if u.pendingPassword == nil {
		return "", false
	}
	return *u.pendingPassword, true
}

// ApplyPasswordHash stores the hashed form and clears the modification mark.
func (u *User) ApplyPasswordHash(hash string) {
	u.PasswordHash = hash
	u.pendingPassword = nil
}

// Sanitized returns a copy without credential or session fields.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	u.pendingPassword = nil
	return u
}

// HasRefreshToken reports whether token is the currently stored refresh token.
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && *u.RefreshToken != "" && *u.RefreshToken == token
}

// NormalizeUsername trims and lower-cases a username as it is stored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail trims and lower-cases an email as it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
