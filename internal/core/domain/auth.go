package domain

import (
	"io"
	"strings"
)

// IdentifierKind tells which unique field a login identifier refers to.
type IdentifierKind string

const (
	IdentifierUsername IdentifierKind = "username"
	IdentifierEmail    IdentifierKind = "email"
)

// Identifier is a resolved login identifier.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ResolveIdentifier picks the login identifier from the submitted fields.
// Username wins when both are present. ok is false when neither is usable.
func ResolveIdentifier(username, email string) (Identifier, bool) {
	if u := strings.TrimSpace(username); u != "" {
		return Identifier{Kind: IdentifierUsername, Value: u}, true
	}
	if e := strings.TrimSpace(email); e != "" {
		return Identifier{Kind: IdentifierEmail, Value: NormalizeEmail(e)}, true
	}
	return Identifier{}, false
}

// TokenPair is an access/refresh token pair issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned from a successful login or refresh.
type LoginResult struct {
	User User
	TokenPair
}

// MediaFile is an uploaded file handed to the media store.
type MediaFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult describes a stored media object.
type UploadResult struct {
	URL string
	Key string
}
