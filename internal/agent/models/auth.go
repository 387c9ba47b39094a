package models

// TokenPair is the access/refresh credential pair identifying an
// authenticated session. Both values are present together or the pair is
// considered absent.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether both halves of the pair are present.
func (p TokenPair) Valid() bool {
	return p.Token != "" && p.RefreshToken != ""
}

// AuthResult is the response to a successful login or signup call.
type AuthResult struct {
	TokenPair
	User *User `json:"user"`
}
