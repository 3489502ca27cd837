package auth

// TokenClaims is the verified subject carried by an identity token. Only the
// user id is trusted downstream; the email is informational and may be stale.
type TokenClaims struct {
	UserID int64
	Email  string
}

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	Issue(userID int64, email string) (string, error)
	Verify(token string) (TokenClaims, error)
}

// PasswordHasher abstracts one-way credential hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
