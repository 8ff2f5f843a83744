package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash of plain at the given cost.
// bcrypt embeds a fresh random salt in every hash, so hashing the same
// password twice yields two different stored values.
func HashPassword(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// A malformed stored value and a wrong password are indistinguishable:
// both return false.
func CheckPassword(plain, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
