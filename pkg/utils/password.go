package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword applies bcrypt once at record-creation time. There is no way
// back from the hash; CheckPassword is the only verification path.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
