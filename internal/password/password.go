package password

import "golang.org/x/crypto/bcrypt"

// Cost is fixed above bcrypt's default; login latency is acceptable for
// an admin-facing system.
const Cost = 12

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
