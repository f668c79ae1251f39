package password

import "golang.org/x/crypto/bcrypt"

// Hash bcrypt-hashes the account password before it touches the users
// table; the plaintext is never stored or logged.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether plain matches the stored hash. Callers treat
// any error as a failed login without distinguishing why.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
