// Package security holds the concrete implementations of the security
// collaborators: password hashing and opaque token generation helpers.
package security

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"

	"github.com/matching-platform/user-service/internal/domain/interfaces"
)

// Argon2Params holds the Argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultArgon2Params are moderate costs suitable for an online service.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		KeyLength:   32,
	}
}

// argon2PasswordService implements interfaces.PasswordService with Argon2id.
// The caller supplies the per-account salt, which is stored on the user
// record rather than embedded in the digest.
type argon2PasswordService struct {
	params Argon2Params
}

// NewArgon2PasswordService creates a PasswordService with the given costs.
// Zero-valued params fall back to the defaults.
func NewArgon2PasswordService(params Argon2Params) interfaces.PasswordService {
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 || params.KeyLength == 0 {
		params = DefaultArgon2Params()
	}
	return &argon2PasswordService{params: params}
}

// Hash derives an Argon2id digest from the password and salt, base64 encoded.
func (s *argon2PasswordService) Hash(password, salt string) (string, error) {
	key := argon2.IDKey([]byte(password), []byte(salt),
		s.params.Iterations, s.params.Memory, s.params.Parallelism, s.params.KeyLength)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Matches verifies a password against a stored digest in constant time.
func (s *argon2PasswordService) Matches(password, salt, digest string) bool {
	expected, err := base64.RawStdEncoding.DecodeString(digest)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(password), []byte(salt),
		s.params.Iterations, s.params.Memory, s.params.Parallelism, s.params.KeyLength)
	return subtle.ConstantTimeCompare(key, expected) == 1
}
