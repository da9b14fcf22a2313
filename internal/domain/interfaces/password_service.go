// Package interfaces defines the external collaborator contracts the auth
// core consumes but does not implement: password hashing and outbound
// notification delivery.
package interfaces

// PasswordService is the one-way password function. The salt is generated
// per account by the caller and stored alongside the hash.
type PasswordService interface {
	// Hash derives a digest from the plaintext and salt.
	Hash(password, salt string) (string, error)
	// Matches verifies a plaintext against a stored digest and salt.
	Matches(password, salt, digest string) bool
}
