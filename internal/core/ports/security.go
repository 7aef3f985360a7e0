package ports

// SecurityPort encrypts data at rest. The associated data is authenticated
// but not stored, so a ciphertext only opens with the same context it was
// sealed with.
type SecurityPort interface {
	Encrypt(plaintext, associatedData []byte) (ciphertext []byte, err error)
	Decrypt(ciphertext, associatedData []byte) (plaintext []byte, err error)
}
