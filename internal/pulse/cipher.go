package pulse

// Cipher seals and opens password-protected snapshot bodies.
type Cipher interface {
	// Format is the envelope format produced by Seal.
	Format() Format

	// Seal encrypts plaintext with a key derived from password.
	Seal(plaintext []byte, password string) ([]byte, error)

	// Open authenticates and decrypts an envelope. Any failure, including
	// a wrong password, returns an error wrapping ErrDecryptionFailed and
	// no plaintext.
	Open(envelope []byte, password string) ([]byte, error)
}
