package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"drivepulse/internal/pulse"
)

const nonceSize = 12

// AESGCMCipher seals bodies with AES-256-GCM keyed by SHA-256(password).
// The envelope is nonce || ciphertext || tag with no header, which keeps
// it byte-compatible with snapshots written by earlier releases.
//
// A single SHA-256 pass is a fast key derivation; use AgeCipher when
// stronger protection against offline guessing is wanted.
type AESGCMCipher struct{}

var _ pulse.Cipher = (*AESGCMCipher)(nil)

func NewAESGCMCipher() *AESGCMCipher { return &AESGCMCipher{} }

func (*AESGCMCipher) Format() pulse.Format { return pulse.FormatSealedAESGCM }

// Seal encrypts plaintext under a fresh random nonce.
func (c *AESGCMCipher) Seal(plaintext []byte, password string) ([]byte, error) {
	aead, err := newGCM(password)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize, nonceSize+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open verifies and decrypts an envelope produced by Seal.
func (c *AESGCMCipher) Open(envelope []byte, password string) ([]byte, error) {
	aead, err := newGCM(password)
	if err != nil {
		return nil, err
	}

	if len(envelope) < nonceSize+aead.Overhead() {
		return nil, fmt.Errorf("envelope is %d bytes, too short: %w", len(envelope), pulse.ErrDecryptionFailed)
	}

	plaintext, err := aead.Open(nil, envelope[:nonceSize], envelope[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("wrong password or corrupted data: %w", pulse.ErrDecryptionFailed)
	}
	return plaintext, nil
}

func newGCM(password string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(password))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating block cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return aead, nil
}
