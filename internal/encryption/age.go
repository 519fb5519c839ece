package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"

	"drivepulse/internal/pulse"
)

// AgeCipher seals bodies as age files encrypted to an scrypt passphrase
// recipient. The scrypt work factor makes password guessing expensive.
type AgeCipher struct {
	workFactor int
}

var _ pulse.Cipher = (*AgeCipher)(nil)

// NewAgeCipher creates an AgeCipher. A workFactor of 0 keeps age's default.
func NewAgeCipher(workFactor int) *AgeCipher {
	return &AgeCipher{workFactor: workFactor}
}

func (*AgeCipher) Format() pulse.Format { return pulse.FormatSealedAge }

// Seal encrypts plaintext to the passphrase.
func (c *AgeCipher) Seal(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if c.workFactor > 0 {
		recipient.SetWorkFactor(c.workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Open decrypts an age file with the passphrase.
func (c *AgeCipher) Open(envelope []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w: %w", err, pulse.ErrDecryptionFailed)
	}
	// The identity refuses files above its maximum work factor (22 by default).
	if c.workFactor > 22 {
		identity.SetMaxWorkFactor(c.workFactor)
	}

	r, err := age.Decrypt(bytes.NewReader(envelope), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, fmt.Errorf("wrong password: %w", pulse.ErrDecryptionFailed)
		}
		return nil, fmt.Errorf("opening age envelope: %v: %w", err, pulse.ErrDecryptionFailed)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading age payload: %v: %w", err, pulse.ErrDecryptionFailed)
	}
	return plaintext, nil
}
