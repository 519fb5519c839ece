package encryption

import (
	"fmt"

	"drivepulse/internal/config"
	"drivepulse/internal/pulse"
)

// NewCiphersFromConfig returns the configured sealing cipher first,
// followed by every other supported cipher so that snapshots sealed under
// a previous setting still open.
func NewCiphersFromConfig(cfg config.EncryptionConfig) ([]pulse.Cipher, error) {
	aesgcm := NewAESGCMCipher()
	ageCipher := NewAgeCipher(cfg.AgeWorkFactor)

	switch cfg.Type {
	case "aesgcm", "":
		return []pulse.Cipher{aesgcm, ageCipher}, nil
	case "age":
		return []pulse.Cipher{ageCipher, aesgcm}, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
