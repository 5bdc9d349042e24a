package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
)

// sealedPrefix marks an Arguments field holding an encrypted entry.
const sealedPrefix = "enc:v1:"

// ErrNotEncrypted is returned by List when a stored entry carries no encrypted envelope.
var ErrNotEncrypted = errors.New("journal entry is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.Journal
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals the arguments and error of
// every entry with AES-GCM. ID, time, action and outcome stay readable so the history
// can still be listed by tools that hold no key.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.Journal) ports.Journal {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

// ParseKey decodes a base64 encoded AES-256 key.
func ParseKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

type sealedFields struct {
	Arguments string `json:"arguments,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (m *encryptionMiddleware) Append(ctx context.Context, entry domain.JournalEntry) error {
	plainText, err := json.Marshal(sealedFields{Arguments: entry.Arguments, Error: entry.Error})
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt entry: %w", err)
	}

	entry.Arguments = sealedPrefix + base64.StdEncoding.EncodeToString(ciphertext)
	entry.Error = ""
	return m.next.Append(ctx, entry)
}

func (m *encryptionMiddleware) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	entries, err := m.next.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if err := m.open(&entries[i]); err != nil {
			return nil, fmt.Errorf("entry %s: %w", entries[i].ID, err)
		}
	}
	return entries, nil
}

func (m *encryptionMiddleware) open(entry *domain.JournalEntry) error {
	encoded, ok := strings.CutPrefix(entry.Arguments, sealedPrefix)
	if !ok {
		return ErrNotEncrypted
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return fmt.Errorf("failed to decrypt entry: %w", err)
	}

	var fields sealedFields
	if err := json.Unmarshal(plainText, &fields); err != nil {
		return fmt.Errorf("failed to unmarshal decrypted entry: %w", err)
	}
	entry.Arguments = fields.Arguments
	entry.Error = fields.Error
	return nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
