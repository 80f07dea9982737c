package cardenc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const ivSize = 12

// CardInfo is the plaintext payload a gateway adapter seals before sending
// an approval request. It never leaves the process unencrypted.
type CardInfo struct {
	CardNumber string          `json:"cardNumber"`
	BirthDate  string          `json:"birthDate"`
	Expiry     string          `json:"expiry"`
	Password   string          `json:"password"`
	Amount     decimal.Decimal `json:"amount"`
}

// Encrypt serializes info to JSON and seals it with AES-256-GCM.
// The key is the SHA-256 digest of the provider api key; ivBase64URL must
// decode to a 12-byte nonce. The result is base64url without padding over
// ciphertext||tag, which is the envelope format the test PG expects.
func Encrypt(info CardInfo, apiKey, ivBase64URL string) (string, error) {
	plaintext, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("marshal card info: %w", err)
	}

	gcm, iv, err := newGCM(apiKey, ivBase64URL)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt and returns the original JSON bytes.
func Decrypt(enc, apiKey, ivBase64URL string) ([]byte, error) {
	gcm, iv, err := newGCM(apiKey, ivBase64URL)
	if err != nil {
		return nil, err
	}

	sealed, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(enc, "="))
	if err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("open envelope: %w", err)
	}
	return plaintext, nil
}

func newGCM(apiKey, ivBase64URL string) (cipher.AEAD, []byte, error) {
	key := sha256.Sum256([]byte(apiKey))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	iv, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(ivBase64URL, "="))
	if err != nil {
		return nil, nil, fmt.Errorf("decode iv: %w", err)
	}
	if len(iv) != ivSize {
		return nil, nil, fmt.Errorf("iv must be %d bytes, got %d", ivSize, len(iv))
	}

	return gcm, iv, nil
}
