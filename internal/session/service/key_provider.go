package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"gocloud.dev/secrets"
	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/sessions/internal/errors"

	// Register KMS provider drivers for encrypted signing secrets
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// MinSecretLength is the minimum decoded secret size accepted for HS256.
const MinSecretLength = 32

// signingKeyInfo versions the HKDF derivation so the algorithm can change later.
var signingKeyInfo = []byte("sessions-jwt-hs256-v1")

// KeyConfig describes where the signing secret comes from.
type KeyConfig struct {
	// Secret is the base64 encoded secret, or the base64 encoded KMS ciphertext of
	// the secret when KMSKeyURI is set.
	Secret string
	// KMSKeyURI optionally names the KMS key that decrypts Secret
	// (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://).
	KMSKeyURI string
}

// staticKeyProvider holds a key derived once at construction.
type staticKeyProvider struct {
	key []byte
}

// NewKeyProvider decodes the configured secret (decrypting it with the KMS keeper
// when a key URI is configured) and derives a 32-byte HMAC key from it with HKDF-SHA256.
func NewKeyProvider(ctx context.Context, cfg KeyConfig) (KeyProvider, error) {
	if cfg.Secret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "jwt secret is required")
	}

	raw, err := decodeBase64(cfg.Secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "jwt secret must be base64 encoded")
	}

	if cfg.KMSKeyURI != "" {
		raw, err = decryptWithKMS(ctx, cfg.KMSKeyURI, raw)
		if err != nil {
			return nil, err
		}
	}

	if len(raw) < MinSecretLength {
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"jwt secret must be at least %d bytes, got %d",
			MinSecretLength,
			len(raw),
		)
	}

	key, err := deriveSigningKey(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}

	return &staticKeyProvider{key: key}, nil
}

// SigningKey returns the derived key.
func (p *staticKeyProvider) SigningKey() []byte {
	return p.key
}

func decryptWithKMS(ctx context.Context, keyURI string, ciphertext []byte) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer func() { _ = keeper.Close() }()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt jwt secret")
	}
	return plaintext, nil
}

func deriveSigningKey(secret []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, signingKeyInfo)

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, apperrors.New("illegal base64 data")
}
