package signing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/openpgp" //nolint:staticcheck // Armored detached signatures are all that is needed here.
)

var (
	// ErrNoSigningKey is returned when the key ring has no usable secret key.
	ErrNoSigningKey = errors.New("no secret signing key found")
	// ErrKeyNotFound is returned when the requested key id is not in the key ring.
	ErrKeyNotFound = errors.New("signing key not found")
)

// PGPSigner signs with an OpenPGP secret key and produces ASCII-armored signatures.
type PGPSigner struct {
	entity *openpgp.Entity
}

// LoadPGPSigner reads an armored secret key ring from r.
// keyID selects the key by its long or short hex id, the first secret key is used when empty.
// The passphrase decrypts the primary key and its subkeys when they are protected.
func LoadPGPSigner(r io.Reader, keyID, passphrase string) (*PGPSigner, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read key ring: %w", err)
	}

	entity, err := selectEntity(keyring, keyID)
	if err != nil {
		return nil, err
	}

	if err = decrypt(entity, []byte(passphrase)); err != nil {
		return nil, err
	}

	return NewPGPSigner(entity), nil
}

// NewPGPSigner wraps an already decrypted entity.
func NewPGPSigner(entity *openpgp.Entity) *PGPSigner {
	return &PGPSigner{entity: entity}
}

// KeyID returns the long hex id of the signing key.
func (s *PGPSigner) KeyID() string {
	return s.entity.PrimaryKey.KeyIdString()
}

// Sign returns an armored detached signature of everything read from r.
func (s *PGPSigner) Sign(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, s.entity, r, nil); err != nil {
		return nil, fmt.Errorf("failed to create detached signature: %w", err)
	}

	return buf.Bytes(), nil
}

func selectEntity(keyring openpgp.EntityList, keyID string) (*openpgp.Entity, error) {
	keyID = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(keyID), "0x"))

	for _, entity := range keyring {
		if entity.PrivateKey == nil {
			continue
		}

		if keyID == "" ||
			entity.PrimaryKey.KeyIdString() == keyID ||
			entity.PrimaryKey.KeyIdShortString() == keyID {
			return entity, nil
		}
	}

	if keyID == "" {
		return nil, ErrNoSigningKey
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
}

func decrypt(entity *openpgp.Entity, passphrase []byte) error {
	if entity.PrivateKey.Encrypted {
		if err := entity.PrivateKey.Decrypt(passphrase); err != nil {
			return fmt.Errorf("failed to decrypt signing key: %w", err)
		}
	}

	for _, subkey := range entity.Subkeys {
		if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
			if err := subkey.PrivateKey.Decrypt(passphrase); err != nil {
				return fmt.Errorf("failed to decrypt signing subkey: %w", err)
			}
		}
	}

	return nil
}
