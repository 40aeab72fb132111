package signing_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"       //nolint:staticcheck // Matches the signer implementation.
	"golang.org/x/crypto/openpgp/armor" //nolint:staticcheck // Matches the signer implementation.

	"github.com/oshokin/central-publisher/internal/signing"
)

func newArmoredKey(t *testing.T) (*openpgp.Entity, string) {
	t.Helper()

	entity, err := openpgp.NewEntity("Release Bot", "", "release@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	return entity, buf.String()
}

func TestPGPSignerProducesVerifiableSignature(t *testing.T) {
	t.Parallel()

	entity, armored := newArmoredKey(t)

	signer, err := signing.LoadPGPSigner(strings.NewReader(armored), "", "")
	require.NoError(t, err)
	require.Equal(t, entity.PrimaryKey.KeyIdString(), signer.KeyID())

	payload := []byte("artifact bytes")

	signature, err := signer.Sign(context.Background(), bytes.NewReader(payload))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(signature, []byte("-----BEGIN PGP SIGNATURE-----")))

	_, err = openpgp.CheckArmoredDetachedSignature(
		openpgp.EntityList{entity}, bytes.NewReader(payload), bytes.NewReader(signature))
	require.NoError(t, err)
}

func TestLoadPGPSignerSelectsByKeyID(t *testing.T) {
	t.Parallel()

	entity, armored := newArmoredKey(t)

	signer, err := signing.LoadPGPSigner(strings.NewReader(armored), "0x"+entity.PrimaryKey.KeyIdShortString(), "")
	require.NoError(t, err)
	require.Equal(t, entity.PrimaryKey.KeyIdString(), signer.KeyID())

	_, err = signing.LoadPGPSigner(strings.NewReader(armored), "DEADBEEF", "")
	require.ErrorIs(t, err, signing.ErrKeyNotFound)
}

func TestLoadPGPSignerRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := signing.LoadPGPSigner(strings.NewReader("not a key"), "", "")
	require.Error(t, err)
}

func TestPGPSignerHonoursCancellation(t *testing.T) {
	t.Parallel()

	entity, _ := newArmoredKey(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := signing.NewPGPSigner(entity).Sign(ctx, strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}
