package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"       //nolint:staticcheck // Matches the signer implementation.
	"golang.org/x/crypto/openpgp/armor" //nolint:staticcheck // Matches the signer implementation.

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/api/central/centraltest"
	"github.com/oshokin/central-publisher/internal/config"
)

// testPassword is the portal token secret; it is never written to the configuration file.
const testPassword = "s3cr3t-portal-token"

// project is a temporary library checkout with built artifacts and a signing key.
type project struct {
	dir        string
	configPath string
	portal     *centraltest.Server
}

// newProject writes artifacts, an armored signing key and a saved configuration
// pointing at a fresh fake portal.
func newProject(t *testing.T) *project {
	t.Helper()

	dir := t.TempDir()

	portal := centraltest.NewServer(central.Credentials{Username: "portal-token-name", Password: testPassword})
	t.Cleanup(portal.Close)

	cfg := config.Example()
	cfg.PublisherURL = portal.URL
	cfg.Poll = config.Poll{
		Interval:    time.Millisecond,
		MaxInterval: 5 * time.Millisecond,
		Timeout:     5 * time.Second,
	}

	for _, file := range cfg.Artifacts {
		target := filepath.Join(dir, filepath.FromSlash(file.Path))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte("compiled "+file.Path), 0o644))
	}

	entity, err := openpgp.NewEntity("Release Bot", "", "release@example.com", nil)
	require.NoError(t, err)

	var key bytes.Buffer

	w, err := armor.Encode(&key, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, cfg.Signing.KeyFile), key.Bytes(), 0o600))

	configPath := filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, config.Save(configPath, cfg))

	return &project{dir: dir, configPath: configPath, portal: portal}
}

// load reads the saved configuration back and supplies the secret the way the environment would.
func (p *project) load(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load(p.configPath)
	require.NoError(t, err)
	require.Empty(t, cfg.Credentials.Password)

	cfg.Credentials.Password = testPassword

	return cfg
}
