package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/central-publisher/internal/checksum"
	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/domain/deployment"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	return cfgErr.Field
}

// TestValidateBundle checks required fields and normalization.
func TestValidateBundle(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateBundle(Example()))

	missingGroup := Example()
	missingGroup.Coordinate.GroupID = ""
	require.Equal(t, "coordinate.group_id", fieldOf(t, ValidateBundle(missingGroup)))

	badComponent := Example()
	badComponent.ComponentType = "android"
	require.Equal(t, "component_type", fieldOf(t, ValidateBundle(badComponent)))

	badPublishing := Example()
	badPublishing.PublishingType = "LATER"
	require.Equal(t, "publishing_type", fieldOf(t, ValidateBundle(badPublishing)))

	missingJar := Example()
	missingJar.Artifacts = missingJar.Artifacts[1:]
	err := ValidateBundle(missingJar)
	require.Equal(t, "artifacts", fieldOf(t, err))
	require.ErrorIs(t, err, artifact.ErrMissingArtifact)

	noPOM := Example()
	noPOM.POM = nil
	require.Equal(t, "artifacts", fieldOf(t, ValidateBundle(noPOM)))

	badChecksum := Example()
	badChecksum.Checksums = []checksum.Algorithm{"crc32"}
	require.Equal(t, "checksums[0]", fieldOf(t, ValidateBundle(badChecksum)))

	noKey := Example()
	noKey.Signing.KeyFile = ""
	require.Equal(t, "signing.key_file", fieldOf(t, ValidateBundle(noKey)))

	negative := Example()
	negative.Poll.Timeout = -time.Second
	require.Equal(t, "poll.timeout", fieldOf(t, ValidateBundle(negative)))
}

// TestValidateBundleNormalizes checks that enumerations get their canonical spelling.
func TestValidateBundleNormalizes(t *testing.T) {
	t.Parallel()

	cfg := Example()
	cfg.PublishingType = "user_managed"
	cfg.Checksums = []checksum.Algorithm{"SHA256", "blake3"}
	cfg.Artifacts[0].Kind = "JAR"

	require.NoError(t, ValidateBundle(cfg))
	require.Equal(t, deployment.UserManaged, cfg.PublishingType)
	require.Equal(t, []checksum.Algorithm{checksum.SHA256, checksum.BLAKE3}, cfg.Checksums)
	require.Equal(t, artifact.KindJar, cfg.Artifacts[0].Kind)
}

// TestValidateRemote checks credential and URL validation.
func TestValidateRemote(t *testing.T) {
	t.Parallel()

	cfg := Example()
	require.Equal(t, "credentials.password", fieldOf(t, ValidateRemote(cfg)))

	cfg.Credentials = Credentials{}
	require.Equal(t, "credentials.username", fieldOf(t, ValidateRemote(cfg)))

	cfg.Credentials = Credentials{Token: "token"}
	require.NoError(t, ValidateRemote(cfg))

	cfg.PublisherURL = "ftp://example.com"
	require.Equal(t, "publisher_url", fieldOf(t, ValidateRemote(cfg)))

	cfg.PublisherURL = "https://repo.example.com/api/v1/publisher"
	require.NoError(t, Validate(cfg))
}

// TestApplyEnvironment checks that secrets come from the environment.
func TestApplyEnvironment(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvPassword:          "secret",
		EnvSigningPassphrase: "phrase",
		EnvToken:             "",
	}

	cfg := Example()
	ApplyEnvironment(cfg, func(key string) (string, bool) {
		value, ok := env[key]

		return value, ok
	})

	require.Equal(t, "portal-token-name", cfg.Credentials.Username)
	require.Equal(t, "secret", cfg.Credentials.Password)
	require.Empty(t, cfg.Credentials.Token)
	require.Equal(t, "phrase", cfg.Signing.Passphrase)
}

// TestSaveLoadRoundtrip ensures settings are persisted without secrets and loaded back.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := Example()
	cfg.Credentials.Password = "do-not-save"
	cfg.Signing.Passphrase = "do-not-save-either"

	require.NoError(t, Save(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "do-not-save")
	require.Contains(t, string(raw), "interval: 5s")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())

	var loaded Config

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(contents, &loaded))
	require.Equal(t, cfg.Coordinate, loaded.Coordinate)
	require.Equal(t, cfg.Artifacts[0].Path, loaded.Artifacts[0].Path)
	require.Equal(t, cfg.Poll, loaded.Poll)
	require.Equal(t, cfg.POM.Licenses, loaded.POM.Licenses)
}

// TestLoadResolvesPaths checks defaults and path resolution against the file directory.
func TestLoadResolvesPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "central-publisher.yaml")

	contents := `coordinate:
  group_id: com.example
  artifact_id: foo
  version: 1.0.0
artifacts:
  - path: libs/foo.jar
    kind: jar
signing:
  key_file: keys/secret.asc
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DefaultBuildDir), cfg.BuildDir)
	require.Equal(t, dir, cfg.SourceDir)
	require.Equal(t, filepath.Join(dir, "keys", "secret.asc"), cfg.Signing.KeyFile)
	require.Equal(t, artifact.ComponentJava, cfg.ComponentType)
	require.Equal(t, deployment.Automatic, cfg.PublishingType)
	require.Equal(t, "foo-1.0.0", cfg.DeploymentName)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultPollInterval, cfg.Poll.Interval)
}

// TestLoadMissingFile checks the error for an absent settings file.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestSaveRejectsNil checks that nil configurations are refused.
func TestSaveRejectsNil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil), errConfigIsNotSet)
}
