package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/central-publisher/internal/checksum"
	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/pom"
)

// Config holds everything needed to bundle, publish and track one library version.
type Config struct {
	// Coordinate identifies the published library.
	Coordinate artifact.Coordinate `yaml:"coordinate"`
	// ComponentType selects the required artifact set, "java" or "versionCatalog".
	ComponentType artifact.ComponentType `yaml:"component_type"`
	// PublishingType is AUTOMATIC or USER_MANAGED.
	PublishingType deployment.PublishingType `yaml:"publishing_type"`
	// DeploymentName is shown in the portal, "<artifactId>-<version>" when empty.
	DeploymentName string `yaml:"deployment_name,omitempty"`
	// Credentials authenticate publisher API calls.
	Credentials Credentials `yaml:"credentials"`
	// PublisherURL is the publisher API root, the public one when empty.
	PublisherURL string `yaml:"publisher_url,omitempty"`
	// BuildDir receives the staged bundle, the archive and the deployment record.
	BuildDir string `yaml:"build_dir"`
	// SourceDir is where artifact paths are resolved.
	SourceDir string `yaml:"source_dir"`
	// Artifacts are the produced files to publish.
	Artifacts []artifact.File `yaml:"artifacts"`
	// Checksums are extra checksum algorithms on top of MD5 and SHA-1.
	Checksums []checksum.Algorithm `yaml:"checksums,omitempty"`
	// Signing locates the OpenPGP key used for detached signatures.
	Signing Signing `yaml:"signing"`
	// Timeout bounds each publisher API call.
	Timeout time.Duration `yaml:"timeout"`
	// Poll configures waiting for a deployment to settle.
	Poll Poll `yaml:"poll"`
	// POM is used to generate a POM when no pom artifact is listed.
	POM *pom.Metadata `yaml:"pom,omitempty"`
}

// Credentials for the publisher API. Password and token are never saved.
type Credentials struct {
	// Username is the user token name.
	Username string `yaml:"username,omitempty"`
	// Password is the user token secret.
	Password string `yaml:"password,omitempty"`
	// Token is a ready to use bearer token.
	Token string `yaml:"token,omitempty"`
}

// Signing locates the OpenPGP secret key.
type Signing struct {
	// KeyFile is an ASCII-armored secret key ring.
	KeyFile string `yaml:"key_file"`
	// KeyID selects a key from the ring, the first secret key is used when empty.
	KeyID string `yaml:"key_id,omitempty"`
	// Passphrase unlocks the key. Only read from the environment.
	Passphrase string `yaml:"-"`
}

// Poll configures the status wait loop.
type Poll struct {
	// Interval is the delay before the first re-query.
	Interval time.Duration `yaml:"interval"`
	// MaxInterval caps the growing delay between queries.
	MaxInterval time.Duration `yaml:"max_interval"`
	// Timeout bounds the whole wait.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for publication settings.
	DefaultConfigFilename = "central-publisher.yaml"

	// DefaultBuildDir is the default staging directory.
	DefaultBuildDir = "build/central-publisher"

	// DefaultTimeout is the default duration of one publisher API call.
	DefaultTimeout = 5 * time.Minute

	// DefaultPollInterval is the default delay between status queries.
	DefaultPollInterval = 5 * time.Second

	// DefaultPollMaxInterval is the default upper bound of the delay between status queries.
	DefaultPollMaxInterval = time.Minute

	// DefaultPollTimeout is the default bound of a wait for a deployment to settle.
	DefaultPollTimeout = 30 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	errRequired         = errors.New("must be provided")
	errInvalidURL       = errors.New("must be an absolute http(s) URL")
	errMissingKind      = errors.New("a pom artifact or pom metadata must be provided")
	errNegativeDuration = errors.New("must not be negative")
)

// Load reads configuration from the provided path, applies environment
// overrides and resolves relative paths against the directory of the file.
// The result has defaults applied but is not validated, commands validate
// the subset they need.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	ApplyEnvironment(&cfg, os.LookupEnv)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}

	cfg.ResolvePaths(filepath.Dir(absPath))
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Save writes the settings to the provided path without secrets.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := ValidateBundle(cfg); err != nil {
		return err
	}

	stripped := *cfg
	stripped.Credentials.Password = ""
	stripped.Credentials.Token = ""

	data, err := yaml.Marshal(&stripped)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// ResolvePaths makes build, source and key paths absolute relative to base.
func (c *Config) ResolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}

		return filepath.Join(base, p)
	}

	if c.BuildDir == "" {
		c.BuildDir = DefaultBuildDir
	}

	if c.SourceDir == "" {
		c.SourceDir = "."
	}

	c.BuildDir = resolve(c.BuildDir)
	c.SourceDir = resolve(c.SourceDir)
	c.Signing.KeyFile = resolve(c.Signing.KeyFile)
}

// ApplyDefaults fills every unset optional setting.
func (c *Config) ApplyDefaults() {
	if c.BuildDir == "" {
		c.BuildDir = DefaultBuildDir
	}

	if c.SourceDir == "" {
		c.SourceDir = "."
	}

	if c.ComponentType == "" {
		c.ComponentType = artifact.ComponentJava
	}

	if c.PublishingType == "" {
		c.PublishingType = deployment.Automatic
	}

	if c.DeploymentName == "" && c.Coordinate.ArtifactID != "" && c.Coordinate.Version != "" {
		c.DeploymentName = c.Coordinate.BaseName()
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Poll.Interval == 0 {
		c.Poll.Interval = DefaultPollInterval
	}

	if c.Poll.MaxInterval == 0 {
		c.Poll.MaxInterval = DefaultPollMaxInterval
	}

	if c.Poll.Timeout == 0 {
		c.Poll.Timeout = DefaultPollTimeout
	}
}

// Validate checks everything a full publish needs.
func Validate(cfg *Config) error {
	if err := ValidateBundle(cfg); err != nil {
		return err
	}

	return ValidateRemote(cfg)
}

// ValidateBundle checks the settings needed to stage and archive a bundle
// and normalizes enumerations to their canonical spelling.
func ValidateBundle(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.ApplyDefaults()

	if err := validateCoordinate(cfg.Coordinate); err != nil {
		return err
	}

	componentType, err := artifact.ParseComponentType(string(cfg.ComponentType))
	if err != nil {
		return fieldError("component_type", err)
	}

	cfg.ComponentType = componentType

	publishingType, err := deployment.ParsePublishingType(string(cfg.PublishingType))
	if err != nil {
		return fieldError("publishing_type", err)
	}

	cfg.PublishingType = publishingType

	if err = validateArtifacts(cfg); err != nil {
		return err
	}

	for i, raw := range cfg.Checksums {
		algorithm, err := checksum.ParseAlgorithm(string(raw))
		if err != nil {
			return fieldError(fmt.Sprintf("checksums[%d]", i), err)
		}

		cfg.Checksums[i] = algorithm
	}

	if strings.TrimSpace(cfg.Signing.KeyFile) == "" {
		return fieldError("signing.key_file", errRequired)
	}

	return validateDurations(cfg)
}

// ValidateRemote checks the settings needed to talk to the publisher API.
func ValidateRemote(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.ApplyDefaults()

	creds := cfg.Credentials
	if creds.Token == "" && (creds.Username == "" || creds.Password == "") {
		if creds.Username == "" {
			return fieldError("credentials.username", errRequired)
		}

		return fieldError("credentials.password", errRequired)
	}

	if cfg.PublisherURL != "" {
		parsed, err := url.ParseRequestURI(cfg.PublisherURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fieldError("publisher_url", errInvalidURL)
		}
	}

	return validateDurations(cfg)
}

func validateCoordinate(coord artifact.Coordinate) error {
	err := coord.Validate()

	switch {
	case err == nil:
		return nil
	case errors.Is(err, artifact.ErrMissingGroupID):
		return fieldError("coordinate.group_id", err)
	case errors.Is(err, artifact.ErrMissingArtifactID):
		return fieldError("coordinate.artifact_id", err)
	case errors.Is(err, artifact.ErrMissingVersion):
		return fieldError("coordinate.version", err)
	default:
		return fieldError("coordinate", err)
	}
}

func validateArtifacts(cfg *Config) error {
	hasPOM := false

	for i := range cfg.Artifacts {
		file := &cfg.Artifacts[i]

		kind, err := artifact.ParseKind(string(file.Kind))
		if err != nil {
			return fieldError(fmt.Sprintf("artifacts[%d].kind", i), err)
		}

		file.Kind = kind

		if strings.TrimSpace(file.Path) == "" {
			return fieldError(fmt.Sprintf("artifacts[%d].path", i), errRequired)
		}

		hasPOM = hasPOM || kind == artifact.KindPOM
	}

	files := cfg.Artifacts

	if !hasPOM {
		if cfg.POM.IsZero() {
			return fieldError("artifacts", errMissingKind)
		}

		if err := cfg.POM.Validate(); err != nil {
			return fieldError("pom", err)
		}

		files = append(files[:len(files):len(files)], artifact.File{Kind: artifact.KindPOM})
	}

	if err := cfg.ComponentType.CheckFiles(files); err != nil {
		return fieldError("artifacts", err)
	}

	return nil
}

func validateDurations(cfg *Config) error {
	switch {
	case cfg.Timeout < 0:
		return fieldError("timeout", errNegativeDuration)
	case cfg.Poll.Interval < 0:
		return fieldError("poll.interval", errNegativeDuration)
	case cfg.Poll.MaxInterval < 0:
		return fieldError("poll.max_interval", errNegativeDuration)
	case cfg.Poll.Timeout < 0:
		return fieldError("poll.timeout", errNegativeDuration)
	}

	return nil
}
