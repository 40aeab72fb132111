package config

// Environment variables overriding secrets and the username.
const (
	EnvUsername          = "CENTRAL_PUBLISHER_USERNAME"
	EnvPassword          = "CENTRAL_PUBLISHER_PASSWORD"
	EnvToken             = "CENTRAL_PUBLISHER_TOKEN"
	EnvSigningPassphrase = "CENTRAL_PUBLISHER_SIGNING_PASSPHRASE"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnvironment overrides credentials and the signing passphrase with
// non-empty environment values.
func ApplyEnvironment(cfg *Config, lookup LookupFunc) {
	if cfg == nil || lookup == nil {
		return
	}

	set := func(dst *string, key string) {
		if value, ok := lookup(key); ok && value != "" {
			*dst = value
		}
	}

	set(&cfg.Credentials.Username, EnvUsername)
	set(&cfg.Credentials.Password, EnvPassword)
	set(&cfg.Credentials.Token, EnvToken)
	set(&cfg.Signing.Passphrase, EnvSigningPassphrase)
}
