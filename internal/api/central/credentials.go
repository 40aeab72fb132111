package central

import (
	"encoding/base64"
	"errors"
)

// ErrMissingCredentials is returned when neither a token nor a username/password pair is set.
var ErrMissingCredentials = errors.New("publisher credentials must be provided: token or username and password")

// Credentials authenticate publisher API calls.
// A token takes precedence over the username/password pair.
type Credentials struct {
	// Username is the user token name generated by the portal.
	Username string
	// Password is the user token secret.
	Password string
	// Token is a ready to use bearer token.
	Token string
}

// Validate checks that one complete credential is present.
func (c Credentials) Validate() error {
	if c.Token != "" || (c.Username != "" && c.Password != "") {
		return nil
	}

	return ErrMissingCredentials
}

// Authorization returns the Authorization header value.
func (c Credentials) Authorization() string {
	return "Bearer " + c.bearer()
}

// String never reveals secrets.
func (c Credentials) String() string {
	switch {
	case c.Token != "":
		return "token(*****)"
	case c.Username != "":
		return c.Username + ":*****"
	default:
		return "<none>"
	}
}

func (c Credentials) bearer() string {
	if c.Token != "" {
		return c.Token
	}

	return base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
}

// minSecretLength is the shortest raw token or password masked in response text.
// Shorter values match ordinary words and would corrupt server messages.
const minSecretLength = 8

// secrets returns every value that must never be printed.
// The encoded bearer value is always included.
func (c Credentials) secrets() []string {
	secrets := []string{c.bearer()}

	for _, secret := range []string{c.Token, c.Password} {
		if len(secret) >= minSecretLength && secret != secrets[0] {
			secrets = append(secrets, secret)
		}
	}

	return secrets
}
