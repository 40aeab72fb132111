// Package config defines the publication settings shared by every command and
// provides helpers to load, validate and save them in YAML format.
//
// Secrets are never written back to disk: passwords, tokens and the signing
// passphrase may be supplied through environment variables instead.
package config
