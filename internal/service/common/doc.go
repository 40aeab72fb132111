// Package common holds helpers shared by several services.
//
// It provides a publisher API client wrapper with per-call timeouts and
// utilities to detect the current system actor (hostname/username) that is
// stored in the deployment record.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
