// Package deployment models a remote deployment: its identifier, the
// publishing mode requested at upload time, and the status state machine
// PENDING → VALIDATING → (VALIDATED → PUBLISHING → PUBLISHED) | FAILED.
package deployment
