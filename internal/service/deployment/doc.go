// Package deployment implements the commands acting on an uploaded deployment:
// querying its state, dropping it and promoting a validated USER_MANAGED deployment.
// The deployment defaults to the one recorded by the last publish in the build directory.
package deployment
