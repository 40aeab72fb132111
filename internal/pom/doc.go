// Package pom renders the project descriptor uploaded next to the artifacts
// when the build does not produce one itself.
package pom
