// Package artifact contains the domain types describing what gets published.
//
// A Coordinate (groupId, artifactId, version) fully determines the repository
// path of a bundle; Kind and File describe the artifacts placed under that path,
// and ComponentType lists which kinds a publication must contain.
package artifact
