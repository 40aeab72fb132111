// Package bundle materializes artifacts into the repository layout
// <group/as/path>/<artifactId>/<version>/ on a go-billy filesystem.
//
// The Aggregator places files, the Bundle value describes the result, and Walk
// traverses a tree in lexicographic order so that later stages (signing,
// hashing, archiving) see the files in a stable order.
package bundle
