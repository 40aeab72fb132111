// Package publisher runs the publication pipeline.
//
// The stages run strictly in order: aggregate the artifacts into the
// repository layout, sign them, write checksums, package the tree into one
// archive, upload it and query the resulting deployment. Every failure is
// reported as a StageError naming the stage that failed.
package publisher
