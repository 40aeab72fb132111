// Package checksum writes checksum sibling files next to bundle artifacts.
//
// MD5 and SHA-1 siblings are always produced, other algorithms are opt-in.
// A sibling is named <artifact>.<algorithm id without hyphens> and holds the
// lowercase hex digest without a trailing newline.
package checksum
