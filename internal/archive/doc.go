// Package archive packages an aggregated bundle tree into a single zip file.
//
// Archives are reproducible: entries are written in lexicographic order with a
// fixed modification time and mode, so identical trees yield identical bytes.
package archive
