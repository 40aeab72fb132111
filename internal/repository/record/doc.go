// Package record implements persistence for the local deployment record.
//
// The FileRepository stores the record as YAML next to the staged bundle so
// that status, drop and promote can find the last uploaded deployment.
package record
