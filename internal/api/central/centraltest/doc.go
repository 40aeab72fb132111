// Package centraltest provides an in-process publisher API for tests.
//
// The fake portal accepts bundle uploads, checks that every artifact carries a
// signature and MD5/SHA-1 checksums, and advances deployments one state per
// status query so waiting code can be exercised without sleeping.
package centraltest
