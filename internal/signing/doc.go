// Package signing attaches detached signatures to bundle artifacts.
//
// The bundle stage only depends on the Signer interface. PGPSigner is the
// default implementation backed by an armored OpenPGP secret key.
package signing
