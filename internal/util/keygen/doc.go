// Package keygen generates ed25519 key pairs for SSH access to planned nodes.
//
// Keys are produced in OpenSSH PEM format (private) and authorized_keys
// format (public); the public half is injected into every node's user-data.
package keygen
