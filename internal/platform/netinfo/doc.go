// Package netinfo looks up facts about the host the generator runs on: its
// public IPv4 address and the upstream nameservers from its resolver
// configuration. The router node needs both.
package netinfo
