// Package topology compiles a cluster configuration into an ordered plan of
// node instances.
//
// Compilation is a pure function of the configuration and the results of two
// host lookups (public IP and upstream nameservers), which run exactly once
// per [Compiler.Compile] call. Roles are described by a single lookup table
// holding count, sizing, fixed address offset, templates and variable
// projection, so adding a role means adding one table entry.
package topology
