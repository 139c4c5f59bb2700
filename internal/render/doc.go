// Package render turns a compiled plan into files on disk.
//
// Templates use ${NAME} placeholders. Rendering is strict: a placeholder
// without a value is an error and nothing is written. "$${" produces a
// literal "${", and other "$" characters are copied through, so shell
// scripts only need escaping for brace expansions.
//
// Every output file is replaced atomically. Rendering the same plan twice
// produces byte-identical files.
package render
