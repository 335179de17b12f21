// Package formats provides the binary writer used by the texture compiler and
// a reader for the texture info stream it produces.
package formats
