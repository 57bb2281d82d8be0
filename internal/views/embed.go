// Package views holds the portal's HTML templates, embedded so the binary is
// self-contained.
package views

import "embed"

//go:embed *.html
var FS embed.FS
