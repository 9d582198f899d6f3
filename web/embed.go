// Package web provides the embedded public page template and static
// assets. The public renderer compiles the template once at startup;
// there is no on-disk lookup in production.
package web

import "embed"

// TemplatesFS embeds the web/templates/ directory tree.
//
//go:embed templates
var TemplatesFS embed.FS

// StaticFS embeds the web/static/ directory tree, served at /static/.
//
//go:embed static
var StaticFS embed.FS
