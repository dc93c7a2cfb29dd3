// Package web embeds the page markup served by the pages handlers.
package web

import "embed"

// Pages holds index.html, directory.html and search.html.
//
//go:embed *.html
var Pages embed.FS
