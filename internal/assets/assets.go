// Package assets embeds the tour client JavaScript and CSS
package assets

import (
	"embed"
	"io/fs"
)

//go:embed client/*
var clientFS embed.FS

// Client file names served under /assets/.
const (
	ClientJS  = "tour.js"
	ClientCSS = "tour.css"
)

// ClientFS returns the embedded client files
func ClientFS() fs.FS {
	sub, err := fs.Sub(clientFS, "client")
	if err != nil {
		panic(err)
	}
	return sub
}
