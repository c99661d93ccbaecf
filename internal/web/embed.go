package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var assets embed.FS

// StaticFS holds css, js and images below their own folder names.
func StaticFS() fs.FS {
	return sub("static")
}

// TemplatesFS holds the site, dashboard and layout templates.
func TemplatesFS() fs.FS {
	return sub("templates")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(assets, dir)
	if err != nil {
		// only fails for invalid names
		panic(err)
	}

	return f
}
