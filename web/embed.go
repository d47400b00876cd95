// Package web embeds the page templates and static assets served by the
// pawswipe binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static/*
var static embed.FS

// StaticFS returns the stylesheet and swipe script, rooted at static/.
func StaticFS() fs.FS {
	return mustSub(static, "static")
}

// TemplatesFS returns the layout, partials and page templates.
func TemplatesFS() fs.FS {
	return mustSub(templates, "templates")
}

// mustSub only fails on an invalid directory name, which is fixed at compile time.
func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
