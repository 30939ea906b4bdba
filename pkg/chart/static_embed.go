package chart

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var embeddedStatic embed.FS

// staticFS exposes the embedded dashboard page.
func staticFS() http.FileSystem {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return http.FS(embeddedStatic)
	}
	return http.FS(sub)
}
