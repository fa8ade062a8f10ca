package pubstatic

import "embed"

// EmbeddedAssets contains the static assets every built site ships with:
// search.js, style.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
