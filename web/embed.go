// Package web embeds the built React static assets for single-binary distribution.
package web

import "embed"

// Assets contains the React production build output.
// The dist/ directory is created by `npm run build` in the web/ directory.
//
//go:embed all:dist
var Assets embed.FS
