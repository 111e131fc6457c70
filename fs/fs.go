// Package appfs exposes the application's embedded assets:
// database migrations, email templates, seed fixtures and static assets.
package appfs

import "embed"

//go:embed migrations all:templates fixtures assets
var FS embed.FS
