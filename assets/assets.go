// Package assets embeds the files shipped with every binary: email templates & SQL migrations.
package assets

import "embed"

//go:embed templates migrations
var FS embed.FS

// MigrationsDir is the goose migrations directory inside FS.
const MigrationsDir = "migrations"
