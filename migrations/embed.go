// Package migrations embeds the goose SQL migrations for every backend.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
