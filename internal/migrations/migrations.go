// Package migrations embeds the goose migrations of the decision journal.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
