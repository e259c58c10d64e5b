// Package migrations embeds the goose migrations for the local storage file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
