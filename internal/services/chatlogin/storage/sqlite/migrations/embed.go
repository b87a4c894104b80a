// Package migrations embeds the terminal client state schema.
package migrations

import "embed"

// FS holds the client state migrations.
//
//go:embed *.sql
var FS embed.FS
