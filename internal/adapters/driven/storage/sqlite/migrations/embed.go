// Package migrations embeds the numbered schema files applied by
// sqlite.NewStore, oldest first.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
