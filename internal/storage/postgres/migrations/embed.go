// Package migrations embeds the SQL schema files so the server can migrate
// without shipping them on the filesystem.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
