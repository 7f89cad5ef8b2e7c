// Package migrations embeds the schema so the binary can migrate without the source tree.
package migrations

import "embed"

// Postgres holds the files under postgres/, named <version>_<title>.<up|down>.sql.
//
//go:embed postgres/*.sql
var Postgres embed.FS
