package migrations

import "embed"

// Migrations contiene los archivos SQL embebidos para goose.
//
//go:embed *.sql
var Migrations embed.FS
