// Package migrations holds the goose SQL migrations for the definitions store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
