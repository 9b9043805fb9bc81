// Package db embeds the SQL schema applied on start-up and by seed-db.
package db

import _ "embed"

// Schema creates every table and index used by the site.
//
//go:embed migrations/001_schema.sql
var Schema string
