// Package migrations embeds SQL migration files into the binary.
//
// Importing this package registers the embedded files with the database
// package, so the history schema can be created without any SQL files
// present on disk.
package migrations

import (
	"embed"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
