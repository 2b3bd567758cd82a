package pg

import (
	"embed"
	"io/fs"
)

//go:embed migrations/identity/*.sql
var identityFS embed.FS

//go:embed migrations/reports/*.sql
var reportsFS embed.FS

// IdentityMigrations is the companies schema, applied by the identity
// service at startup.
func IdentityMigrations() fs.FS {
	sub, err := fs.Sub(identityFS, "migrations/identity")
	if err != nil {
		panic(err)
	}
	return sub
}

// ReportsMigrations is the reports schema, applied by the reports service
// at startup.
func ReportsMigrations() fs.FS {
	sub, err := fs.Sub(reportsFS, "migrations/reports")
	if err != nil {
		panic(err)
	}
	return sub
}
