package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/radahn42/chronicles/migrations"
	_ "modernc.org/sqlite"
)

func main() {
	var storagePath, migrationsPath string

	flag.StringVar(&storagePath, "storage-path", "", "path to SQLite storage")
	flag.StringVar(&migrationsPath, "migrations-path", "", "directory of SQL migrations, embedded set when empty")
	flag.Parse()

	if storagePath == "" {
		log.Fatal("storage-path is required")
	}

	db, err := goose.OpenDBWithDriver("sqlite", storagePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var fsys fs.FS = migrations.FS
	if migrationsPath != "" {
		fsys = os.DirFS(migrationsPath)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		log.Fatalf("failed to create migration provider: %v", err)
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) {
			log.Fatalf("migration %s failed: %v", partial.Failed.Source.Path, partial.Err)
		}
		log.Fatalf("failed to apply migrations: %v", err)
	}

	if len(results) == 0 {
		log.Println("migrations already applied")
		return
	}

	for _, r := range results {
		log.Printf("applied %s in %s", r.Source.Path, r.Duration)
	}
	log.Println("migrations applied successfully")
}
