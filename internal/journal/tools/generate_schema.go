package main

import (
	"fmt"
	"os"
	"path/filepath"

	"dupcheck/internal/journal"
	"dupcheck/internal/journal/migrations"
)

const header = `-- Generated from internal/journal/migrations/files by go generate.
-- Do not edit.

`

func main() {
	db, err := journal.OpenConnection(":memory:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		fmt.Fprintf(os.Stderr, "applying migrations: %v\n", err)
		os.Exit(1)
	}

	schema, err := journal.Schema(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extracting schema: %v\n", err)
		os.Exit(1)
	}

	out := filepath.Join("internal", "journal", "schema.sql")
	if err := os.WriteFile(out, []byte(header+schema), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("generated %s\n", out)
}
