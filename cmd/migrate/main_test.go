package main

import (
	"testing"
	"testing/fstest"
)

func TestLoadEmbeddedMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "init" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "news_pipeline" {
		t.Fatalf("unexpected second migration: %+v", migrations[1])
	}
	for _, m := range migrations {
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Fatalf("migration %d missing up or down sql", m.Version)
		}
	}
}

func TestLoadMigrationsRejectsMissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_init.up.sql": {Data: []byte("CREATE TABLE t (id INT);")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for missing down migration")
	}
}

func TestLoadMigrationsRejectsBadFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/badname.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for invalid filename")
	}
}

func TestLoadMigrationsRejectsEmptyFile(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_init.up.sql":   {Data: []byte("   ")},
		"migrations/0001_init.down.sql": {Data: []byte("DROP TABLE t;")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for empty migration file")
	}
}
