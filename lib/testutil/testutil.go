// Package testutil holds shared fixtures for service tests.
package testutil

import (
	"database/sql"
	"strings"
	"testing"

	"hiscores-backend/lib/telemetry"

	_ "modernc.org/sqlite"
)

// Setup initializes telemetry for a test package. Cleanup is
// registered on t.
func Setup(t testing.TB, name string) {
	cleanup := telemetry.SetupForTesting(t, "test:"+name)
	t.Cleanup(cleanup)
}

// OpenTestDB opens an in-memory sqlite database with the given schema
// applied and closes it when the test ends.
func OpenTestDB(t testing.TB, schema string) *sql.DB {
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}
	return database
}
