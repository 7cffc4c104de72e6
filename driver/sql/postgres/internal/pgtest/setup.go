package pgtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dogmatiq/sqltest"
)

// Setup creates and returns a new PostgreSQL database connection for use in a
// test. The database is automatically dropped when the test ends.
func Setup(t testing.TB) *sql.DB {
	database, err := sqltest.NewDatabase(
		context.Background(),
		sqltest.PGXDriver,
		sqltest.PostgreSQL,
	)
	if err != nil {
		t.Fatal(err)
	}

	db, err := database.Open()
	if err != nil {
		t.Fatalf("cannot open test database: %s", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Error(err)
		}

		if err := database.Close(); err != nil {
			t.Error(err)
		}
	})

	return db
}
