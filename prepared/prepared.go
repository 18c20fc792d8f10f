// Package prepared executes rendered statements through database/sql,
// reusing one prepared statement per statement shape.
package prepared

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bawdo/selekt/backend"
)

// Open connects to dsn with the driver registered for b and pings it.
func Open(ctx context.Context, b backend.Backend, dsn string) (*sql.DB, error) {
	d := b.Dialect()
	if d == nil {
		return nil, fmt.Errorf("open: %w: %v", backend.ErrUnknownBackend, b)
	}
	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
