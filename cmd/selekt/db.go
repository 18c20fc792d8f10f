package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/prepared"
)

const maxRows = 1000

type schemaCache struct {
	tables  []string
	columns map[string][]string // table name -> column names
}

// dbConn is a live connection together with the prepared statement cache
// queries run through.
type dbConn struct {
	db      *sql.DB
	cache   *prepared.Cache
	dsn     string
	backend backend.Backend
	schema  schemaCache
}

func connect(ctx context.Context, b backend.Backend, dsn string, logger *slog.Logger, opts ...prepared.Option) (*dbConn, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := prepared.Open(ctx, b, dsn)
	if err != nil {
		return nil, err
	}
	conn := &dbConn{
		db:      db,
		cache:   prepared.New(db, b, append([]prepared.Option{prepared.WithLogger(logger)}, opts...)...),
		dsn:     dsn,
		backend: b,
	}
	conn.schema.columns = make(map[string][]string)
	if err := conn.loadSchema(ctx); err != nil {
		// Schema introspection only feeds tab completion.
		logger.Warn("schema introspection failed", "error", err)
	}
	return conn, nil
}

func (c *dbConn) close() error {
	cacheErr := c.cache.Close()
	if err := c.db.Close(); err != nil {
		return err
	}
	return cacheErr
}

// execQuery runs stmt through the prepared statement cache and formats the
// result set as a table.
func (c *dbConn) execQuery(ctx context.Context, stmt *nodes.SelectStatement) (string, error) {
	rows, err := c.cache.Query(ctx, stmt)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()
	return formatRows(rows)
}

func formatRows(rows *sql.Rows) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	truncated := false
	for rows.Next() {
		if len(data) >= maxRows {
			truncated = true
			break
		}
		vals := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows: %w", err)
	}

	result := formatTable(columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return result, nil
}

// formatTable renders a result set as an ASCII grid followed by a row count.
func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	grid := table.New().
		Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(_, _ int) lipgloss.Style { return cell }).
		Headers(columns...).
		Rows(rows...)

	noun := "rows"
	if len(rows) == 1 {
		noun = "row"
	}
	return fmt.Sprintf("%s\n(%d %s)\n", grid.Render(), len(rows), noun)
}

var tablesQuery = map[backend.Backend]string{
	backend.Postgres: "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name",
	backend.MySQL:    "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name",
	backend.SQLite:   "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
}

var columnsQuery = map[backend.Backend]string{
	backend.Postgres: "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position",
	backend.MySQL:    "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position",
	backend.SQLite:   "SELECT name FROM pragma_table_info(?)",
}

func (c *dbConn) loadSchema(ctx context.Context) error {
	query, ok := tablesQuery[c.backend]
	if !ok {
		return fmt.Errorf("unsupported engine: %s", c.backend)
	}
	tables, err := c.queryStringColumn(ctx, query)
	if err != nil {
		return err
	}
	c.schema.tables = tables
	return nil
}

func (c *dbConn) schemaTables() []string {
	return c.schema.tables
}

func (c *dbConn) schemaColumns(table string) []string {
	if cols, ok := c.schema.columns[table]; ok {
		return cols
	}
	query, ok := columnsQuery[c.backend]
	if !ok {
		return nil
	}
	cols, err := c.queryStringColumn(context.Background(), query, table)
	if err != nil {
		return nil
	}
	c.schema.columns[table] = cols
	return cols
}

func (c *dbConn) queryStringColumn(ctx context.Context, query string, params ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// sanitizeDSN masks the password in URL-style and MySQL-style DSNs.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuild manually to avoid percent-encoding the mask.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// MySQL-style DSN: user:pass@tcp(host)/db
	if atIdx := strings.Index(dsn, "@"); atIdx > 0 {
		userPass := dsn[:atIdx]
		if colonIdx := strings.Index(userPass, ":"); colonIdx >= 0 {
			return userPass[:colonIdx+1] + "****" + dsn[atIdx:]
		}
	}

	return dsn
}
