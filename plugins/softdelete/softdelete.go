// Package softdelete hides soft-deleted rows by ANDing "<column> IS NULL"
// into a statement's WHERE clause, once per table the statement reads from.
//
//	sd := softdelete.New(
//	    softdelete.WithColumn("removed_at"),
//	    softdelete.WithTableColumn("posts", "archived_at"),
//	)
//	query := managers.NewSelectManager(users).Use(sd)
//
// Without options every table in FROM and JOIN gets "deleted_at" IS NULL.
// WithTables and WithTableColumn narrow the set of tables. A table declared
// with columns must declare the soft-delete column too, or the rewritten
// statement fails validation.
package softdelete

import (
	"fmt"

	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/plugins"
	"github.com/bawdo/selekt/sqltypes"
)

// DefaultColumn is the column checked when no option overrides it.
const DefaultColumn = "deleted_at"

// SoftDelete is a plugins.Transformer. The zero value is not usable; call New.
type SoftDelete struct {
	column   string
	perTable map[string]string
	only     map[string]bool // nil: every table
}

// Option configures a SoftDelete.
type Option func(*SoftDelete)

// WithColumn replaces DefaultColumn.
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.column = name }
}

// WithTables limits the filter to the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		sd.only = make(map[string]bool, len(names))
		for _, n := range names {
			sd.only[n] = true
		}
	}
}

// WithTableColumn filters table on column. Each call also adds table to the
// set the filter is limited to.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.perTable == nil {
			sd.perTable = map[string]string{}
		}
		if sd.only == nil {
			sd.only = map[string]bool{}
		}
		sd.perTable[table] = column
		sd.only[table] = true
	}
}

func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{column: DefaultColumn}
	for _, opt := range opts {
		opt(sd)
	}
	return sd
}

var _ plugins.Transformer = (*SoftDelete)(nil)

// TransformSelect returns stmt filtered on every matching table in its
// source. stmt itself is left untouched.
func (sd *SoftDelete) TransformSelect(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	for _, ref := range plugins.CollectTables(stmt.Source()) {
		col, ok := sd.columnFor(ref.Name)
		if !ok {
			continue
		}
		deletedAt := nodes.NewAttribute(ref.Relation, col, sqltypes.Nullable{Inner: sqltypes.Timestamp})
		next, err := stmt.Filter(deletedAt.IsNull())
		if err != nil {
			return nil, fmt.Errorf("softdelete %s.%s: %w", ref.Name, col, err)
		}
		stmt = next
	}
	return stmt, nil
}

// columnFor reports the column to check on table, or false when table is
// out of scope.
func (sd *SoftDelete) columnFor(table string) (string, bool) {
	if sd.only != nil && !sd.only[table] {
		return "", false
	}
	if col, ok := sd.perTable[table]; ok {
		return col, true
	}
	return sd.column, true
}
