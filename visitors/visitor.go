// Package visitors renders query fragments to SQL. A Visitor is the pass a
// fragment walks into: it accumulates SQL text and bind parameters in
// lockstep, with the quoting and placeholders of one backend.
package visitors

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/sqltypes"
)

// ErrUnsupportedLiteral is returned when debug rendering cannot inline a
// bound value.
var ErrUnsupportedLiteral = errors.New("unsupported literal type")

// Option configures a visitor at construction time.
type Option func(*Visitor)

// WithParams enables parameterized query mode. When enabled, bound values
// are replaced with placeholders and collected for separate retrieval.
//
// Parameterized mode is the default; the option exists so call sites can
// state it explicitly.
func WithParams() Option {
	return func(v *Visitor) {
		v.parameterize = true
	}
}

// WithoutParams disables parameterized query mode.
//
// WARNING: bound values are interpolated into the SQL text with basic
// escaping only. Use it for logging and debugging, never for SQL that is
// sent to a database.
func WithoutParams() Option {
	return func(v *Visitor) {
		v.parameterize = false
	}
}

// SQLOnly renders text and placeholders but does not retain bound values.
func SQLOnly() Option {
	return func(v *Visitor) {
		v.collectBinds = false
	}
}

// BindsOnly collects bound values without building SQL text. It serves
// callers that already hold the text for a statement of the same shape.
func BindsOnly() Option {
	return func(v *Visitor) {
		v.collectSQL = false
	}
}

// Visitor implements nodes.Pass for one backend.
type Visitor struct {
	backend backend.Backend
	dialect *backend.Dialect
	err     error // set when backend has no dialect

	// parameterize enables bind-parameter mode.
	parameterize bool

	collectSQL   bool
	collectBinds bool

	// pretty puts each top-level clause on its own line.
	pretty bool
	depth  int

	buf    []byte
	params []any
	types  []sqltypes.SQLType

	// paramIndex tracks the last parameter number (1-based).
	paramIndex int
}

var (
	_ nodes.Pass       = (*Visitor)(nil)
	_ nodes.ClausePass = (*Visitor)(nil)
)

// New creates a visitor for b. A visitor for an unknown backend renders
// nothing; Walk and Err report backend.ErrUnknownBackend.
func New(b backend.Backend, opts ...Option) *Visitor {
	v := &Visitor{
		backend:      b,
		dialect:      b.Dialect(),
		parameterize: true,
		collectSQL:   true,
		collectBinds: true,
	}
	if v.dialect == nil {
		v.err = fmt.Errorf("visitors: %w: %v", backend.ErrUnknownBackend, b)
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Err reports whether the visitor was built for an unknown backend.
func (v *Visitor) Err() error { return v.err }

func (v *Visitor) Backend() backend.Backend { return v.backend }

func (v *Visitor) PushSQL(sql string) {
	if v.collectSQL {
		v.buf = append(v.buf, sql...)
	}
}

func (v *Visitor) PushIdentifier(name string) {
	if v.collectSQL && v.dialect != nil {
		v.buf = append(v.buf, v.dialect.QuoteIdent(name)...)
	}
}

func (v *Visitor) PushBindParam(value any, t sqltypes.SQLType) error {
	if v.err != nil {
		return v.err
	}
	if !v.parameterize {
		lit, err := v.inline(value)
		if err != nil {
			return err
		}
		v.PushSQL(lit)
		return nil
	}
	v.paramIndex++
	if v.collectSQL {
		v.buf = append(v.buf, v.dialect.Placeholder(v.paramIndex)...)
	}
	if v.collectBinds {
		v.params = append(v.params, value)
		v.types = append(v.types, t)
	}
	return nil
}

// inline renders value as an escaped SQL literal.
func (v *Visitor) inline(value any) (string, error) {
	switch x := value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + backend.EscapeString(x) + "'", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case time.Time:
		return "'" + x.UTC().Format("2006-01-02 15:04:05.999999") + "'", nil
	default:
		return "", fmt.Errorf("%w %T", ErrUnsupportedLiteral, value)
	}
}

// SQL returns the text accumulated so far.
func (v *Visitor) SQL() string { return string(v.buf) }

// Params returns the collected bind parameters, in placeholder order.
func (v *Visitor) Params() []any { return v.params }

// ParamTypes returns the declared SQL type of each collected parameter.
func (v *Visitor) ParamTypes() []sqltypes.SQLType { return v.types }

// Reset clears collected text and parameters for reuse.
func (v *Visitor) Reset() {
	v.buf = v.buf[:0]
	v.params = nil
	v.types = nil
	v.paramIndex = 0
	v.depth = 0
}

type mark struct {
	buf, params, index, depth int
}

func (v *Visitor) mark() mark {
	return mark{buf: len(v.buf), params: len(v.params), index: v.paramIndex, depth: v.depth}
}

func (v *Visitor) rollback(m mark) {
	v.buf = v.buf[:m.buf]
	v.params = v.params[:m.params]
	v.types = v.types[:m.params]
	v.paramIndex = m.index
	v.depth = m.depth
}
