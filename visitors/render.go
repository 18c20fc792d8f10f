package visitors

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
)

// Walk runs the structured walk of f into v. Text and bind values are
// appended to whatever v already holds, so several fragments can share one
// placeholder sequence. If the walk fails, v is left exactly as it was
// before the call.
func Walk(f nodes.QueryFragment, v *Visitor) error {
	if v.err != nil {
		return v.err
	}
	m := v.mark()
	if err := f.WalkAST(v); err != nil {
		v.rollback(m)
		return err
	}
	return nil
}

// ToSQL renders f for backend b as SQL with placeholders. Bound values are
// not retained.
func ToSQL(f nodes.QueryFragment, b backend.Backend) (string, error) {
	v := New(b, SQLOnly())
	if err := Walk(f, v); err != nil {
		return "", err
	}
	return v.SQL(), nil
}

// Build renders f for backend b and returns the SQL together with its bind
// parameters.
func Build(f nodes.QueryFragment, b backend.Backend) (string, []any, error) {
	v := New(b)
	if err := Walk(f, v); err != nil {
		return "", nil, err
	}
	return v.SQL(), v.Params(), nil
}

// DebugSQL renders f with bound values inlined as escaped literals.
// The result is meant for logs and must not be executed.
func DebugSQL(f nodes.QueryFragment, b backend.Backend) (string, error) {
	v := New(b, WithoutParams())
	if err := Walk(f, v); err != nil {
		return "", err
	}
	return v.SQL(), nil
}
