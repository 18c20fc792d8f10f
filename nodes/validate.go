package nodes

import (
	"errors"
	"fmt"

	"github.com/bawdo/selekt/sqltypes"
)

var errStarWithoutSource = errors.New("SELECT * requires a table source")

// ValidationError reports a statement rejected at construction time.
type ValidationError struct {
	Rule string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid select statement (%s): %v", e.Rule, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Rule is a construction-time check over a whole statement. The set of
// rules is open: callers add their own through Check.
type Rule struct {
	Name  string
	Check func(*SelectStatement) error
}

// DefaultRules run on every constructed statement.
var DefaultRules = []Rule{SourceRule, PredicateRule, BoundsRule}

// Check runs rules in order and wraps the first failure in a *ValidationError.
func (s *SelectStatement) Check(rules ...Rule) error {
	for _, r := range rules {
		if err := r.Check(s); err != nil {
			return &ValidationError{Rule: r.Name, Err: err}
		}
	}
	return nil
}

// SourceRule rejects a select-list that cannot be used with the source, and
// any column reference the source does not provide.
var SourceRule = Rule{
	Name: "source",
	Check: func(s *SelectStatement) error {
		if err := s.sel.CheckSource(s.from); err != nil {
			return err
		}
		for _, slot := range []any{s.from, s.distinct, s.where, s.groupBy, s.order} {
			if c, ok := slot.(SourceChecker); ok {
				if err := c.CheckSource(s.from); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

// PredicateRule requires the WHERE predicate to be boolean.
var PredicateRule = Rule{
	Name: "predicate",
	Check: func(s *SelectStatement) error {
		w, ok := s.where.(WhereClause)
		if !ok {
			return nil
		}
		if w.Predicate == nil {
			return errors.New("WHERE clause has no predicate")
		}
		if !isBoolean(w.Predicate.SQLType()) {
			return fmt.Errorf("WHERE predicate has type %s, want Bool", w.Predicate.SQLType())
		}
		return nil
	},
}

func isBoolean(t sqltypes.SQLType) bool {
	if n, ok := t.(sqltypes.Nullable); ok {
		t = n.Inner
	}
	return t == sqltypes.Bool || t == sqltypes.Unknown
}

// BoundsRule rejects negative LIMIT and OFFSET counts.
var BoundsRule = Rule{
	Name: "bounds",
	Check: func(s *SelectStatement) error {
		if l, ok := s.limit.(LimitClause); ok && l.Count < 0 {
			return fmt.Errorf("LIMIT %d is negative", l.Count)
		}
		if o, ok := s.offset.(OffsetClause); ok && o.Count < 0 {
			return fmt.Errorf("OFFSET %d is negative", o.Count)
		}
		return nil
	},
}

// GroupingRule requires every projected column that is not inside an
// aggregate to appear in GROUP BY whenever the statement groups or
// aggregates. It is not part of DefaultRules.
var GroupingRule = Rule{
	Name: "grouping",
	Check: func(s *SelectStatement) error {
		group, grouped := s.groupBy.(GroupByClause)
		list, explicit := s.sel.(SelectClause)
		if !explicit {
			if grouped {
				return errors.New("SELECT * cannot be combined with GROUP BY")
			}
			return nil
		}
		aggregated := false
		for _, e := range list.Exprs {
			if isAggregate(e) {
				aggregated = true
				break
			}
		}
		if !grouped && !aggregated {
			return nil
		}
		keys := make(map[Fingerprint]bool, len(group.Exprs))
		for _, g := range group.Exprs {
			keys[ShapeOf(g)] = true
		}
		for _, e := range list.Exprs {
			if a, ok := e.(*AliasNode); ok {
				e = a.Expr
			}
			if isAggregate(e) {
				continue
			}
			if _, refsColumns := e.(SourceChecker); !refsColumns {
				continue
			}
			if _, scalar := e.(*SubqueryNode); scalar {
				continue
			}
			if !keys[ShapeOf(e)] {
				return fmt.Errorf("projected expression %T must appear in GROUP BY or be aggregated", e)
			}
		}
		return nil
	},
}
