// Package plugins defines the Transformer interface for statement middleware.
package plugins

import "github.com/bawdo/selekt/nodes"

// Transformer rewrites a statement before it is rendered. Statements are
// immutable, so a transformer returns a new statement rather than editing
// the one it receives.
type Transformer interface {
	TransformSelect(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error)
}

// TransformerFunc adapts an ordinary function to the Transformer interface.
type TransformerFunc func(*nodes.SelectStatement) (*nodes.SelectStatement, error)

func (f TransformerFunc) TransformSelect(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	return f(stmt)
}

// Apply runs transformers in order, stopping at the first error.
func Apply(stmt *nodes.SelectStatement, transformers ...Transformer) (*nodes.SelectStatement, error) {
	for _, t := range transformers {
		var err error
		stmt, err = t.TransformSelect(stmt)
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}
