package managers

import (
	"slices"

	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/plugins"
)

// treeManager holds the transformer pipeline and the extra validation
// rules applied when a manager produces its statement.
type treeManager struct {
	transformers []plugins.Transformer
	rules        []nodes.Rule
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// finish checks the extra rules against stmt and then runs the pipeline.
// Rules see the statement as the caller built it; transformer output is
// validated by the statement constructors the transformers call.
func (tm *treeManager) finish(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	if err := stmt.Check(tm.rules...); err != nil {
		return nil, err
	}
	return plugins.Apply(stmt, tm.transformers...)
}

func (tm treeManager) clone() treeManager {
	return treeManager{
		transformers: slices.Clone(tm.transformers),
		rules:        slices.Clone(tm.rules),
	}
}
