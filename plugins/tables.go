package plugins

import "github.com/bawdo/selekt/nodes"

// TableRef holds a reference to a table relation and its underlying name.
// Relation is used to create column references (preserving aliases), and
// Name is the underlying table name (for matching/filtering).
type TableRef struct {
	Relation nodes.Relation // *nodes.Table or *nodes.TableAlias
	Name     string
}

// CollectTables returns every table a source reads from, left to right
// through its joins. A table-less source yields nothing.
func CollectTables(src nodes.QuerySource) []TableRef {
	switch s := src.(type) {
	case *nodes.Table:
		return []TableRef{{Relation: s, Name: s.Name}}
	case *nodes.TableAlias:
		return []TableRef{{Relation: s, Name: s.Relation.Name}}
	case *nodes.JoinSource:
		return append(CollectTables(s.Left), CollectTables(s.Right)...)
	default:
		return nil
	}
}
