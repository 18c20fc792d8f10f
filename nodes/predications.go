package nodes

// Predications provides comparison methods to types that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Expression
}

func (p Predications) compare(op ComparisonOp, val any) *ComparisonNode {
	return NewComparisonNode(p.self, Literal(val), op)
}

// Eq creates an equality comparison: self = val.
func (p Predications) Eq(val any) *ComparisonNode { return p.compare(OpEq, val) }

// NotEq creates an inequality comparison: self != val.
func (p Predications) NotEq(val any) *ComparisonNode { return p.compare(OpNotEq, val) }

// Gt creates a greater-than comparison: self > val.
func (p Predications) Gt(val any) *ComparisonNode { return p.compare(OpGt, val) }

// GtEq creates a greater-than-or-equal comparison: self >= val.
func (p Predications) GtEq(val any) *ComparisonNode { return p.compare(OpGtEq, val) }

// Lt creates a less-than comparison: self < val.
func (p Predications) Lt(val any) *ComparisonNode { return p.compare(OpLt, val) }

// LtEq creates a less-than-or-equal comparison: self <= val.
func (p Predications) LtEq(val any) *ComparisonNode { return p.compare(OpLtEq, val) }

// Like creates a LIKE comparison: self LIKE val.
func (p Predications) Like(val any) *ComparisonNode { return p.compare(OpLike, val) }

// NotLike creates a NOT LIKE comparison: self NOT LIKE val.
func (p Predications) NotLike(val any) *ComparisonNode { return p.compare(OpNotLike, val) }

// ILike creates a case-insensitive ILIKE comparison (PostgreSQL only).
func (p Predications) ILike(val any) *ComparisonNode { return p.compare(OpILike, val) }

// NotILike creates a NOT ILIKE comparison (PostgreSQL only).
func (p Predications) NotILike(val any) *ComparisonNode { return p.compare(OpNotILike, val) }

// In creates an IN predicate: self IN (vals...).
func (p Predications) In(vals ...any) *InNode {
	n := &InNode{Expr: p.self, Vals: literals(vals)}
	n.self = n
	return n
}

// NotIn creates a NOT IN predicate: self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *InNode {
	n := p.In(vals...)
	n.Negate = true
	return n
}

// InSelect creates an IN predicate over a subquery: self IN (SELECT ...).
func (p Predications) InSelect(sub *SelectStatement) *InNode {
	n := &InNode{Expr: p.self, Subquery: sub}
	n.self = n
	return n
}

// Between creates a BETWEEN predicate: self BETWEEN low AND high.
func (p Predications) Between(low, high any) *BetweenNode {
	n := &BetweenNode{Expr: p.self, Low: Literal(low), High: Literal(high)}
	n.self = n
	return n
}

// NotBetween creates a NOT BETWEEN predicate: self NOT BETWEEN low AND high.
func (p Predications) NotBetween(low, high any) *BetweenNode {
	n := p.Between(low, high)
	n.Negate = true
	return n
}

// IsNull creates an IS NULL predicate.
func (p Predications) IsNull() *UnaryNode {
	n := &UnaryNode{Expr: p.self, Op: OpIsNull}
	n.self = n
	return n
}

// IsNotNull creates an IS NOT NULL predicate.
func (p Predications) IsNotNull() *UnaryNode {
	n := &UnaryNode{Expr: p.self, Op: OpIsNotNull}
	n.self = n
	return n
}

// As creates an alias for this expression: self AS "name".
func (p Predications) As(name string) *AliasNode {
	return NewAliasNode(p.self, name)
}

// Asc creates an ascending ordering for this expression.
func (p Predications) Asc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Asc}
}

// Desc creates a descending ordering for this expression.
func (p Predications) Desc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Desc}
}
