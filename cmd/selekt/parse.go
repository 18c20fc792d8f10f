package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/sqltypes"
)

// tokenize splits input into tokens, respecting single-quoted strings
// and recognising multi-char operators (!=, <>, >=, <=, ||) and punctuation.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		next := byte(0)
		if i+1 < len(input) {
			next = input[i+1]
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true

		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))

		case ch == '!' && next == '=',
			ch == '<' && (next == '>' || next == '='),
			ch == '>' && next == '=',
			ch == '|' && next == '|':
			flush()
			tokens = append(tokens, input[i:i+2])
			i++

		case ch == '=' || ch == '>' || ch == '<' || ch == '+' || ch == '/':
			flush()
			tokens = append(tokens, string(ch))

		// "users.*" stays one token.
		case ch == '*' && strings.HasSuffix(cur.String(), "."):
			cur.WriteByte(ch)

		case ch == '*':
			flush()
			tokens = append(tokens, "*")

		// A leading minus belongs to the number that follows it.
		case ch == '-' && cur.Len() == 0 && (len(tokens) == 0 || expectsOperand(tokens[len(tokens)-1])):
			cur.WriteByte(ch)

		case ch == '-':
			flush()
			tokens = append(tokens, "-")

		case ch == ' ' || ch == '\t':
			flush()

		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// expectsOperand reports whether the token after token must be an operand.
func expectsOperand(token string) bool {
	switch strings.ToLower(token) {
	case "(", ",", "=", "!=", "<>", "<", "<=", ">", ">=", "+", "-", "*", "/", "||",
		"and", "or", "not", "between", "in", "case", "when", "then", "else", "like", "ilike":
		return true
	}
	return false
}

// parseValue converts a token string to a Go value suitable for Literal().
func parseValue(token string) (any, error) {
	lower := strings.ToLower(token)
	if lower == "true" {
		return true, nil
	}
	if lower == "false" {
		return false, nil
	}
	if lower == "null" {
		return nil, nil
	}
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		return strings.ReplaceAll(inner, "''", "'"), nil
	}
	if i, err := strconv.Atoi(token); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

// parseType maps a type name such as "bigint" or "text?" to a SQL type.
// A trailing ? makes the type nullable.
func parseType(name string) (sqltypes.SQLType, error) {
	nullable := strings.HasSuffix(name, "?")
	name = strings.ToLower(strings.TrimSuffix(name, "?"))
	var t sqltypes.Scalar
	switch name {
	case "int", "integer":
		t = sqltypes.Integer
	case "bigint", "int8":
		t = sqltypes.BigInt
	case "double", "float", "real":
		t = sqltypes.Double
	case "numeric", "decimal":
		t = sqltypes.Numeric
	case "text", "string", "varchar":
		t = sqltypes.Text
	case "bool", "boolean":
		t = sqltypes.Bool
	case "timestamp", "datetime":
		t = sqltypes.Timestamp
	case "date":
		t = sqltypes.Date
	case "bytea", "bytes", "blob":
		t = sqltypes.Bytea
	default:
		return nil, fmt.Errorf("unknown type %q", name)
	}
	if nullable {
		return sqltypes.Nullable{Inner: t}, nil
	}
	return t, nil
}

// arithOps maps arithmetic operator tokens to infix operators.
var arithOps = map[string]nodes.InfixOp{
	"+":  nodes.OpPlus,
	"-":  nodes.OpMinus,
	"*":  nodes.OpMultiply,
	"/":  nodes.OpDivide,
	"||": nodes.OpConcat,
}

// aggregateFunc maps a lowercase function name to an aggregate.
func aggregateFunc(name string) (nodes.AggregateFunc, bool) {
	switch name {
	case "count":
		return nodes.AggCount, true
	case "sum":
		return nodes.AggSum, true
	case "avg":
		return nodes.AggAvg, true
	case "min":
		return nodes.AggMin, true
	case "max":
		return nodes.AggMax, true
	}
	return 0, false
}

// isIdentifier returns true if the token looks like a SQL identifier (starts with letter/underscore).
func isIdentifier(token string) bool {
	if len(token) == 0 {
		return false
	}
	ch := token[0]
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// parseAtom parses a single atom: function call, CASE, column reference,
// parenthesised expression or literal value.
func (s *Session) parseAtom(tokens []string, pos int) (nodes.Expression, int, error) {
	if pos >= len(tokens) {
		return nil, pos, errors.New("expected expression")
	}

	token := tokens[pos]
	lower := strings.ToLower(token)

	if lower == "case" {
		return s.parseCaseExpr(tokens, pos)
	}

	if token == "(" {
		inner, next, err := s.parseArithExpr(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != ")" {
			return nil, next, errors.New("expected )")
		}
		return nodes.Grouped(inner), next + 1, nil
	}

	if pos+1 < len(tokens) && tokens[pos+1] == "(" {
		if fn, ok := aggregateFunc(lower); ok {
			return s.parseAggregateCall(tokens, pos, fn)
		}
		if lower == "cast" {
			return s.parseCastCall(tokens, pos)
		}
		if isIdentifier(token) {
			return s.parseNamedFuncCall(tokens, pos)
		}
	}

	if strings.Contains(token, ".") && !strings.HasPrefix(token, "'") && isIdentifier(token) {
		col, err := s.resolveColRef(token)
		if err != nil {
			return nil, pos, err
		}
		return col, pos + 1, nil
	}

	val, err := parseValue(token)
	if err != nil {
		return nil, pos, err
	}
	return nodes.Literal(val), pos + 1, nil
}

// parseArgs parses a parenthesised, comma separated argument list starting
// at the opening parenthesis.
func (s *Session) parseArgs(tokens []string, pos int) ([]nodes.Expression, int, error) {
	if pos >= len(tokens) || tokens[pos] != "(" {
		return nil, pos, errors.New("expected (")
	}
	pos++
	var args []nodes.Expression
	for pos < len(tokens) && tokens[pos] != ")" {
		arg, next, err := s.parseArithExpr(tokens, pos)
		if err != nil {
			return nil, next, err
		}
		args = append(args, arg)
		pos = next
		if pos < len(tokens) && tokens[pos] == "," {
			pos++
		}
	}
	if pos >= len(tokens) {
		return nil, pos, errors.New("expected )")
	}
	return args, pos + 1, nil
}

// parseNamedFuncCall parses NAME(args). COALESCE, LOWER and UPPER get
// their typed constructors; any other name is Unknown-typed.
func (s *Session) parseNamedFuncCall(tokens []string, pos int) (nodes.Expression, int, error) {
	name := tokens[pos]
	args, next, err := s.parseArgs(tokens, pos+1)
	if err != nil {
		return nil, next, fmt.Errorf("%s: %w", name, err)
	}
	switch strings.ToLower(name) {
	case "coalesce":
		if len(args) == 0 {
			return nil, next, errors.New("COALESCE requires at least one argument")
		}
		return nodes.Coalesce(args...), next, nil
	case "lower", "upper":
		if len(args) != 1 {
			return nil, next, fmt.Errorf("%s takes one argument", strings.ToUpper(name))
		}
		if strings.EqualFold(name, "lower") {
			return nodes.Lower(args[0]), next, nil
		}
		return nodes.Upper(args[0]), next, nil
	}
	return nodes.NewNamedFunction(strings.ToUpper(name), sqltypes.Unknown, args...), next, nil
}

// parseCastCall parses CAST(expr AS type).
func (s *Session) parseCastCall(tokens []string, pos int) (nodes.Expression, int, error) {
	pos += 2 // skip CAST (
	expr, pos, err := s.parseArithExpr(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	if pos+2 >= len(tokens) || strings.ToLower(tokens[pos]) != "as" || tokens[pos+2] != ")" {
		return nil, pos, errors.New("expected: CAST(<expr> AS <type>)")
	}
	t, err := parseType(tokens[pos+1])
	if err != nil {
		return nil, pos, err
	}
	scalar, ok := t.(sqltypes.Scalar)
	if !ok {
		return nil, pos, errors.New("CAST target must not be nullable")
	}
	return nodes.Cast(expr, scalar), pos + 3, nil
}

// parseAggregateCall parses COUNT(...), SUM(...), etc. including an
// optional DISTINCT.
func (s *Session) parseAggregateCall(tokens []string, pos int, fn nodes.AggregateFunc) (nodes.Expression, int, error) {
	funcName := tokens[pos]
	pos += 2 // skip name (

	distinct := false
	if pos < len(tokens) && strings.ToLower(tokens[pos]) == "distinct" {
		distinct = true
		pos++
	}

	var expr nodes.Expression
	if pos < len(tokens) && tokens[pos] == "*" {
		pos++
	} else if pos < len(tokens) && tokens[pos] != ")" {
		var err error
		expr, pos, err = s.parseArithExpr(tokens, pos)
		if err != nil {
			return nil, pos, err
		}
	}

	if pos >= len(tokens) || tokens[pos] != ")" {
		return nil, pos, fmt.Errorf("expected ) after %s arguments", funcName)
	}
	pos++

	if expr == nil && fn != nodes.AggCount {
		return nil, pos, fmt.Errorf("%s(*) is not valid", strings.ToUpper(funcName))
	}
	n := nodes.NewAggregateNode(fn, expr)
	n.Distinct = distinct
	return n, pos, nil
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (s *Session) parseCaseExpr(tokens []string, pos int) (nodes.Expression, int, error) {
	pos++ // skip CASE
	var c *nodes.CaseNode
	if pos < len(tokens) && strings.ToLower(tokens[pos]) != "when" {
		operand, next, err := s.parseArithExpr(tokens, pos)
		if err != nil {
			return nil, next, err
		}
		c = nodes.NewCase(operand)
		pos = next
	} else {
		c = nodes.NewCase()
	}

	for pos < len(tokens) && strings.ToLower(tokens[pos]) == "when" {
		condTokens, next := scanUntilKeyword(tokens, pos+1, "then")
		if next >= len(tokens) {
			return nil, next, errors.New("expected THEN in CASE expression")
		}
		cond, err := s.parseConditionOrExpr(condTokens)
		if err != nil {
			return nil, next, err
		}
		result, after, err := s.parseArithExpr(tokens, next+1)
		if err != nil {
			return nil, after, err
		}
		c = c.When(cond, result)
		pos = after
	}

	if pos < len(tokens) && strings.ToLower(tokens[pos]) == "else" {
		result, after, err := s.parseArithExpr(tokens, pos+1)
		if err != nil {
			return nil, after, err
		}
		c = c.Else(result)
		pos = after
	}

	if pos >= len(tokens) || strings.ToLower(tokens[pos]) != "end" {
		return nil, pos, errors.New("expected END in CASE expression")
	}
	return c, pos + 1, nil
}

// scanUntilKeyword collects tokens from pos until one of keywords appears
// at parenthesis depth zero. It returns the collected tokens and the
// position of the keyword (len(tokens) if none was found).
func scanUntilKeyword(tokens []string, pos int, keywords ...string) ([]string, int) {
	depth := 0
	start := pos
	for ; pos < len(tokens); pos++ {
		switch tokens[pos] {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth == 0 {
			lower := strings.ToLower(tokens[pos])
			for _, kw := range keywords {
				if lower == kw {
					return tokens[start:pos], pos
				}
			}
		}
	}
	return tokens[start:], pos
}

// parseConditionOrExpr parses tokens as a condition, falling back to a
// plain expression for simple CASE operand matching.
func (s *Session) parseConditionOrExpr(tokens []string) (nodes.Expression, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}
	node, err := s.parseConditionFromTokens(tokens)
	if err == nil {
		return node, nil
	}
	n, next, err2 := s.parseArithExpr(tokens, 0)
	if err2 != nil || next != len(tokens) {
		return nil, err
	}
	return n, nil
}

// parseArithExpr parses a left-associative chain of arithmetic operations
// starting at pos.
func (s *Session) parseArithExpr(tokens []string, pos int) (nodes.Expression, int, error) {
	atom, pos, err := s.parseAtom(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	for pos < len(tokens) {
		op, ok := arithOps[tokens[pos]]
		if !ok {
			break
		}
		opToken := tokens[pos]
		pos++
		if pos >= len(tokens) {
			return nil, pos, fmt.Errorf("expected expression after %s", opToken)
		}
		next, nextPos, err := s.parseAtom(tokens, pos)
		if err != nil {
			return nil, pos, err
		}
		pos = nextPos
		atom = nodes.NewInfixNode(atom, next, op)
	}
	return atom, pos, nil
}

// resolveColRef resolves "table.column" (or "table.*") using registered
// tables and aliases in the session.
func (s *Session) resolveColRef(ref string) (nodes.Expression, error) {
	if strings.ContainsAny(ref, ", \t") {
		return nil, fmt.Errorf("expected table.column, got %q (use commas to separate multiple columns)", ref)
	}
	parts := strings.SplitN(ref, ".", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("expected table.column, got %q", ref)
	}
	name, col := parts[0], parts[1]

	if a, ok := s.aliases[name]; ok {
		if col == "*" {
			return nil, fmt.Errorf("%s.* is not supported for aliases; use *", name)
		}
		return a.Col(col), nil
	}
	if t, ok := s.tables[name]; ok {
		if col == "*" {
			return t.Star(), nil
		}
		return t.Col(col), nil
	}
	return nil, fmt.Errorf("unknown table or alias %q (register with 'table %s' first)", name, name)
}

// comparisonOp maps a comparison operator token to a nodes.ComparisonOp.
func comparisonOp(token string) (nodes.ComparisonOp, bool) {
	switch token {
	case "=":
		return nodes.OpEq, true
	case "!=", "<>":
		return nodes.OpNotEq, true
	case ">":
		return nodes.OpGt, true
	case ">=":
		return nodes.OpGtEq, true
	case "<":
		return nodes.OpLt, true
	case "<=":
		return nodes.OpLtEq, true
	case "like":
		return nodes.OpLike, true
	case "ilike":
		return nodes.OpILike, true
	default:
		return 0, false
	}
}

// predicable is implemented by every expression embedding nodes.Predications.
type predicable interface {
	nodes.Expression
	In(vals ...any) *nodes.InNode
	NotIn(vals ...any) *nodes.InNode
	Between(low, high any) *nodes.BetweenNode
	NotBetween(low, high any) *nodes.BetweenNode
	IsNull() *nodes.UnaryNode
	IsNotNull() *nodes.UnaryNode
	NotLike(val any) *nodes.ComparisonNode
	NotILike(val any) *nodes.ComparisonNode
}

// combinable is implemented by every predicate embedding nodes.Combinable.
type combinable interface {
	nodes.Expression
	Or(other nodes.Expression) *nodes.GroupingNode
	Not() *nodes.NotNode
}

func requirePredicable(n nodes.Expression, op string) (predicable, error) {
	if p, ok := n.(predicable); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%s requires a column or value expression on the left", op)
}

func parseIsCondition(left predicable, tokens []string) (nodes.Expression, error) {
	switch {
	case len(tokens) == 1 && strings.EqualFold(tokens[0], "null"):
		return left.IsNull(), nil
	case len(tokens) == 2 && strings.EqualFold(tokens[0], "not") && strings.EqualFold(tokens[1], "null"):
		return left.IsNotNull(), nil
	}
	return nil, errors.New("expected NULL or NOT NULL after IS")
}

func parseNotCondition(left predicable, tokens []string) (nodes.Expression, error) {
	if len(tokens) == 0 {
		return nil, errors.New("expected IN, LIKE, ILIKE or BETWEEN after NOT")
	}
	switch strings.ToLower(tokens[0]) {
	case "in":
		return parseInCondition(left, tokens[1:], true)
	case "like", "ilike":
		if len(tokens) < 2 {
			return nil, fmt.Errorf("missing value after NOT %s", strings.ToUpper(tokens[0]))
		}
		val, err := parseValue(tokens[1])
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(tokens[0], "ilike") {
			return left.NotILike(val), nil
		}
		return left.NotLike(val), nil
	case "between":
		return parseBetweenCondition(left, tokens[1:], true)
	default:
		return nil, fmt.Errorf("expected IN, LIKE, ILIKE or BETWEEN after NOT, got %s", tokens[0])
	}
}

func parseInCondition(left predicable, tokens []string, negate bool) (nodes.Expression, error) {
	vals := []any{}
	for _, t := range tokens {
		if t == "(" || t == ")" || t == "," {
			continue
		}
		val, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	if negate {
		return left.NotIn(vals...), nil
	}
	return left.In(vals...), nil
}

func parseBetweenCondition(left predicable, tokens []string, negate bool) (nodes.Expression, error) {
	if len(tokens) != 3 || !strings.EqualFold(tokens[1], "and") {
		return nil, errors.New("expected: BETWEEN <low> AND <high>")
	}
	low, err := parseValue(tokens[0])
	if err != nil {
		return nil, err
	}
	high, err := parseValue(tokens[2])
	if err != nil {
		return nil, err
	}
	if negate {
		return left.NotBetween(low, high), nil
	}
	return left.Between(low, high), nil
}

// exprPart holds a segment of tokens forming a single condition, plus the
// combinator keyword ("and" or "or") that follows it. The last part has
// an empty combinator.
type exprPart struct {
	tokens     []string
	combinator string
}

// splitExpressionParts splits tokens on top-level AND/OR keywords, respecting
// parenthesised groups, CASE expressions and BETWEEN ... AND ... ranges.
func splitExpressionParts(tokens []string) []exprPart {
	var parts []exprPart
	var cur []string
	depth := 0
	inBetween := false

	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		switch {
		case lower == "(" || lower == "case":
			depth++
		case lower == ")" || lower == "end":
			depth--
		case depth > 0:
		case lower == "between":
			inBetween = true
		case lower == "and" && inBetween:
			inBetween = false
		case lower == "and" || lower == "or":
			parts = append(parts, exprPart{tokens: cur, combinator: lower})
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}

	if len(cur) > 0 {
		parts = append(parts, exprPart{tokens: cur})
	}
	return parts
}

// parseExpression parses a predicate with AND/OR combinators and optional
// NOT prefixes. AND binds tighter than OR.
func (s *Session) parseExpression(input string) (nodes.Expression, error) {
	return s.parseExpressionTokens(tokenize(strings.TrimSpace(input)))
}

func (s *Session) parseExpressionTokens(tokens []string) (nodes.Expression, error) {
	parts := splitExpressionParts(tokens)
	if len(parts) == 0 {
		return nil, errors.New("empty expression")
	}

	var ors []nodes.Expression
	var ands []nodes.Expression
	for _, p := range parts {
		cond, err := s.parseSingleCondition(p.tokens)
		if err != nil {
			return nil, err
		}
		ands = append(ands, cond)
		if p.combinator != "and" {
			ors = append(ors, nodes.And(ands...))
			ands = nil
		}
	}
	if len(ands) > 0 {
		return nil, errors.New("expression ends with AND")
	}

	result := ors[0]
	for _, next := range ors[1:] {
		c, ok := result.(combinable)
		if !ok {
			return nil, fmt.Errorf("cannot combine %T with OR", result)
		}
		result = c.Or(next)
	}
	return result, nil
}

// parseSingleCondition handles an optional NOT prefix and a parenthesised
// sub-expression, then delegates to parseConditionFromTokens.
func (s *Session) parseSingleCondition(tokens []string) (nodes.Expression, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty condition")
	}

	if strings.EqualFold(tokens[0], "not") {
		inner, err := s.parseSingleCondition(tokens[1:])
		if err != nil {
			return nil, err
		}
		c, ok := inner.(combinable)
		if !ok {
			return nil, fmt.Errorf("cannot negate %T", inner)
		}
		return c.Not(), nil
	}

	if tokens[0] == "(" && closesAt(tokens) == len(tokens)-1 {
		inner, err := s.parseExpressionTokens(tokens[1 : len(tokens)-1])
		if err != nil {
			return nil, err
		}
		if g, ok := inner.(*nodes.GroupingNode); ok {
			return g, nil
		}
		return nodes.Grouped(inner), nil
	}

	return s.parseConditionFromTokens(tokens)
}

// closesAt returns the index of the parenthesis closing tokens[0].
func closesAt(tokens []string) int {
	depth := 0
	for i, t := range tokens {
		switch t {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseConditionFromTokens parses a single condition. Both sides of a binary
// comparison may be arithmetic expressions.
func (s *Session) parseConditionFromTokens(tokens []string) (nodes.Expression, error) {
	if len(tokens) < 2 {
		return nil, errors.New("expected: <table.column> <operator> <value>")
	}

	leftNode, pos, err := s.parseArithExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos >= len(tokens) {
		return nil, errors.New("expected operator after expression")
	}

	op := strings.ToLower(tokens[pos])

	if cmpOp, ok := comparisonOp(op); ok {
		pos++
		if pos >= len(tokens) {
			return nil, errors.New("missing value after operator")
		}
		rightNode, end, err := s.parseArithExpr(tokens, pos)
		if err != nil {
			return nil, err
		}
		if end != len(tokens) {
			return nil, fmt.Errorf("unexpected %q after condition", tokens[end])
		}
		return nodes.NewComparisonNode(leftNode, rightNode, cmpOp), nil
	}

	left, err := requirePredicable(leftNode, strings.ToUpper(op))
	if err != nil {
		return nil, err
	}
	rest := tokens[pos+1:]
	switch op {
	case "is":
		return parseIsCondition(left, rest)
	case "not":
		return parseNotCondition(left, rest)
	case "in":
		return parseInCondition(left, rest, false)
	case "between":
		return parseBetweenCondition(left, rest, false)
	default:
		return nil, fmt.Errorf("unknown operator: %s", op)
	}
}

// parseProjection parses one select-list item: an expression with an
// optional "AS alias".
func (s *Session) parseProjection(input string) (nodes.Expression, error) {
	tokens := tokenize(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return nil, errors.New("empty projection")
	}
	if len(tokens) == 1 && tokens[0] == "*" {
		return nodes.Star(), nil
	}
	expr, pos, err := s.parseArithExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	switch {
	case pos == len(tokens):
		return expr, nil
	case pos+2 == len(tokens) && strings.EqualFold(tokens[pos], "as"):
		return nodes.NewAliasNode(expr, tokens[pos+1]), nil
	}
	return nil, fmt.Errorf("unexpected %q in projection", tokens[pos])
}

// parseOrdering parses "expr [asc|desc] [nulls first|last]".
func (s *Session) parseOrdering(input string) (*nodes.OrderingNode, error) {
	tokens := tokenize(strings.TrimSpace(input))
	expr, pos, err := s.parseArithExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	o := &nodes.OrderingNode{Expr: expr, Direction: nodes.Asc}
	rest := strings.ToLower(strings.Join(tokens[pos:], " "))
	if dir, ok := strings.CutPrefix(rest, "desc"); ok {
		o.Direction = nodes.Desc
		rest = dir
	} else if dir, ok := strings.CutPrefix(rest, "asc"); ok {
		rest = dir
	}
	switch strings.TrimSpace(rest) {
	case "":
	case "nulls first":
		o = o.NullsFirst()
	case "nulls last":
		o = o.NullsLast()
	default:
		return nil, fmt.Errorf("unexpected %q in ordering (use asc, desc, nulls first, nulls last)", strings.TrimSpace(rest))
	}
	return o, nil
}

// splitTopLevelCommas splits s on commas outside parentheses and quotes.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '\'':
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}
