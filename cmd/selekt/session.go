package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/managers"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/plugins"
	"github.com/bawdo/selekt/prepared"
	"github.com/bawdo/selekt/visitors"
)

var errNoQuery = errors.New("no query defined (use 'from <table>' or 'from none' first)")

// Session holds the REPL state: registered tables, the statement being
// composed, the active backend and any enabled plugins and rules.
//
// The draft manager never carries plugins or extra rules. They are applied
// to a clone each time a statement is produced, so toggling them never
// requires rebuilding the draft.
type Session struct {
	tables      map[string]*nodes.Table
	aliases     map[string]*nodes.TableAlias
	query       *managers.SelectManager
	backend     backend.Backend
	plugins     pluginRegistry
	configurers []pluginConfigurer
	grouping    bool // GroupingRule enabled
	pretty      bool
	commands    []commandEntry
	conn        *dbConn
	lastDSN     string
	cacheOpts   []prepared.Option
	rl          *readline.Instance
	out         io.Writer
	logger      *slog.Logger
}

// NewSession creates a session rendering for b. rl may be nil when no
// interactive terminal is attached.
func NewSession(b backend.Backend, rl *readline.Instance, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		tables:  make(map[string]*nodes.Table),
		aliases: make(map[string]*nodes.TableAlias),
		backend: b,
		rl:      rl,
		out:     os.Stdout,
		logger:  logger,
	}
	s.configurers = []pluginConfigurer{
		{name: "softdelete", configure: configureSoftdelete},
	}
	s.initCommands()
	return s
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, "  "+format, args...)
}

// pluginNames returns the names of all known plugins (for tab completion).
func (s *Session) pluginNames() []string {
	names := make([]string, len(s.configurers))
	for i, c := range s.configurers {
		names[i] = c.name
	}
	return names
}

// ensureTable returns the table if registered, otherwise registers it
// without declared columns.
func (s *Session) ensureTable(name string) *nodes.Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := nodes.NewTable(name)
	s.tables[name] = t
	return t
}

// resolveSource returns an alias or table by name, registering unknown
// tables on the fly.
func (s *Session) resolveSource(name string) nodes.JoinTarget {
	if a, ok := s.aliases[name]; ok {
		return a
	}
	return s.ensureTable(name)
}

// managed returns a copy of the draft with plugins and rules applied.
func (s *Session) managed() (*managers.SelectManager, error) {
	if s.query == nil {
		return nil, errNoQuery
	}
	m := s.query.Clone()
	s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
	if s.grouping {
		m.Rules(nodes.GroupingRule)
	}
	return m, nil
}

// statement produces the validated, transformed statement.
func (s *Session) statement() (*nodes.SelectStatement, error) {
	m, err := s.managed()
	if err != nil {
		return nil, err
	}
	return m.Statement()
}

func (s *Session) visitorOptions() []visitors.Option {
	if s.pretty {
		return []visitors.Option{visitors.Pretty()}
	}
	return nil
}

// GenerateSQL renders the current statement with placeholders and returns
// the SQL and its parameters.
func (s *Session) GenerateSQL() (string, []any, error) {
	m, err := s.managed()
	if err != nil {
		return "", nil, err
	}
	return m.ToSQL(visitors.New(s.backend, s.visitorOptions()...))
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// --- Table registration ---

// cmdTable registers a table, optionally with typed columns:
//
//	table users id:bigint name:text email:text? active:bool
func (s *Session) cmdTable(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return errors.New("usage: table <name> [column:type ...]")
	}
	name := fields[0]
	var cols []nodes.ColumnDef
	for _, f := range fields[1:] {
		col, typ, ok := strings.Cut(f, ":")
		if !ok || col == "" {
			return fmt.Errorf("expected column:type, got %q", f)
		}
		t, err := parseType(typ)
		if err != nil {
			return err
		}
		cols = append(cols, nodes.Column(col, t))
	}
	s.tables[name] = nodes.NewTable(name, cols...)
	if len(cols) == 0 {
		s.printf("Table %q registered\n", name)
	} else {
		s.printf("Table %q registered with %d columns\n", name, len(cols))
	}
	return nil
}

func (s *Session) cmdAlias(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: alias <table> <alias>")
	}
	t := s.ensureTable(parts[0])
	s.aliases[parts[1]] = t.Alias(parts[1])
	s.printf("Alias %q → %q\n", parts[1], parts[0])
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.tables) == 0 && len(s.aliases) == 0 {
		s.printf("No tables registered\n")
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := s.tables[name]
		if len(t.Columns) == 0 {
			s.printf("%s\n", name)
			continue
		}
		cols := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = c.Name + " " + c.Type.String()
		}
		s.printf("%s (%s)\n", name, strings.Join(cols, ", "))
	}
	aliases := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		aliases = append(aliases, name)
	}
	sort.Strings(aliases)
	for _, name := range aliases {
		s.printf("%s → %s\n", name, s.aliases[name].Relation.Name)
	}
	return nil
}

// --- Query building ---

// cmdFrom starts a new statement, or changes the source of the current
// one. "from none" makes the statement table-less.
func (s *Session) cmdFrom(args string) error {
	name := strings.TrimSpace(args)
	var src nodes.QuerySource
	if !strings.EqualFold(name, "none") {
		src = s.resolveSource(name)
	}
	if s.query == nil {
		s.query = managers.NewSelectManager(src)
	} else {
		s.query.From(src)
	}
	if src == nil {
		s.printf("Table-less statement\n")
	} else {
		s.printf("FROM %s\n", name)
	}
	return nil
}

func (s *Session) cmdSelect(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	if strings.TrimSpace(args) == "*" {
		s.query.Select()
		s.printf("Selecting every column\n")
		return nil
	}
	var projections []nodes.Expression
	for _, item := range splitTopLevelCommas(args) {
		p, err := s.parseProjection(item)
		if err != nil {
			return fmt.Errorf("select: %w", err)
		}
		projections = append(projections, p)
	}
	if len(projections) == 0 {
		return errors.New("usage: select <expr>[, <expr> ...]")
	}
	s.query.Select(projections...)
	s.printf("%d projection(s) set\n", len(projections))
	return nil
}

func (s *Session) cmdDistinct(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	if strings.EqualFold(args, "off") {
		s.query.Distinct(false)
		s.printf("DISTINCT disabled\n")
		return nil
	}
	s.query.Distinct()
	s.printf("DISTINCT enabled\n")
	return nil
}

func (s *Session) cmdDistinctOn(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var cols []nodes.Expression
	for _, item := range splitTopLevelCommas(args) {
		tokens := tokenize(item)
		expr, pos, err := s.parseArithExpr(tokens, 0)
		if err != nil {
			return fmt.Errorf("distinct on: %w", err)
		}
		if pos != len(tokens) {
			return fmt.Errorf("distinct on: unexpected %q", tokens[pos])
		}
		cols = append(cols, expr)
	}
	if len(cols) == 0 {
		return errors.New("usage: distinct on <expr>[, <expr> ...]")
	}
	s.query.DistinctOn(cols...)
	s.printf("DISTINCT ON (%d expression(s))\n", len(cols))
	return nil
}

func (s *Session) cmdWhere(args string, or bool) error {
	if s.query == nil {
		return errNoQuery
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	if or {
		s.query.Or(cond)
		s.printf("OR condition added\n")
	} else {
		s.query.Where(cond)
		s.printf("WHERE condition added\n")
	}
	return nil
}

func (s *Session) cmdGroup(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var keys []nodes.Expression
	for _, item := range splitTopLevelCommas(args) {
		tokens := tokenize(item)
		expr, pos, err := s.parseArithExpr(tokens, 0)
		if err != nil {
			return fmt.Errorf("group: %w", err)
		}
		if pos != len(tokens) {
			return fmt.Errorf("group: unexpected %q", tokens[pos])
		}
		keys = append(keys, expr)
	}
	if len(keys) == 0 {
		return errors.New("usage: group <expr>[, <expr> ...]")
	}
	s.query.Group(keys...)
	s.printf("GROUP BY %d expression(s) added\n", len(keys))
	return nil
}

func (s *Session) cmdOrder(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var orderings []nodes.Expression
	for _, item := range splitTopLevelCommas(args) {
		o, err := s.parseOrdering(item)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		orderings = append(orderings, o)
	}
	if len(orderings) == 0 {
		return errors.New("usage: order <expr> [asc|desc] [nulls first|last][, ...]")
	}
	s.query.Order(orderings...)
	s.printf("ORDER BY %d expression(s) added\n", len(orderings))
	return nil
}

func parseCount(args, clause string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: expected an integer, got %q", clause, strings.TrimSpace(args))
	}
	return n, nil
}

func (s *Session) cmdLimit(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := parseCount(args, "limit")
	if err != nil {
		return err
	}
	s.query.Limit(n)
	s.printf("LIMIT %d\n", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := parseCount(args, "offset")
	if err != nil {
		return err
	}
	s.query.Offset(n)
	s.printf("OFFSET %d\n", n)
	return nil
}

// cmdJoin parses "<table> on <condition>".
func (s *Session) cmdJoin(args string, joinType nodes.JoinType) error {
	if s.query == nil {
		return errNoQuery
	}
	lower := strings.ToLower(args)
	idx := strings.Index(lower, " on ")
	if idx < 0 {
		return fmt.Errorf("usage: %s <table> on <condition>", strings.ToLower(joinType.String()))
	}
	name := strings.TrimSpace(args[:idx])
	target := s.resolveSource(name)
	cond, err := s.parseExpression(args[idx+4:])
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}
	s.query.Join(target, joinType).On(cond)
	s.printf("%s %s added\n", joinType, name)
	return nil
}

func (s *Session) cmdCrossJoin(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	name := strings.TrimSpace(args)
	if name == "" || strings.Contains(name, " ") {
		return errors.New("usage: cross join <table>")
	}
	s.query.CrossJoin(s.resolveSource(name))
	s.printf("CROSS JOIN %s added\n", name)
	return nil
}

func (s *Session) cmdRules(args string) error {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "":
	case "grouping":
		s.grouping = true
	case "off":
		s.grouping = false
	default:
		return fmt.Errorf("unknown rule %q (choose: grouping, off)", args)
	}
	names := make([]string, 0, len(nodes.DefaultRules)+1)
	for _, r := range nodes.DefaultRules {
		names = append(names, r.Name)
	}
	if s.grouping {
		names = append(names, nodes.GroupingRule.Name)
	}
	s.printf("Rules: %s\n", strings.Join(names, ", "))
	return nil
}

func (s *Session) cmdReset() error {
	s.query = nil
	s.printf("Query reset\n")
	return nil
}

// --- Output ---

func (s *Session) cmdSQL() error {
	sql, params, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	s.printf("%s;\n", sql)
	if len(params) > 0 {
		s.printf("Params: %v\n", params)
	}
	return nil
}

func (s *Session) cmdDebug() error {
	stmt, err := s.statement()
	if err != nil {
		return err
	}
	v := visitors.New(s.backend, append(s.visitorOptions(), visitors.WithoutParams())...)
	if err := visitors.Walk(stmt, v); err != nil {
		return err
	}
	s.printf("%s;\n", v.SQL())
	return nil
}

func (s *Session) cmdType() error {
	stmt, err := s.statement()
	if err != nil {
		return err
	}
	s.printf("Row type:        %s\n", stmt.RowType())
	s.printf("Expression type: %s (%s)\n", stmt.SQLType(s.backend), s.backend)
	return nil
}

func (s *Session) cmdFingerprint() error {
	stmt, err := s.statement()
	if err != nil {
		return err
	}
	s.printf("%s\n", stmt.Fingerprint())
	return nil
}

func (s *Session) cmdPretty() error {
	s.pretty = !s.pretty
	if s.pretty {
		s.printf("Pretty printing enabled\n")
	} else {
		s.printf("Pretty printing disabled\n")
	}
	return nil
}

func (s *Session) cmdEngine(args string) error {
	b, err := backend.Parse(args)
	if err != nil {
		return fmt.Errorf("%w (choose: postgres, mysql, sqlite)", err)
	}
	s.backend = b
	s.printf("Engine set to %s\n", b)
	if s.conn != nil && s.conn.backend != b {
		s.printf("Warning: connected to %s; 'run' renders for the connection\n", s.conn.backend)
	}
	return nil
}

// --- Plugins ---

// cmdPlugin routes plugin sub-commands: enables a plugin by name, or
// dispatches to cmdPluginOff for disabling.
func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(parts[0])
	if name == "off" {
		return s.cmdPluginOff(parts[1:])
	}
	for _, c := range s.configurers {
		if c.name == name {
			return c.configure(s, strings.TrimSpace(args[len(parts[0]):]))
		}
	}
	return fmt.Errorf("unknown plugin: %s", name)
}

func (s *Session) cmdPluginOff(parts []string) error {
	if len(parts) == 0 {
		s.plugins.deregisterAll()
		s.printf("All plugins disabled\n")
		return nil
	}
	name := strings.ToLower(parts[0])
	if !s.plugins.deregister(name) {
		return fmt.Errorf("plugin %q is not enabled", name)
	}
	s.printf("%s disabled\n", name)
	return nil
}

func (s *Session) cmdPlugins() {
	s.printf("Available plugins:\n")
	for _, c := range s.configurers {
		if entry, ok := s.plugins.get(c.name); ok {
			s.printf("  %-14s on   (%s)\n", c.name, entry.status())
		} else {
			s.printf("  %-14s off\n", c.name)
		}
	}
}

// --- Database ---

func (s *Session) cmdConnect(args string) error {
	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}
	dsn := strings.TrimSpace(args)
	if dsn == "" {
		dsn = s.lastDSN
	}
	if dsn == "" {
		return errors.New("usage: connect <dsn>")
	}
	conn, err := connect(context.Background(), s.backend, dsn, s.logger, s.cacheOpts...)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	s.printf("Connected to %s (%s)\n", sanitizeDSN(dsn), s.backend)
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	err := s.conn.close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.printf("Disconnected from %s\n", dsn)
	return nil
}

// cmdRun executes the current statement against the connected database
// through the prepared statement cache, always with bound parameters.
func (s *Session) cmdRun() error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	stmt, err := s.statement()
	if err != nil {
		return err
	}
	sql, params, err := visitors.Build(stmt, s.conn.backend)
	if err != nil {
		return err
	}
	s.printf("%s;\n", sql)
	if len(params) > 0 {
		s.printf("Params: %v\n", params)
	}
	result, err := s.conn.execQuery(context.Background(), stmt)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

func (s *Session) cmdStats() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	st := s.conn.cache.Stats()
	s.printf("Prepared statements: %d (hits %d, misses %d)\n", st.Entries, st.Hits, st.Misses)
	return nil
}

func (s *Session) close() {
	if s.conn != nil {
		if err := s.conn.close(); err != nil {
			s.logger.Warn("closing connection", "error", err)
		}
		s.conn = nil
	}
}
