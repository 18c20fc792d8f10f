package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bawdo/selekt/nodes"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- output ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "tosql", handler: func(_ string) error { return s.cmdSQL() }, hidden: true},
		{prefix: "debug", handler: func(_ string) error { return s.cmdDebug() }},
		{prefix: "type", handler: func(_ string) error { return s.cmdType() }},
		{prefix: "fingerprint", handler: func(_ string) error { return s.cmdFingerprint() }},
		{prefix: "pretty", handler: func(_ string) error { return s.cmdPretty() }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- table registration ---
		{prefix: "table ", handler: func(a string) error { return s.cmdTable(a) }},
		{prefix: "t ", handler: func(a string) error { return s.cmdTable(a) }, hidden: true},
		{prefix: "alias ", handler: func(a string) error { return s.cmdAlias(a) }, completer: completeAliasArgs},

		// --- query building ---
		{prefix: "from ", handler: func(a string) error { return s.cmdFrom(a) }, completer: completeTableArgs},
		{prefix: "select ", handler: func(a string) error { return s.cmdSelect(a) }, completer: completeColumnArgs},
		{prefix: "project ", handler: func(a string) error { return s.cmdSelect(a) }, completer: completeColumnArgs, hidden: true},
		{prefix: "distinct on ", handler: func(a string) error { return s.cmdDistinctOn(a) }, completer: completeColumnArgs},
		{prefix: "distinct ", handler: func(a string) error { return s.cmdDistinct(a) }},
		{prefix: "distinct", handler: func(_ string) error { return s.cmdDistinct("") }},
		{prefix: "where ", handler: func(a string) error { return s.cmdWhere(a, false) }, completer: completeColumnArgs},
		{prefix: "or ", handler: func(a string) error { return s.cmdWhere(a, true) }, completer: completeColumnArgs},
		{prefix: "group ", handler: func(a string) error { return s.cmdGroup(a) }, completer: completeColumnArgs},
		{prefix: "order ", handler: func(a string) error { return s.cmdOrder(a) }, completer: completeOrderArgs},
		{prefix: "limit ", handler: func(a string) error { return s.cmdLimit(a) }},
		{prefix: "offset ", handler: func(a string) error { return s.cmdOffset(a) }},
		{prefix: "take ", handler: func(a string) error { return s.cmdLimit(a) }},

		// --- joins (multi-word prefixes) ---
		{prefix: "outer join ", handler: func(a string) error { return s.cmdJoin(a, nodes.LeftOuterJoin) }, completer: completeJoinArgs, hidden: true},
		{prefix: "right join ", handler: func(a string) error { return s.cmdJoin(a, nodes.RightOuterJoin) }, completer: completeJoinArgs},
		{prefix: "cross join ", handler: func(a string) error { return s.cmdCrossJoin(a) }, completer: completeTableArgs},
		{prefix: "left join ", handler: func(a string) error { return s.cmdJoin(a, nodes.LeftOuterJoin) }, completer: completeJoinArgs},
		{prefix: "full join ", handler: func(a string) error { return s.cmdJoin(a, nodes.FullOuterJoin) }, completer: completeJoinArgs},
		{prefix: "join ", handler: func(a string) error { return s.cmdJoin(a, nodes.InnerJoin) }, completer: completeJoinArgs},

		// --- validation rules ---
		{prefix: "rules ", handler: func(a string) error { return s.cmdRules(a) }, completer: completeRuleArgs},
		{prefix: "rules", handler: func(_ string) error { return s.cmdRules("") }},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnectWizard() }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdRun() }, hidden: true},
		{prefix: "run", handler: func(_ string) error { return s.cmdRun() }},
		{prefix: "stats", handler: func(_ string) error { return s.cmdStats() }},

		// --- engine / plugins ---
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs},
		{prefix: "engine", handler: func(_ string) error { s.printf("Engine: %s\n", s.backend); return nil }},
		{prefix: "plugin ", handler: func(a string) error { return s.cmdPlugin(a) }, completer: completePluginArgs},
		{prefix: "plugin", handler: func(_ string) error { return errors.New("usage: plugin <name> [args] | plugin off [name]") }},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := cmd.prefix
		if len(name) > 0 && name[len(name)-1] == ' ' {
			name = name[:len(name)-1]
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Tables:
    table <name> [col:type ...]  Register a table (types: int, bigint, double,
                              numeric, text, bool, timestamp, date, bytea;
                              a trailing ? makes the column nullable)
    alias <table> <alias>     Register a table alias
    tables                    List registered tables and aliases

  Query Building:
    from <table>              Start a new query (sets FROM)
    from none                 Start a table-less query
    select <exprs>            Set projections (table.col, *, table.*, expr AS name)
    distinct                  Enable DISTINCT
    distinct off              Disable DISTINCT
    distinct on <exprs>       Enable DISTINCT ON (PostgreSQL)
    where <condition>         AND a WHERE condition
    or <condition>            OR a condition with the existing WHERE
    group <exprs>             Add GROUP BY expressions
    order <expr> [asc|desc] [nulls first|last]  Add ORDER BY
    limit <n>                 Set LIMIT
    offset <n>                Set OFFSET
    take <n>                  Alias for limit
    reset                     Discard the current query

  Joins:
    join <t> on <cond>        Add an INNER JOIN
    left join <t> on <cond>   Add a LEFT OUTER JOIN
    right join <t> on <cond>  Add a RIGHT OUTER JOIN
    full join <t> on <cond>   Add a FULL OUTER JOIN
    cross join <table>        Add a CROSS JOIN

  Expressions:
    count(*), count(distinct t.c), sum/avg/min/max(...)
    cast(expr as type), coalesce/lower/upper(...), case when ... then ... else ... end
    +, -, *, /, || between operands; =, !=, <, <=, >, >=, like, ilike,
    in (...), between a and b, is [not] null, not, and, or in conditions

  Output:
    sql                       Render SQL with bind parameters
    debug                     Render SQL with values inlined (not for execution)
    type                      Show the statement's row and expression types
    fingerprint               Show the statement's shape fingerprint
    pretty                    Toggle multi-line output

  Validation:
    rules                     List active validation rules
    rules grouping            Require ungrouped projections to be aggregated
    rules off                 Back to the default rules

  Engine & Plugins:
    engine <name>             Set SQL dialect (postgres, mysql, sqlite)
    plugin softdelete [col] [on t1 t2 | t1.col t2.col]  Enable soft-delete filtering
    plugin off [name]         Disable one or all plugins
    plugins                   List plugins and their status

  Database:
    connect                   Interactive connection wizard
    connect <dsn>             Connect using the current engine
    disconnect                Close the connection
    run                       Execute the current query
    stats                     Show prepared statement cache statistics

  General:
    help                      Show this help
    exit / quit               Exit`)
}
