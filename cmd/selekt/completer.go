package main

import (
	"slices"
	"sort"
	"strings"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand    completionContext = iota // start of line or partial command
	contextTableName                           // after from/join
	contextColumnRef                           // after select/where/group
	contextEngine                              // after engine
	contextPlugin                              // after plugin
	contextPluginOff                           // after plugin off
	contextOrderDir                            // after a column ref in order context
	contextOperator                            // after a column ref in condition context
	contextAliasTable                          // first arg of alias (table names only)
	contextRule                                // after rules
)

var engineNames = []string{"mysql", "postgres", "sqlite"}
var orderDirs = []string{"asc", "desc", "nulls first", "nulls last"}
var ruleNames = []string{"grouping", "off"}
var operators = []string{
	"!=", "*", "+", "-", "/", "<", "<=", "=", ">", ">=", "||",
	"between", "ilike", "in", "is", "like", "not",
}

var functionNames = []string{
	"AVG(", "CASE ", "CAST(", "COALESCE(", "COUNT(", "COUNT(DISTINCT ",
	"LOWER(", "MAX(", "MIN(", "SUM(", "UPPER(",
}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextEngine:
		candidates = filterPrefix(engineNames, prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.names(), prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	case contextAliasTable:
		candidates = c.completeRegisteredTables(prefix)
	case contextRule:
		candidates = filterPrefix(ruleNames, prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	return contextCommand, strings.TrimSpace(line)
}

// completeTableNames returns registered, aliased and database table names
// matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	var names []string
	for name := range c.sess.tables {
		names = append(names, name)
	}
	for name := range c.sess.aliases {
		names = append(names, name)
	}
	if c.sess.conn != nil {
		names = append(names, c.sess.conn.schemaTables()...)
	}
	names = dedup(names)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// completeRegisteredTables returns only session-registered tables (for alias command).
func (c *replCompleter) completeRegisteredTables(prefix string) []string {
	var names []string
	for name := range c.sess.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// columnsOf lists the known columns of a table or alias: the declared
// columns first, then any the connected database reports.
func (c *replCompleter) columnsOf(name string) []string {
	var cols []string
	table := c.sess.tables[name]
	if a, ok := c.sess.aliases[name]; ok {
		table = a.Relation
	}
	if table != nil {
		for _, col := range table.Columns {
			cols = append(cols, col.Name)
		}
		if c.sess.conn != nil {
			cols = append(cols, c.sess.conn.schemaColumns(table.Name)...)
		}
	}
	return dedup(cols)
}

// completeColumnRef handles both table-name and table.column completion.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	if tableName, _, ok := strings.Cut(prefix, "."); ok {
		var candidates []string
		for _, col := range c.columnsOf(tableName) {
			candidates = append(candidates, tableName+"."+col)
		}
		candidates = append(candidates, tableName+".*")
		return filterPrefix(candidates, prefix)
	}

	candidates := c.completeTableNames(prefix)
	candidates = append(candidates, filterPrefix(functionNames, prefix)...)
	return candidates
}

// --- Per-command argument completers ---

// completeJoinArgs handles completion for join prefixes:
// table name, then the ON condition.
func completeJoinArgs(args string) (completionContext, string) {
	words := strings.Fields(args)
	if len(words) == 0 {
		return contextTableName, ""
	}
	if strings.Contains(args, " ") {
		if strings.HasSuffix(args, " ") {
			if strings.Contains(words[len(words)-1], ".") {
				return contextOperator, ""
			}
			return contextColumnRef, ""
		}
		return contextColumnRef, words[len(words)-1]
	}
	return contextTableName, args
}

// completeTableArgs handles completion for single-table commands.
func completeTableArgs(args string) (completionContext, string) {
	return contextTableName, strings.TrimSpace(args)
}

// completeColumnArgs handles completion for column-ref commands
// (select, where, or, group).
func completeColumnArgs(args string) (completionContext, string) {
	last := lastToken(args)
	if strings.HasSuffix(args, " ") {
		prevTokens := strings.Fields(args)
		if len(prevTokens) > 0 && strings.Contains(prevTokens[len(prevTokens)-1], ".") {
			return contextOperator, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, last
}

// completeOrderArgs handles completion for the order command:
// column refs, then direction (asc/desc/nulls) after a column.
func completeOrderArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		parts := strings.Fields(args)
		if len(parts) > 0 && strings.Contains(parts[len(parts)-1], ".") {
			return contextOrderDir, ""
		}
		return contextColumnRef, ""
	}
	last := lastToken(args)
	if slices.ContainsFunc(orderDirs, func(d string) bool {
		return last != "" && strings.HasPrefix(d, strings.ToLower(last))
	}) {
		return contextOrderDir, last
	}
	return contextColumnRef, last
}

func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

func completeRuleArgs(args string) (completionContext, string) {
	return contextRule, strings.TrimSpace(args)
}

// completePluginArgs handles completion for the plugin command:
// plugin names, or after "off" the names of enabled plugins.
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[4:])
	}
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextPlugin, arg
	}
	return contextCommand, ""
}

// completeAliasArgs handles completion for the alias command:
// first arg is a registered table name, second is free-form.
func completeAliasArgs(args string) (completionContext, string) {
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextAliasTable, arg
	}
	return contextCommand, ""
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return slices.Clone(items)
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings, keeping the first occurrence.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace- or comma-separated token.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " ,\t"); i >= 0 {
		return s[i+1:]
	}
	return s
}
