package main

import (
	"slices"
	"testing"

	"github.com/bawdo/selekt/backend"
)

func newTestCompleter(tables ...string) *replCompleter {
	sess := newTestSession(backend.Postgres)
	for _, t := range tables {
		_ = sess.Execute("table " + t)
	}
	return &replCompleter{sess: sess}
}

func complete(c *replCompleter, line string) []string {
	suffixes, length := c.Do([]rune(line), len([]rune(line)))
	prefix := string([]rune(line)[len([]rune(line))-length:])
	var out []string
	for _, s := range suffixes {
		out = append(out, prefix+string(s[:len(s)-1]))
	}
	return out
}

// --- Command completion ---

func TestCompleteCommandsEmpty(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	got := complete(c, "")
	if len(got) != len(c.sess.commandNames()) {
		t.Errorf("expected %d commands, got %d", len(c.sess.commandNames()), len(got))
	}
}

func TestCompleteCommandsPrefix(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	if got := complete(c, "sel"); !slices.Equal(got, []string{"select"}) {
		t.Errorf("expected [select], got %v", got)
	}
}

func TestCommandNamesExcludeHidden(t *testing.T) {
	t.Parallel()
	names := newTestCompleter().sess.commandNames()
	for _, hidden := range []string{"t", "tosql", "project", "exec", "outer join"} {
		if slices.Contains(names, hidden) {
			t.Errorf("hidden command %q listed", hidden)
		}
	}
	for _, want := range []string{"from", "distinct on", "left join", "rules", "run"} {
		if !slices.Contains(names, want) {
			t.Errorf("command %q missing from %v", want, names)
		}
	}
}

// --- Argument completion ---

func TestCompleteFromTables(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users", "posts", "payments")
	got := complete(c, "from p")
	if !slices.Equal(got, []string{"payments", "posts"}) {
		t.Errorf("expected [payments posts], got %v", got)
	}
}

func TestCompleteDeclaredColumns(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users id:bigint name:text nickname:text?")
	got := complete(c, "select users.n")
	if !slices.Equal(got, []string{"users.name", "users.nickname"}) {
		t.Errorf("expected declared columns, got %v", got)
	}
}

func TestCompleteAliasColumns(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users id:bigint")
	_ = c.sess.Execute("alias users u")
	got := complete(c, "where u.")
	if !slices.Equal(got, []string{"u.id", "u.*"}) {
		t.Errorf("expected alias columns, got %v", got)
	}
}

func TestCompleteOperatorAfterColumn(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	got := complete(c, "where users.id ")
	if !slices.Contains(got, "between") || !slices.Contains(got, "ilike") {
		t.Errorf("expected operators, got %v", got)
	}
}

func TestCompleteOrderDirection(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	got := complete(c, "order users.id de")
	if !slices.Equal(got, []string{"desc"}) {
		t.Errorf("expected [desc], got %v", got)
	}
}

func TestCompleteEngineAndRules(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	if got := complete(c, "engine my"); !slices.Equal(got, []string{"mysql"}) {
		t.Errorf("expected [mysql], got %v", got)
	}
	if got := complete(c, "rules g"); !slices.Equal(got, []string{"grouping"}) {
		t.Errorf("expected [grouping], got %v", got)
	}
}

func TestCompletePlugins(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	if got := complete(c, "plugin so"); !slices.Equal(got, []string{"softdelete"}) {
		t.Errorf("expected [softdelete], got %v", got)
	}
	if got := complete(c, "plugin off "); len(got) != 0 {
		t.Errorf("expected no enabled plugins, got %v", got)
	}
	_ = c.sess.Execute("plugin softdelete")
	if got := complete(c, "plugin off "); !slices.Equal(got, []string{"softdelete"}) {
		t.Errorf("expected [softdelete], got %v", got)
	}
}

func TestFilterPrefixCaseInsensitive(t *testing.T) {
	t.Parallel()
	got := filterPrefix([]string{"COUNT(", "COALESCE(", "CAST("}, "co")
	if !slices.Equal(got, []string{"COUNT(", "COALESCE("}) {
		t.Errorf("got %v", got)
	}
}
