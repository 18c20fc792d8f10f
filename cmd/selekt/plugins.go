package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/selekt/plugins"
	"github.com/bawdo/selekt/plugins/softdelete"
)

// pluginEntry represents an enabled plugin in the registry.
type pluginEntry struct {
	name    string
	factory func() plugins.Transformer // fresh instance per rendered statement
	status  func() string              // human-readable status for display
}

// pluginRegistry holds the currently enabled plugins, in the order they
// apply.
type pluginRegistry struct {
	entries []pluginEntry
}

// register adds or replaces a plugin by name.
func (r *pluginRegistry) register(entry pluginEntry) {
	for i, e := range r.entries {
		if e.name == entry.name {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// deregister removes a plugin by name. Returns false if not found.
func (r *pluginRegistry) deregister(name string) bool {
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *pluginRegistry) deregisterAll() {
	r.entries = nil
}

func (r *pluginRegistry) get(name string) (pluginEntry, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e, true
		}
	}
	return pluginEntry{}, false
}

func (r *pluginRegistry) names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// applyTo calls each plugin's factory and passes the result to use.
func (r *pluginRegistry) applyTo(use func(plugins.Transformer)) {
	for _, entry := range r.entries {
		use(entry.factory())
	}
}

// pluginConfigurer defines a known plugin that can be enabled via the plugin command.
type pluginConfigurer struct {
	name      string
	configure func(s *Session, args string) error
}

// configureSoftdelete parses softdelete arguments and registers the plugin.
//
//	plugin softdelete
//	plugin softdelete removed_at
//	plugin softdelete removed_at on users posts
//	plugin softdelete users.deleted_at, posts.removed_at
func configureSoftdelete(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	var opts []softdelete.Option
	var status string

	switch {
	case strings.Contains(rest, "."):
		var pairs []string
		for _, pair := range strings.Split(rest, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			table, col, ok := strings.Cut(pair, ".")
			if !ok || table == "" || col == "" {
				return fmt.Errorf("invalid table.column pair: %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(table, col))
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		status = strings.Join(pairs, ", ")

	case strings.Contains(strings.ToLower(rest), " on "):
		idx := strings.Index(strings.ToLower(rest), " on ")
		col := strings.TrimSpace(rest[:idx])
		tableList := strings.Fields(rest[idx+4:])
		if col == "" || len(tableList) == 0 {
			return errors.New("usage: plugin softdelete <column> on <table1> [table2 ...]")
		}
		opts = append(opts, softdelete.WithColumn(col), softdelete.WithTables(tableList...))
		status = fmt.Sprintf("column: %s, tables: %s", col, strings.Join(tableList, ", "))

	case rest != "":
		col := strings.Fields(rest)[0]
		opts = append(opts, softdelete.WithColumn(col))
		status = "column: " + col

	default:
		status = "column: deleted_at"
	}

	s.plugins.register(pluginEntry{
		name:    "softdelete",
		factory: func() plugins.Transformer { return softdelete.New(opts...) },
		status:  func() string { return status },
	})
	s.printf("Soft-delete enabled (%s)\n", status)
	return nil
}
