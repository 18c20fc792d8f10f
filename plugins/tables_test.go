package plugins

import (
	"testing"

	"github.com/bawdo/selekt/nodes"
)

func TestCollectTablesFromTable(t *testing.T) {
	users := nodes.NewTable("users")

	refs := CollectTables(users)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != users {
		t.Error("expected relation to be the table")
	}
}

func TestCollectTablesFromAlias(t *testing.T) {
	u := nodes.NewTable("users").Alias("u")

	refs := CollectTables(u)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected underlying name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != u {
		t.Error("expected relation to be the alias")
	}
}

func TestCollectTablesIncludesJoins(t *testing.T) {
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	comments := nodes.NewTable("comments")
	src := nodes.InnerJoinOn(
		nodes.InnerJoinOn(users, posts, posts.Col("user_id").Eq(users.Col("id"))),
		comments, comments.Col("post_id").Eq(posts.Col("id")),
	)

	refs := CollectTables(src)
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	if names[0] != "users" || names[1] != "posts" || names[2] != "comments" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestCollectTablesTableless(t *testing.T) {
	if refs := CollectTables(nodes.NoSource{}); len(refs) != 0 {
		t.Errorf("expected no refs, got %v", refs)
	}
}
