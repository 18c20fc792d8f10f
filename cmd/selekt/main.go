// Command selekt is an interactive shell for composing typed SELECT
// statements, rendering them for PostgreSQL, MySQL or SQLite, and running
// them through a prepared statement cache.
//
// Configuration is read from selekt.yaml (discovered by walking up from the
// working directory), SELEKT_* environment variables, DATABASE_URL and
// command-line flags, in increasing order of precedence.
//
// Usage:
//
//	selekt [--engine postgres] [--dsn <dsn>]
//	selekt script [file]
package main

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitWithError(err)
	}
}
