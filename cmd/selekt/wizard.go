package main

import (
	"errors"
	"fmt"
	"net/url"
	"os/user"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/selekt/backend"
)

const replPrompt = "selekt> "

// chooseEngine returns the configured engine, or asks for one when none
// is configured.
func chooseEngine(rl *readline.Instance, configured string) (backend.Backend, error) {
	if configured != "" {
		return backend.Parse(configured)
	}
	choice := prompt(rl, "Select engine (postgres, mysql, sqlite)", "postgres")
	b, err := backend.Parse(choice)
	if err != nil {
		return backend.Postgres, fmt.Errorf("%w, defaulting to postgres", err)
	}
	return b, nil
}

// cmdConnectWizard prompts for connection details for the current engine,
// falling back to the last DSN when there is no terminal.
func (s *Session) cmdConnectWizard() error {
	if s.rl == nil {
		return s.cmdConnect("")
	}
	var dsn string
	switch s.backend {
	case backend.SQLite:
		dsn = s.buildSQLiteDSN()
	case backend.MySQL:
		dsn = s.buildMySQLDSN()
	default:
		dsn = s.buildPostgresDSN()
	}
	if dsn == "" {
		return errors.New("no connection configured")
	}
	return s.cmdConnect(dsn)
}

// prompt prints a label with an optional default and returns the user's input
// (or the default if they press enter).
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("  %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("  %s: ", label))
	}
	defer rl.SetPrompt(replPrompt)
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	val := strings.TrimSpace(line)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *Session) buildSQLiteDSN() string {
	s.printf("SQLite connection setup:\n")
	return prompt(s.rl, "Database path", ":memory:")
}

func (s *Session) buildPostgresDSN() string {
	s.printf("PostgreSQL connection setup:\n")

	defaultUser := "postgres"
	if u, err := user.Current(); err == nil && u.Username != "" {
		defaultUser = u.Username
	}

	dbUser := prompt(s.rl, "User", defaultUser)
	dbPass := prompt(s.rl, "Password", "")
	host := prompt(s.rl, "Host", "localhost")
	port := prompt(s.rl, "Port", "5432")
	dbName := prompt(s.rl, "Database", dbUser)
	sslMode := prompt(s.rl, "SSL mode (disable/require/verify-full)", "disable")
	return postgresDSN(dbUser, dbPass, host, port, dbName, sslMode)
}

func postgresDSN(dbUser, dbPass, host, port, dbName, sslMode string) string {
	userInfo := url.User(dbUser)
	if dbPass != "" {
		userInfo = url.UserPassword(dbUser, dbPass)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

func (s *Session) buildMySQLDSN() string {
	s.printf("MySQL connection setup:\n")

	dbUser := prompt(s.rl, "User", "root")
	dbPass := prompt(s.rl, "Password", "")
	host := prompt(s.rl, "Host", "localhost")
	port := prompt(s.rl, "Port", "3306")
	dbName := prompt(s.rl, "Database", "")
	if dbName == "" {
		return ""
	}
	return mysqlDSN(dbUser, dbPass, host, port, dbName)
}

// mysqlDSN formats user:pass@tcp(host:port)/dbname.
func mysqlDSN(dbUser, dbPass, host, port, dbName string) string {
	auth := dbUser
	if dbPass != "" {
		auth = dbUser + ":" + dbPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s", auth, host, port, dbName)
}
