package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/prepared"
)

type rootOptions struct {
	cfgFile string
	engine  string
	dsn     string
	pretty  bool
	verbose bool

	cfg     *Config
	cfgPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "selekt",
		Short: "Compose, render and run typed SELECT statements",
		Long: `selekt - typed SELECT statement composer

Register tables with typed columns, build a query one clause at a time and
render it for PostgreSQL, MySQL or SQLite. Statements are validated as they
are built; run them against a live database through a prepared statement
cache.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			cfg, path, err := LoadConfig(opts.cfgFile, cmd.Flags())
			if err != nil {
				return configError("loading configuration", err)
			}
			opts.cfg, opts.cfgPath = cfg, path
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: auto-discover selekt.yaml)")
	pf.StringVarP(&opts.engine, "engine", "e", "", "SQL dialect: postgres, mysql or sqlite")
	pf.StringVar(&opts.dsn, "dsn", "", "database to connect to on startup (default: $DATABASE_URL)")
	pf.BoolVar(&opts.pretty, "pretty", false, "render multi-line SQL")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(newScriptCmd(opts), newConfigCmd(opts))
	return cmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) newSession(b backend.Backend, rl *readline.Instance) *Session {
	sess := NewSession(b, rl, newLogger(o.verbose))
	sess.pretty = o.cfg.Pretty
	if n := o.cfg.Database.MaxStatements; n > 0 {
		sess.cacheOpts = append(sess.cacheOpts, prepared.WithMaxEntries(n))
	}
	return sess
}

func runREPL(opts *rootOptions) error {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          replPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	b, err := chooseEngine(rl, opts.cfg.Engine)
	if err != nil {
		if opts.cfg.Engine != "" {
			return configError("engine", err)
		}
		fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
	}
	sess := opts.newSession(b, rl)
	defer sess.close()

	_ = rl.SetConfig(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     opts.cfg.History.File,
		HistoryLimit:    opts.cfg.History.Limit,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if dsn := opts.cfg.Database.URL; dsn != "" {
		if err := sess.cmdConnect(dsn); err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
		}
	}

	fmt.Printf("\nselekt (%s) - type 'help' for commands, 'exit' to quit\n\n", b)

	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if isExit(line) {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	fmt.Println()
	return nil
}

func isExit(line string) bool {
	lower := strings.ToLower(line)
	return lower == "exit" || lower == "quit"
}

func newScriptCmd(opts *rootOptions) *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "script [file]",
		Short: "Run REPL commands from a file or stdin",
		Long: `Run REPL commands non-interactively, one per line. Blank lines and lines
starting with # are skipped. The first failing command stops the script
unless --keep-going is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return scriptError("opening script", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			engine := opts.cfg.Engine
			if engine == "" {
				engine = "postgres"
			}
			b, err := backend.Parse(engine)
			if err != nil {
				return configError("engine", err)
			}
			sess := opts.newSession(b, nil)
			sess.out = cmd.OutOrStdout()
			defer sess.close()

			if dsn := opts.cfg.Database.URL; dsn != "" {
				if err := sess.cmdConnect(dsn); err != nil {
					return dbConnectError("connecting", err)
				}
			}
			return runScript(sess, in, cmd.ErrOrStderr(), keepGoing)
		},
	}
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue after a failing command")
	return cmd
}

// runScript executes each line of in as a REPL command.
func runScript(sess *Session, in io.Reader, errOut io.Writer, keepGoing bool) error {
	scanner := bufio.NewScanner(in)
	var failed int
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if isExit(line) {
			break
		}
		if err := sess.Execute(line); err != nil {
			if !keepGoing {
				return scriptError(fmt.Sprintf("line %d", lineNo), err)
			}
			failed++
			_, _ = fmt.Fprintf(errOut, "  Error (line %d): %v\n", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return scriptError("reading script", err)
	}
	if failed > 0 {
		return scriptError(fmt.Sprintf("%d command(s) failed", failed), nil)
	}
	return nil
}
