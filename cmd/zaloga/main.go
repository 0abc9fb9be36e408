package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/logging"
	"github.com/erazemk/zaloga/internal/store"
)

const usage = `Usage: zaloga [flags] [command]

Commands:
  serve                   run the HTTP server (default)
  migrate [up|down]       apply or roll back database migrations (default: up)
  seed                    reset the database and insert sample items

Flags:
  -c, -config <path>      YAML config file (default: $ZALOGA_CONFIG)
  -d, -db <dsn>           SQLite path or Postgres URL (default: zaloga.sqlite3)
      -driver <name>      database driver: sqlite or postgres (default: sqlite)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
      -log-level <level>  debug, info, warn or error (default: info)
  -h, -help               show this help and exit
`

// invocation is a parsed command line.
type invocation struct {
	command string
	args    []string
	cfg     *config.Config
}

// parseArgs parses flags, loads the layered configuration and applies any
// flags that were set explicitly on top of it.
func parseArgs(ctx context.Context, args []string, output io.Writer) (*invocation, error) {
	fs := flag.NewFlagSet("zaloga", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { fmt.Fprint(output, usage) }

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	var dsn string
	fs.StringVar(&dsn, "db", "", "")
	fs.StringVar(&dsn, "d", "", "")

	var driver string
	fs.StringVar(&driver, "driver", "", "")

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var logLevel string
	fs.StringVar(&logLevel, "log-level", "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db", "d":
			cfg.DBDSN = dsn
		case "driver":
			cfg.DBDriver = driver
		case "addr", "a":
			cfg.Addr = addr
		case "log", "l":
			cfg.LogFile = logPath
		case "log-level":
			cfg.LogLevel = logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	inv := &invocation{command: "serve", cfg: cfg}
	if fs.NArg() > 0 {
		inv.command = fs.Arg(0)
		inv.args = fs.Args()[1:]
	}

	switch inv.command {
	case "serve", "seed":
		if len(inv.args) > 0 {
			return nil, fmt.Errorf("unexpected argument: %s", inv.args[0])
		}
	case "migrate":
		if len(inv.args) > 1 {
			return nil, fmt.Errorf("unexpected argument: %s", inv.args[1])
		}
		if len(inv.args) == 1 && inv.args[0] != "up" && inv.args[0] != "down" {
			return nil, fmt.Errorf("unknown migrate direction: %s", inv.args[0])
		}
	default:
		return nil, fmt.Errorf("unknown command: %s", inv.command)
	}

	return inv, nil
}

func main() {
	ctx := context.Background()

	inv, err := parseArgs(ctx, os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logging.Setup(inv.cfg.LogLevel, inv.cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(ctx, inv); err != nil {
		slog.Error("command failed", "command", inv.command, "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, inv *invocation) error {
	database, err := db.Open(inv.cfg.Driver(), inv.cfg.DBDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	switch inv.command {
	case "migrate":
		return migrate(database, inv.args)
	case "seed":
		return seed(ctx, database)
	default:
		return serve(ctx, inv.cfg, database)
	}
}

func migrate(database *db.DB, args []string) error {
	if len(args) == 1 && args[0] == "down" {
		if err := db.MigrateDown(database); err != nil {
			return err
		}
		slog.Info("migrations rolled back")
		return nil
	}

	if err := db.Migrate(database); err != nil {
		return err
	}
	version, dirty, err := db.Version(database)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

func seed(ctx context.Context, database *db.DB) error {
	if err := db.Reset(database); err != nil {
		return err
	}

	items, err := store.Seed(ctx, database)
	if err != nil {
		return err
	}
	for _, item := range items {
		slog.Info("seeded item", "id", item.ID, "name", item.Name, "price", item.Price)
	}
	return nil
}
