package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/printflow/backend/internal/infrastructure/config"
	"github.com/printflow/backend/internal/infrastructure/logger"
	"github.com/printflow/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate <command> [arguments]

Commands:
  up                 Apply all pending migrations
  down               Roll back all migrations
  steps <n>          Apply n migrations (negative n rolls back)
  version            Print the current migration version
  force <version>    Force the version without running migrations
  create <name>      Create a new up/down migration pair
  list               List migrations in the migrations directory
`

func main() {
	var (
		dir = flag.String("dir", "migrations", "path to the migrations directory")
		dsn = flag.String("dsn", "", "database URL (defaults to the configured database)")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(args, *dir, *dsn, log); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func run(args []string, dir, dsn string, log *zap.Logger) error {
	cmd := args[0]

	// create and list work on the filesystem only
	switch cmd {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("create requires a migration name")
		}
		mf, err := migration.CreateMigration(dir, args[1])
		if err != nil {
			return err
		}
		log.Info("Created migration",
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return nil
	case "list":
		files, err := migration.ListMigrations(dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	}

	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		dsn = cfg.Database.DSN()
	}

	m, err := migration.NewFromURL(dsn, dir, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	switch cmd {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requires a count")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		return m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		state := "clean"
		if dirty {
			state = "dirty"
		}
		fmt.Printf("version %d (%s)\n", version, state)
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(v)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
