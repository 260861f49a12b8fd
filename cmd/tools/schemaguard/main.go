// cmd/tools/schemaguard/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/config"
	"github.com/codr1/matchday/internal/db"
	"github.com/codr1/matchday/internal/schemaguard"
)

const usage = `usage: schemaguard [flags] <command> [tightening]

commands:
  list                 print the built-in tightenings
  status               show enforcement state, violations and quarantined rows
  scan <name>          list rows violating a tightening (-backfill repairs what it can)
  quarantine <name>    move violating rows to the quarantine table
  enforce <name>       install enforcement; refused while violations remain
  relax <name>         drop enforcement
  apply                enforce every tightening the data already satisfies

flags:
`

func main() {
	var (
		configPath = flag.String("config", "config/app.yaml", "Path to the YAML config file")
		dbPath     = flag.String("db", "", "SQLite database path; overrides -config")
		backfill   = flag.Bool("backfill", false, "Run the tightening's backfill during scan")
		quarantine = flag.Bool("quarantine", false, "Quarantine violating rows during apply")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	database, err := openDatabase(*configPath, *dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{backfill: *backfill, quarantine: *quarantine}
	if err := run(ctx, os.Stdout, schemaguard.New(database), flag.Args(), opts); err != nil {
		log.Error().Err(err).Strs("args", flag.Args()).Msg("Schema guard command failed")
		os.Exit(1)
	}
}

func openDatabase(configPath, dbPath string) (*db.DB, error) {
	if dbPath != "" {
		return db.New(dbPath)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return db.NewFromConfig(cfg)
}

type options struct {
	backfill   bool
	quarantine bool
}

func run(ctx context.Context, out io.Writer, guard *schemaguard.Guard, args []string, opts options) error {
	command := args[0]
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	needsName := func() error {
		if name == "" {
			return fmt.Errorf("%s requires a tightening name", command)
		}
		return nil
	}

	switch command {
	case "list":
		type entry struct {
			Name          string `json:"name"`
			Table         string `json:"table"`
			Description   string `json:"description"`
			Quarantinable bool   `json:"quarantinable"`
		}
		var entries []entry
		for _, t := range guard.Tightenings() {
			entries = append(entries, entry{Name: t.Name, Table: t.Table, Description: t.Description, Quarantinable: t.Quarantinable})
		}
		return writeJSON(out, entries)
	case "status":
		statuses, err := guard.Status(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, statuses)
	case "scan":
		if err := needsName(); err != nil {
			return err
		}
		report, err := guard.Scan(ctx, name, opts.backfill)
		if err != nil {
			return err
		}
		return writeJSON(out, report)
	case "quarantine":
		if err := needsName(); err != nil {
			return err
		}
		report, err := guard.Quarantine(ctx, name)
		if err != nil {
			return err
		}
		return writeJSON(out, report)
	case "enforce":
		if err := needsName(); err != nil {
			return err
		}
		report, err := guard.Enforce(ctx, name)
		if err != nil {
			// The report still lists the blocking rows.
			_ = writeJSON(out, report)
			return err
		}
		return writeJSON(out, report)
	case "relax":
		if err := needsName(); err != nil {
			return err
		}
		if err := guard.Relax(ctx, name); err != nil {
			return err
		}
		return writeJSON(out, map[string]string{"relaxed": name})
	case "apply":
		reports, err := guard.Apply(ctx, schemaguard.ApplyOptions{Quarantine: opts.quarantine})
		if err != nil {
			return err
		}
		return writeJSON(out, reports)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
