package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/hackjudge/internal/app"
	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/config"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/services"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var version = "dev"

var (
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "SQLite database path (overrides db_path)",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "loglevel",
		Usage: "Log level: debug, info, warn, error (overrides log_level)",
	}

	addrFlag = &cli.StringFlag{
		Name:  "addr",
		Usage: "HTTP listen address (overrides addr)",
	}

	adminPwFlag = &cli.StringFlag{
		Name:  "adminpw",
		Usage: "Admin password (auto-generated if not set)",
	}

	eventFlag = &cli.IntFlag{
		Name:     "event",
		Usage:    "Judging event ID",
		Required: true,
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hackjudge: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "hackjudge",
		Usage:   "Hackathon judging server",
		Version: version,
		Flags: []cli.Flag{
			dbFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Flags:  []cli.Flag{addrFlag, adminPwFlag},
				Action: cmdServe,
			},
			{
				Name:   "leaderboard",
				Usage:  "Print an event's standings from the database",
				Flags:  []cli.Flag{eventFlag, formatFlag},
				Action: cmdLeaderboard,
			},
		},
	}
}

// loadConfig layers command-line flags over the file and environment config
func loadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if v := cmd.String(dbFlag.Name); v != "" {
		cfg.DBPath = v
	}
	if v := cmd.String(logLevelFlag.Name); v != "" {
		cfg.LogLevel = v
	}
	if v := cmd.String(addrFlag.Name); v != "" {
		cfg.Addr = v
	}
	if v := cmd.String(adminPwFlag.Name); v != "" {
		cfg.AdminPassword = v
	}
	return cfg, nil
}

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))
	defer appLog.Sync()

	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
		appLog.Info("Admin password", "password", password)
	}

	a, err := app.New(ctx, cfg, appLog, auth.New(password))
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

func cmdLeaderboard(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	format := cmd.String(formatFlag.Name)
	if format == "yml" {
		format = formatYAML
	}
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unsupported format %q", format)
	}

	// Keep stdout clean for the report
	appLog := logger.NewWithWriter(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	a, err := app.New(ctx, cfg, appLog, auth.New(auth.GeneratePassword()))
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	board, err := a.Leaderboard(ctx, int(cmd.Int(eventFlag.Name)))
	if err != nil {
		return err
	}
	return printLeaderboard(os.Stdout, board, format)
}

func printLeaderboard(w io.Writer, board *services.Leaderboard, format string) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(board)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(board)
}
