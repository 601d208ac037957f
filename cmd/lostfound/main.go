package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/match"
	"github.com/erazemk/lostfound/internal/notify"
	"github.com/erazemk/lostfound/internal/service"
)

// app holds the state shared by all subcommands.
type app struct {
	envFile string
	dbPath  string
	logPath string

	logOut io.Writer

	database *sql.DB
	svc      *service.Service
	closeLog func()
}

func main() {
	a := &app{logOut: os.Stdout}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lostfound",
		Short:         "Campus lost-and-found matching and notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "environment file to load if present")
	root.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "SQLite database path (default: $"+config.EnvDB+" or "+config.DefaultDBPath+")")
	root.PersistentFlags().StringVarP(&a.logPath, "log", "l", "", "log file path (default: $"+config.EnvLog+", or stdout/stderr only)")

	root.AddCommand(
		newUserCmd(a),
		newLostCmd(a),
		newFoundCmd(a),
		newMatchesCmd(a),
		newRematchCmd(a),
		newNotifyPendingCmd(a),
		newResolveCmd(a),
		newSweepCmd(a),
		newAnnounceCmd(a),
		newNotificationsCmd(a),
		newReadCmd(a),
	)
	return root
}

// open returns the service, loading the configuration, setting up logging
// and opening the database on first use. Flags override the environment.
func (a *app) open(cmd *cobra.Command) (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	cfg, err := config.Load(a.envFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if cmd.Flags().Changed("log") {
		cfg.LogPath = a.logPath
	}

	policy, err := notify.New(cfg.Notify)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := setupLogger(a.logOut, cfg.LogPath)
	if err != nil {
		return nil, err
	}
	a.closeLog = closeLog

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, err
	}
	a.database = database

	a.svc = service.New(database, match.NewEngine(cfg.Match), policy)
	a.svc.Logger = logger
	logger.Info("database ready", "path", cfg.DBPath)
	return a.svc, nil
}

func (a *app) close() {
	a.svc = nil
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}
