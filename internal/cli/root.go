// Package cli implements the storyctl commands for inspecting the story database.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/snappy-loop/storybook/internal/database"
	"github.com/snappy-loop/storybook/migrations"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "Inspect and maintain the story database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $DATABASE_PATH or stories.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("DATABASE_PATH"); env != "" {
		return env
	}
	return "stories.db"
}

// openStore connects to the database and brings its schema up to date.
func openStore() (*database.DB, *database.StoryRepository, error) {
	db, err := database.Connect(getDBPath())
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Run(db.SQLDB()); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, database.NewStoryRepository(db), nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
