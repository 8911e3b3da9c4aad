package cli

import (
	"fmt"
	"strings"

	"github.com/snappy-loop/storybook/migrations"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the stories table",
		Args:  cobra.NoArgs,
		Run:   runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, args []string) {
	db, _, err := openStore()
	if err != nil {
		exitErr("migrate", err)
	}
	defer db.Close()

	cols, err := migrations.Columns(cmd.Context(), db.SQLDB(), "stories")
	if err != nil {
		exitErr("read columns", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: stories(%s)\n", getDBPath(), strings.Join(cols, ", "))
}
