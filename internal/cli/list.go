package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved stories, newest first",
		Args:  cobra.NoArgs,
		Run:   runList,
	}
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	db, repo, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer db.Close()

	stories, err := repo.List(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}

	out := cmd.OutOrStdout()
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(stories, "", "  ")
		fmt.Fprintln(out, string(b))
		return
	}
	for _, s := range stories {
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%d chunks\n",
			s.ID, s.CreatedAt.Format(time.DateTime), s.Language, displayTitle(s.Title, s.Theme), len(s.Chunks))
	}
}

func displayTitle(title, theme string) string {
	if title != "" {
		return title
	}
	return theme + " Story"
}
