package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/snappy-loop/storybook/internal/models"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one saved story",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	})
}

func runShow(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("parse id", err)
	}

	db, repo, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer db.Close()

	s, err := repo.GetByID(cmd.Context(), id)
	if err != nil {
		exitErr("show", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(s, "", "  ")
		fmt.Fprintln(out, string(b))
		return
	}

	fmt.Fprintf(out, "%s\n%s | %s | %s | %s\n\n", displayTitle(s.Title, s.Theme), s.Theme, s.Language, s.AgeGroup, s.ImageStyle)
	for i, chunk := range s.Chunks {
		fmt.Fprintf(out, "%s\n%s\n", models.ChapterLabel(s.Language, i+1), chunk)
		if i < len(s.ImagePaths) && s.ImagePaths[i] != "" {
			fmt.Fprintf(out, "  image: %s\n", s.ImagePaths[i])
		}
		fmt.Fprintln(out)
	}
	if s.AudioPath != "" {
		fmt.Fprintf(out, "audio: %s\n", s.AudioPath)
	}
}
