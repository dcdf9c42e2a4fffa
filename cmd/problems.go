package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/codebench/internal/problems"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List problems with your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		catalog, err := problems.Load(cfg.ProblemsDir)
		if err != nil {
			return fmt.Errorf("load problems: %w", err)
		}
		if err := catalog.MergeProgress(ctx, st.ProgressRepo()); err != nil {
			return err
		}

		starredOnly, _ := cmd.Flags().GetBool("starred")
		events := st.EventRepo()
		now := time.Now()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tDIFFICULTY\tLANGUAGE\tSTATUS\tLAST ATTEMPT")
		for _, p := range catalog.All() {
			if starredOnly && !p.IsStarred {
				continue
			}
			last := "-"
			if t, err := events.LatestAttemptTime(ctx, p.ID); err == nil && !t.IsZero() {
				last = humanize.RelTime(t, now, "ago", "from now")
			}
			title := p.Title
			if p.IsStarred {
				title = "★ " + title
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				p.ID, title, p.Difficulty, p.EditorLanguage(), p.Status, last)
		}
		return w.Flush()
	},
}

func init() {
	problemsCmd.Flags().Bool("starred", false, "Only list starred problems")
}
