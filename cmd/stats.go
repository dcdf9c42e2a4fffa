package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/codebench/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
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

		progress, err := st.ProgressRepo().All(ctx)
		if err != nil {
			return err
		}
		var solved, attempted, starred int
		for _, p := range progress {
			switch p.Status {
			case store.StatusSolved:
				solved++
			case store.StatusAttempted:
				attempted++
			}
			if p.Starred {
				starred++
			}
		}

		days, _ := cmd.Flags().GetInt("days")
		opts := store.QueryOpts{}
		if days > 0 {
			opts.From = time.Now().AddDate(0, 0, -days)
		}
		attempts, err := st.EventRepo().QueryAttempts(ctx, opts)
		if err != nil {
			return err
		}
		var runs, submits, accepted int
		for _, a := range attempts {
			switch a.Kind {
			case store.AttemptRun:
				runs++
			case store.AttemptSubmit:
				submits++
				if a.Status == store.StatusSolved {
					accepted++
				}
			}
		}

		fmt.Printf("Solved:      %d\n", solved)
		fmt.Printf("In progress: %d\n", attempted)
		fmt.Printf("Starred:     %d\n", starred)
		fmt.Printf("Runs:        %s\n", humanize.Comma(int64(runs)))
		fmt.Printf("Submissions: %s (%s accepted)\n", humanize.Comma(int64(submits)), humanize.Comma(int64(accepted)))
		if len(attempts) > 0 {
			fmt.Printf("Last active: %s\n", humanize.Time(attempts[0].Timestamp))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("days", 0, "Only count attempts from the last N days")
}
