package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codebench/internal/editor"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or reset editor settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved editor settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		s := editor.NewKVSettingsStore(st.SettingsRepo(), nil).Load(cmd.Context())
		fmt.Printf("theme:     %s\n", s.Theme)
		fmt.Printf("font size: %d\n", s.FontSize)
		fmt.Printf("minimap:   %t\n", s.MinimapEnabled)
		fmt.Printf("word wrap: %s\n", s.WordWrap)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default editor settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		editor.NewKVSettingsStore(st.SettingsRepo(), nil).Save(cmd.Context(), editor.DefaultSettings())
		fmt.Println("Editor settings reset.")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}
