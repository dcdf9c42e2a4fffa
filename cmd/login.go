package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Sign in with an access token",
	Args:  cobra.ExactArgs(1),
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

		a, _ := newTokenAuth(ctx, cfg, st)
		id, err := a.Login(ctx, args[0])
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		if id.ExpiresAt.IsZero() {
			fmt.Printf("Signed in as %s.\n", id.UserID)
		} else {
			fmt.Printf("Signed in as %s until %s.\n", id.UserID, id.ExpiresAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved access token",
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

		a, _ := newTokenAuth(ctx, cfg, st)
		if err := a.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}
