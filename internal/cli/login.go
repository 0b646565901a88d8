package cli

import (
	"fmt"

	"storefront_service/internal/notify"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				n := notify.Failure(notify.OpLogin, err)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", n.Title, n.Description)
				return err
			}
			if err := a.saveToken(session.Token); err != nil {
				return err
			}
			n := notify.Success(notify.OpLogin)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", n.Title, n.Description)
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s, token saved to %s\n", session.Email, a.tokenFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
