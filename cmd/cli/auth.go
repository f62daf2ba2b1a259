package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/usecase"
)

func newLoginCmd(rt func() *runtime) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			resp, err := r.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := writeToken(r.opts.tokenFile, resp.Token); err != nil {
				return err
			}
			// cached reads belong to the previous session
			usecase.InvalidateAll(r.store)

			if ok, err := r.printJSON(resp); ok {
				return err
			}
			fmt.Fprintf(r.out, "signed in as %s (expires %s)\n", resp.User.Email, resp.ExpiresAt.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", domain.DemoUser.Email, "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			err := r.auth.Logout(cmd.Context())
			if rmErr := removeToken(r.opts.tokenFile); rmErr != nil {
				return rmErr
			}
			n := usecase.InvalidateAll(r.store)
			r.logger.Debug().Int("entries", n).Msg("cache cleared")
			if err != nil {
				r.logger.Warn().Err(err).Msg("server logout failed")
			}
			fmt.Fprintln(r.out, "signed out")
			return nil
		},
	}
}
