package cli

import (
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/spf13/cobra"
)

func newPingCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd)
			defer cancel()
			if err := a.client.Ping(ctx); err != nil {
				return explain(err)
			}
			fmt.Fprintln(a.out, "OK")
			return nil
		},
	}
}

// credentials reads the email (flag or prompt) and the password.
func (a *App) credentials(email string) (string, []byte, error) {
	if email == "" {
		var err error
		if email, err = GetSimpleText(a.in, "Email", a.out); err != nil {
			return "", nil, err
		}
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, pw, nil
}

func newRegisterCmd(a *App) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, pw, err := a.credentials(email)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			id, err := a.client.Register(ctx, email, string(pw), name)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Registered user #%d. Run `gophchat login` to sign in.\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLoginCmd(a *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, pw, err := a.credentials(email)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			if err := a.client.Login(ctx, email, string(pw)); err != nil {
				return explain(err)
			}
			access, refresh := a.client.Tokens()
			if err := a.session.Save(session.Tokens{AccessToken: access, RefreshToken: refresh}); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			err := a.client.Logout(ctx)
			if cerr := a.session.Clear(); cerr != nil {
				return cerr
			}
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			u, err := a.client.Profile(ctx)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "#%d %s (%s)\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
}
