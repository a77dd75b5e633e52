package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Long: `Sign in with your shop account. The issued credentials are stored in the
configured backend and reused by later commands until you log out.

The password is read from standard input when --password is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.session.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", id.Name, id.Role)
			if !id.IsStaff() {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("This account is not staff; admin commands will be refused by the server."))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var reg domain.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg.Role = strings.ToUpper(reg.Role)
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.session.SignUp(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s (%s)\n", id.Name, id.Role)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Email, "email", "", "Account email")
	f.StringVar(&reg.Password, "password", "", "Account password")
	f.StringVar(&reg.Name, "name", "", "Full name")
	f.StringVar(&reg.Number, "number", "", "Phone number")
	f.StringVar(&reg.Role, "role", domain.RoleStaff, "ADMIN, STAFF or STUDENT")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			renderIdentity(cmd.OutOrStdout(), a.session.Identity(), tokenExpiry(a.session.AccessToken()))
			return nil
		},
	}
}

func (c *cli) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or refresh the stored session",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.session.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "State:   %s\n", a.session.State())
			if id := a.session.Identity(); id != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Account: %s <%s>\n", id.Name, id.Email)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for new credentials now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.session.RefreshAccessToken(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials refreshed")
			if exp := tokenExpiry(a.session.AccessToken()); !exp.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "Access expires %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	})
	return cmd
}

// tokenExpiry reads exp from a JWT without verifying it. The client treats
// tokens as opaque; this is display only. Zero when absent or unparseable.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
