package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/client"
	"github.com/adanyl0v/flowfocus/internal/services"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

func registerCmd() *cobra.Command {
	var flagName, flagEmail string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.remote()
			if err != nil {
				return err
			}

			prompter := newLinePrompter(cmd.InOrStdin(), e.out)
			email, password, err := credentials(prompter, flagEmail)
			if err != nil {
				return err
			}

			resp, err := r.client.Register(cmd.Context(), flagName, email, password)
			if err != nil {
				return err
			}
			err = r.signIn(resp.UserID, resp.SessionID, email, flagName)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s Welcome, %s!\n", ui.BoldGreen("Account created."), displayName(flagName, email))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagName, "name", "", "Display name")
	cmd.Flags().StringVar(&flagEmail, "email", "", "Email address")
	return cmd
}

func loginCmd() *cobra.Command {
	var flagEmail string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the FlowFocus server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.remote()
			if err != nil {
				return err
			}

			prompter := newLinePrompter(cmd.InOrStdin(), e.out)
			email, password, err := credentials(prompter, flagEmail)
			if err != nil {
				return err
			}

			resp, err := r.client.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrUserPasswordMismatch) {
					return errors.New("invalid email or password")
				}
				return err
			}

			name := ""
			if r.session.Email == email {
				name = r.session.Profile.DisplayName
			}
			err = r.signIn(resp.UserID, resp.SessionID, email, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s Signed in as %s\n", ui.BoldGreen("Welcome back!"), email)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagEmail, "email", "", "Email address")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End this device's session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.remote()
			if err != nil {
				return err
			}

			if r.session.LoggedIn() {
				err = r.client.Logout(cmd.Context())
				if err != nil && !isNotLoggedIn(err) && !errors.Is(err, services.ErrSessionNotFound) {
					return err
				}
			}
			err = r.sessionFile.Clear()
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out, "Signed out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := e.loggedIn()
			if err != nil {
				return err
			}

			session, err := r.client.Session(cmd.Context())
			if err != nil {
				if isNotLoggedIn(err) {
					return fmt.Errorf("session expired: run `flowfocus login` again")
				}
				return err
			}

			fmt.Fprintln(e.out, ui.Bold(displayName(r.session.Profile.DisplayName, r.session.Email)))
			fmt.Fprintf(e.out, "%s %s\n", ui.Dim("user:   "), session.UserID)
			fmt.Fprintf(e.out, "%s %s\n", ui.Dim("session:"), session.SessionID)
			return nil
		},
	}
}

// signIn persists a fresh session, keeping the local avatar of the same
// account.
func (r *remote) signIn(userID, sessionID, email, name string) error {
	profile := client.Profile{DisplayName: name}
	if r.session.Email == email {
		profile.Avatar = r.session.Profile.Avatar
	}

	r.session = &client.Session{
		Tokens:    r.client.Tokens(),
		UserID:    userID,
		SessionID: sessionID,
		Email:     email,
		Profile:   profile,
	}
	return r.save()
}

// credentials asks for whatever the flags left out. FLOWFOCUS_PASSWORD
// skips the password prompt for scripted use.
func credentials(p *linePrompter, email string) (string, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		answer, ok := p.Prompt("Email:", "")
		if !ok {
			return "", "", errors.New("cancelled")
		}
		email = strings.TrimSpace(answer)
	}
	if email == "" {
		return "", "", errors.New("please enter an email")
	}

	password := os.Getenv("FLOWFOCUS_PASSWORD")
	if password == "" {
		answer, ok := p.Prompt("Password:", "")
		if !ok {
			return "", "", errors.New("cancelled")
		}
		password = answer
	}
	if password == "" {
		return "", "", errors.New("please enter a password")
	}
	return email, password, nil
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return email
}
