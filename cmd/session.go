// ABOUTME: Session commands for the freelancehub CLI: login, register, logout and whoami
// ABOUTME: Prompts with huh forms when credentials are not given as flags

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/freelancehub/freelancehub-cli/internal/auth"
)

var (
	loginEmail    string
	loginPassword string
	regFirstName  string
	regLastName   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to FreelanceHub",
	Long: `Log in with email and password. The session token is saved in the config
directory and reused by later commands until you log out or it expires.

Missing credentials are prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := promptLogin(); err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}
		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a FreelanceHub account",
	Long:  `Create an account and log in with it. Missing fields are prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := promptRegister(); err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}
		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Long: `Restore the saved session and show who is logged in.

Exit codes:
  0 - Logged in
  2 - Not logged in, or the saved session was rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")

	registerCmd.Flags().StringVar(&regFirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&regLastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}

// promptLogin asks for whichever credentials were not given as flags
func promptLogin() error {
	if loginEmail != "" && loginPassword != "" {
		return nil
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&loginEmail).Validate(auth.ValidateEmail),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword).
			Validate(required("Password is required")),
	)).Run()
}

// promptRegister asks for whichever registration fields were not given as flags
func promptRegister() error {
	if regFirstName != "" && regLastName != "" && loginEmail != "" && loginPassword != "" {
		return nil
	}
	var confirm string
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First name").Value(&regFirstName).Validate(required("First name is required")),
		huh.NewInput().Title("Last name").Value(&regLastName).Validate(required("Last name is required")),
		huh.NewInput().Title("Email").Value(&loginEmail).Validate(auth.ValidateEmail),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword).
			Validate(required("Password is required")),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
			Validate(func(s string) error {
				if s != loginPassword {
					return errors.New("Passwords do not match")
				}
				return nil
			}),
	)).Run()
}

func required(msg string) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}

	if err := a.auth.Login(ctx, loginEmail, loginPassword); err != nil {
		return fail(w, err)
	}
	printSession(w, a.auth.Session())
	return 0
}

// runRegister creates an account and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}

	err = a.auth.Register(ctx, auth.Profile{
		FirstName: regFirstName,
		LastName:  regLastName,
		Email:     loginEmail,
		Password:  loginPassword,
	})
	if err != nil {
		return fail(w, err)
	}
	printSession(w, a.auth.Session())
	return 0
}

// runLogout clears the saved session and returns exit code
func runLogout(w io.Writer) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}
	a.auth.Logout()
	if IsJSONOutput() {
		printSession(w, a.auth.Session())
	}
	return 0
}

// runWhoami restores the saved session and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}
	if err := a.start(ctx, false); err != nil {
		return fail(w, err)
	}

	s := a.auth.Session()
	printSession(w, s)
	if !a.auth.IsAuthenticated() {
		return 2
	}
	return 0
}

func printSession(w io.Writer, s auth.Session) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(s))
	} else {
		fmt.Fprintln(w, formatSessionHuman(s))
	}
}

// formatSessionHuman formats the session for human readability
func formatSessionHuman(s auth.Session) string {
	if s.User == nil {
		return "Not logged in"
	}
	return fmt.Sprintf(`User:    %s
Email:   %s
Session: %s`, s.User.Name(), s.User.Email, s.Phase)
}

// formatSessionJSON formats the session as JSON
func formatSessionJSON(s auth.Session) string {
	output := map[string]interface{}{
		"authenticated": s.Phase.Authenticated(),
		"phase":         s.Phase,
	}
	if s.User != nil {
		output["user"] = s.User
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
