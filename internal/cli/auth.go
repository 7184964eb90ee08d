package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/service"
)

func newRegisterCmd(rt *runtime) *cobra.Command {
	var input service.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Long: `Create a user account in the directory.

Addresses containing admin, suporte, or tecnico are registered as admins.

Examples:
  ticketctl register --name "Ana Souza" --email ana@corp.com --department finance`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, input.Password)
			if err != nil {
				return err
			}
			input.Password = password

			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			user, err := a.Auth.Register(cmd.Context(), input)
			if err != nil {
				return err
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, dto.NewUserResponse(user))
			}
			rt.outputLine(cmd, "Registered %s <%s> as %s", user.Name, user.Email, user.Role)
			return nil
		}),
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&input.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&input.Department, "department", "", "Department")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			session, err := a.Sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return withSuggestion(err, SuggestRegister)
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, session)
			}
			rt.outputLine(cmd, "Logged in as %s (%s) until %s",
				session.Name, session.Role, session.ExpiresAt.Format("2006-01-02 15:04 MST"))
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			a, err := rt.application(cmd)
			if err != nil {
				return err
			}
			if err := a.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			rt.outputLine(cmd, "Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			_, session, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, map[string]any{
					"email":     session.Email,
					"name":      session.Name,
					"role":      session.Role,
					"expiresAt": session.ExpiresAt,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", session.Name, session.Email, session.Role)
			return nil
		}),
	}
}

// readPassword returns flagValue, or prompts for it. Terminals get a hidden
// prompt; piped input is read one line at a time.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", ErrInvalidArgsWithCause(err, "read password")
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err != nil {
		return "", ErrInvalidArgs("password required: pass --password or pipe it on stdin")
	}
	return line, nil
}
