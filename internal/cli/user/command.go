package user

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "user",
		Short: "Manage the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	command.AddCommand(newLoginCommand(deps, globalFlags))
	command.AddCommand(newLogoutCommand(deps, globalFlags))
	command.AddCommand(newSignupCommand(deps, globalFlags))
	command.AddCommand(newWhoamiCommand(deps, globalFlags))
	command.AddCommand(newSigninURLCommand(deps, globalFlags))
	command.AddCommand(newDocsCommand(deps, globalFlags))
	return command
}

// newDocsCommand lists the session user's documents; `document list` is the
// long form of the same call.
func newDocsCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var limitFlag int
	var offsetFlag int

	command := &cobra.Command{
		Use:   "docs",
		Short: "List your documents",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			client, settings, err := common.ResolveClient(deps, globalFlags)
			if err != nil {
				return err
			}
			account, err := common.ResolveSessionUser(client, settings)
			if err != nil {
				return err
			}

			documents, err := account.Documents(command.Context(), scribd.ListOptions{
				Limit:  limitFlag,
				Offset: offsetFlag,
			})
			if err != nil {
				return err
			}

			views := make([]map[string]any, 0, len(documents))
			for _, document := range documents {
				view := make(map[string]any)
				for name, value := range document.Attributes() {
					if value != nil {
						view[name] = value
					}
				}
				views = append(views, view)
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteOutput(command, format, views, func(w io.Writer, items []map[string]any) error {
				if len(items) == 0 {
					_, err := fmt.Fprintln(w, "no documents")
					return err
				}
				for _, item := range items {
					if _, err := fmt.Fprintf(w, "%v\t%v\n", item["doc_id"], item["title"]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	common.BindListFlags(command, &limitFlag, &offsetFlag)
	return command
}

func newLoginCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var passwordFlag string

	command := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and store the session",
		Example: strings.Join([]string{
			"  rscribd user login alex",
			"  rscribd user login alex --password-stdin < password.txt",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			password, err := resolvePassword(command, passwordFlag)
			if err != nil {
				return err
			}

			client, settings, err := common.ResolveClient(deps, globalFlags)
			if err != nil {
				return err
			}

			account, err := scribd.Login(command.Context(), client, args[0], password)
			if err != nil {
				return err
			}

			if err := storeSession(deps, globalFlags, settings, account); err != nil {
				return err
			}

			_, err = fmt.Fprintf(command.OutOrStdout(), "logged in as %s\n", account.Username())
			return err
		},
	}

	command.Flags().StringVar(&passwordFlag, "password", "", "password (prefer the interactive prompt)")
	command.Flags().Bool("password-stdin", false, "read the password from stdin")
	return command
}

func resolvePassword(command *cobra.Command, passwordFlag string) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}

	fromStdin, err := command.Flags().GetBool("password-stdin")
	if err != nil {
		return "", err
	}
	if fromStdin {
		data, err := io.ReadAll(command.InOrStdin())
		if err != nil {
			return "", common.ValidationError("failed to read password from stdin", err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", common.ValidationError("stdin carried no password", nil)
		}
		return password, nil
	}

	return common.PromptPassword(command, "Password")
}

func storeSession(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	settings configdomain.Settings,
	account *scribd.User,
) error {
	save, err := common.RequireSettingsSaver(deps)
	if err != nil {
		return err
	}
	_, path, err := common.ResolveSettingsWithPath(deps, globalFlags)
	if err != nil {
		return err
	}

	userID, _ := account.ID()
	settings.Session = &configdomain.Session{
		Key:      account.SessionKey(),
		Username: account.Username(),
		UserID:   userID,
	}
	return save(path, settings)
}

func newLogoutCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			save, err := common.RequireSettingsSaver(deps)
			if err != nil {
				return err
			}
			settings, path, err := common.ResolveSettingsWithPath(deps, globalFlags)
			if err != nil {
				return err
			}
			if settings.Session == nil {
				_, err := fmt.Fprintln(command.OutOrStdout(), "no stored session")
				return err
			}

			settings.Session = nil
			if err := save(path, settings); err != nil {
				return err
			}
			_, err = fmt.Fprintln(command.OutOrStdout(), "logged out")
			return err
		},
	}
}

func newSignupCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var emailFlag string

	command := &cobra.Command{
		Use:   "signup <username>",
		Short: "Register a new account and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			email, err := resolveEmail(command, emailFlag)
			if err != nil {
				return err
			}

			password, err := common.PromptPassword(command, "Password")
			if err != nil {
				return err
			}

			client, settings, err := common.ResolveClient(deps, globalFlags)
			if err != nil {
				return err
			}

			account, err := scribd.Signup(command.Context(), client, args[0], password, email)
			if err != nil {
				return err
			}
			if err := storeSession(deps, globalFlags, settings, account); err != nil {
				return err
			}

			_, err = fmt.Fprintf(command.OutOrStdout(), "registered and logged in as %s\n", account.Username())
			return err
		},
	}

	command.Flags().StringVar(&emailFlag, "email", "", "account email address (prompted when omitted)")
	return command
}

func resolveEmail(command *cobra.Command, emailFlag string) (string, error) {
	email := strings.TrimSpace(emailFlag)
	if email != "" {
		return email, nil
	}
	if !common.IsInteractiveTerminal(command) {
		return "", common.ValidationError("--email is required", nil)
	}
	return common.PromptInput(command, "Email", true)
}

func newWhoamiCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			settings, err := common.ResolveSettings(deps, globalFlags)
			if err != nil {
				return err
			}
			if settings.Session == nil || settings.Session.Key == "" {
				return common.AuthError("no stored session; run `rscribd user login` first", nil)
			}

			view := map[string]any{
				"username": settings.Session.Username,
				"user_id":  settings.Session.UserID,
			}
			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteOutput(command, format, view, func(w io.Writer, value map[string]any) error {
				_, err := fmt.Fprintf(w, "%v (id %v)\n", value["username"], value["user_id"])
				return err
			})
		},
	}
}

func newSigninURLCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var nextFlag string

	command := &cobra.Command{
		Use:   "signin-url",
		Short: "Generate a single-use auto-signin link",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			client, settings, err := common.ResolveClient(deps, globalFlags)
			if err != nil {
				return err
			}
			account, err := common.ResolveSessionUser(client, settings)
			if err != nil {
				return err
			}

			link, err := account.AutoSigninURL(command.Context(), nextFlag)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(command.OutOrStdout(), link)
			return err
		},
	}

	command.Flags().StringVar(&nextFlag, "next", "", "path to land on after signin")
	return command
}
