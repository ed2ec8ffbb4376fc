package cli

import (
	"fmt"

	"github.com/pennywise/pennywise/pkg/page"
	"github.com/pennywise/pennywise/pkg/session"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/spf13/cobra"
)

func registerCmd(app *App) *cobra.Command {
	var email, firstName, lastName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			password, err := app.prompter.ReadLine(ctx, "Password: ")
			if err != nil {
				return err
			}
			confirmation, err := app.prompter.ReadLine(ctx, "Repeat password: ")
			if err != nil {
				return err
			}
			if password != confirmation {
				return fmt.Errorf("%w: passwords do not match", page.ErrInvalidForm)
			}

			registered, err := app.base.Register(ctx, user.RegisterRequest{
				Email:     email,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
			})
			if err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			if err := app.session.Login(ctx, registered.Email, password); err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Registered and logged in as %s", registered.Email)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func loginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if password == "" {
				var err error
				if password, err = app.prompter.ReadLine(ctx, "Password: "); err != nil {
					return err
				}
			}
			if err := app.session.Login(ctx, email, password); err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}
			app.println(SuccessStyle.Render(fmt.Sprintf("Logged in as %s", email)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Logout(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			app.println("Logged out")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if app.session.State() != session.Authenticated {
				app.println(SubtleStyle.Render("Not logged in"))
				return
			}
			app.println(app.session.Email())
		},
	}
}

func profileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := app.authenticated()
			if err != nil {
				return err
			}
			profile := page.NewProfilePage(api)
			if err := profile.Load(cmd.Context()); err != nil {
				return err
			}
			printProfile(app, profile.Profile())
			return nil
		},
	}
	cmd.AddCommand(updateProfileCmd(app))
	return cmd
}

func updateProfileCmd(app *App) *cobra.Command {
	var email, firstName, lastName string
	var changePassword bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your profile or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api, err := app.authenticated()
			if err != nil {
				return err
			}
			profile := page.NewProfilePage(api)
			if err := profile.Load(ctx); err != nil {
				return err
			}

			form := profile.Form()
			if cmd.Flags().Changed("email") {
				form.Email = email
			}
			if cmd.Flags().Changed("first-name") {
				form.FirstName = firstName
			}
			if cmd.Flags().Changed("last-name") {
				form.LastName = lastName
			}
			if changePassword {
				if form.CurrentPassword, err = app.prompter.ReadLine(ctx, "Current password: "); err != nil {
					return err
				}
				if form.NewPassword, err = app.prompter.ReadLine(ctx, "New password: "); err != nil {
					return err
				}
				if form.ConfirmPassword, err = app.prompter.ReadLine(ctx, "Repeat new password: "); err != nil {
					return err
				}
			}

			if err := profile.Submit(ctx, form); err != nil {
				return err
			}
			printProfile(app, profile.Profile())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")
	cmd.Flags().BoolVar(&changePassword, "change-password", false, "prompt for a new password")
	return cmd
}

func printProfile(app *App, u user.UserDTO) {
	app.println(CardStyle.Render(fmt.Sprintf("%s\n%s %s",
		TitleStyle.Render(u.Email), orDash(u.FirstName), orDash(u.LastName))))
}
