package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/config"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change ledger settings",
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsViewCmd())
	cmd.AddCommand(settingsThemeCmd())
	cmd.AddCommand(settingsProfileCmd())
	cmd.AddCommand(settingsSubscribeCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show profile, view mode and saved filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				p := s.UserProfile
				f := s.Filters

				var b strings.Builder
				fmt.Fprintf(&b, "Name:        %s\n", p.Name)
				fmt.Fprintf(&b, "Email:       %s\n", p.Email)
				fmt.Fprintf(&b, "Currency:    %s\n", p.Currency)
				fmt.Fprintf(&b, "Language:    %s\n", p.Language)
				fmt.Fprintf(&b, "Theme:       %s\n", s.Theme)
				fmt.Fprintf(&b, "View:        %s\n", s.ViewMode)
				fmt.Fprintf(&b, "Subscribed:  %t\n", s.IsSubscribed)
				fmt.Fprintf(&b, "Period:      %s", f.DateRange.Preset)
				if f.DateRange.Preset == model.PresetCustom {
					fmt.Fprintf(&b, " (%s to %s)", f.DateRange.From, f.DateRange.To)
				}
				fmt.Fprintln(a.out, cli.RenderBox("Settings", b.String()))
				fmt.Fprintf(a.out, "Storage: %s", a.cfg.Storage.Backend)
				if a.cfg.Storage.Backend == config.BackendSQLite {
					fmt.Fprintf(a.out, " (%s)", a.cfg.Storage.DatabasePath)
				}
				fmt.Fprintln(a.out)
				return nil
			})
		},
	}
}

func settingsViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "view <all|private|business>",
		Short:     "Switch between all, private and business transactions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ViewAll), string(model.ViewPrivate), string(model.ViewBusiness)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := model.ViewMode(strings.ToLower(args[0]))
			if !mode.Valid() {
				return fmt.Errorf("invalid view %q: must be all, private or business", args[0])
			}
			return withEngine(cmd, func(_ context.Context, a *app) error {
				a.engine.Dispatch(ledger.SetViewMode{Mode: mode})
				fmt.Fprintln(a.out, cli.FormatSuccess("View set to "+string(mode)))
				return nil
			})
		},
	}
}

func settingsThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme <name>",
		Short: "Set the display theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			theme := strings.TrimSpace(args[0])
			if theme == "" {
				return fmt.Errorf("theme name must not be empty")
			}
			return withEngine(cmd, func(_ context.Context, a *app) error {
				a.engine.Dispatch(ledger.SetTheme{Theme: model.Theme(theme)})
				fmt.Fprintln(a.out, cli.FormatSuccess("Theme set to "+theme))
				return nil
			})
		},
	}
}

func settingsProfileCmd() *cobra.Command {
	var name, email, currency, language string

	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "Update the user profile",
		Example: `  klaro settings profile --name "Alex" --currency USD`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var patch model.ProfilePatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("currency") {
				c := strings.ToUpper(strings.TrimSpace(currency))
				patch.Currency = &c
			}
			if flags.Changed("language") {
				patch.Language = &language
			}
			if patch == (model.ProfilePatch{}) {
				return fmt.Errorf("nothing to update: pass at least one of --name, --email, --currency, --language")
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				a.engine.Dispatch(ledger.UpdateUserProfile{Patch: patch})
				fmt.Fprintln(a.out, cli.FormatSuccess("Profile updated"))
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "display name")
	flags.StringVar(&email, "email", "", "email address")
	flags.StringVar(&currency, "currency", "", "ISO currency code, e.g. EUR")
	flags.StringVar(&language, "language", "", "language code, e.g. en")
	return cmd
}

func settingsSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "subscription <on|off>",
		Short:     "Toggle the subscription flag",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "yes":
				on = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("invalid value %q: must be on or off", args[0])
			}
			return withEngine(cmd, func(_ context.Context, a *app) error {
				a.engine.Dispatch(ledger.SetSubscribed{Subscribed: on})
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Subscription %s", strings.ToLower(args[0]))))
				return nil
			})
		},
	}
}
