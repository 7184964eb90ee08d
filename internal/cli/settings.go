package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/service"
)

func newSettingsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change your preferences",
	}
	cmd.AddCommand(newSettingsShowCmd(rt), newSettingsSetCmd(rt))
	return cmd
}

func newSettingsShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your preferences",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			a, session, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			settings, err := a.Settings.Get(cmd.Context(), session.Email)
			if err != nil {
				return err
			}
			return rt.printSettings(cmd, settings)
		}),
	}
}

func newSettingsSetCmd(rt *runtime) *cobra.Command {
	var notify []string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more preferences",
		Long: `Change one or more preferences. Only the flags given are changed.

Examples:
  ticketctl settings set --theme dark --default-priority high
  ticketctl settings set --notify email-notifications=false`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			patch := service.SettingsPatch{}
			for flag, dst := range map[string]**string{
				"theme":            &patch.Theme,
				"font-size":        &patch.FontSize,
				"default-priority": &patch.DefaultPriority,
			} {
				if cmd.Flags().Changed(flag) {
					val, _ := cmd.Flags().GetString(flag)
					*dst = &val
				}
			}
			if len(notify) > 0 {
				patch.Notifications = make(map[string]bool, len(notify))
				for _, entry := range notify {
					id, raw, ok := strings.Cut(entry, "=")
					enabled, err := strconv.ParseBool(raw)
					if !ok || err != nil {
						return ErrInvalidArgs("invalid --notify %q: expected id=true|false", entry)
					}
					patch.Notifications[id] = enabled
				}
			}

			a, session, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			settings, err := a.Settings.Update(cmd.Context(), session.Email, patch)
			if err != nil {
				return err
			}
			return rt.printSettings(cmd, settings)
		}),
	}
	cmd.Flags().String("theme", "", "Theme: light, dark")
	cmd.Flags().String("font-size", "", "Font size: small, medium, large")
	cmd.Flags().String("default-priority", "", "Priority used when a new ticket omits one")
	cmd.Flags().StringSliceVar(&notify, "notify", nil, "Notification toggle as id=true|false (repeatable)")
	return cmd
}

func (rt *runtime) printSettings(cmd *cobra.Command, settings domain.Settings) error {
	if rt.jsonOut {
		return rt.printJSON(cmd, settings)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme:            %s\n", settings.Theme)
	fmt.Fprintf(out, "Font size:        %s\n", settings.FontSize)
	fmt.Fprintf(out, "Default priority: %s\n", settings.DefaultPriority)

	ids := make([]string, 0, len(settings.Notifications))
	for id := range settings.Notifications {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "Notify %-24s %t\n", id+":", settings.Notifications[id])
	}
	return nil
}
