package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/domain"
)

func newStatsCmd(rt *runtime) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show ticket counts per status",
		Long: `Show ticket counts per status, optionally for tickets created in one year.

Examples:
  ticketctl stats
  ticketctl stats --year 2024`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			if year < 0 {
				return ErrInvalidArgs("--year must be positive")
			}
			a, _, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			stats, err := a.Tickets.Stats(cmd.Context(), year)
			if err != nil {
				return err
			}
			technicians, err := a.Auth.CountByRole(cmd.Context(), domain.UserRoleAdmin)
			if err != nil {
				return err
			}
			resp := dto.StatsResponse{
				Year:        stats.Year,
				Total:       stats.Total,
				Open:        stats.Open,
				Pending:     stats.Pending,
				InProgress:  stats.InProgress,
				Resolved:    stats.Resolved,
				Technicians: technicians,
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			if year != 0 {
				fmt.Fprintf(out, "Tickets created in %d\n", year)
			}
			fmt.Fprintf(out, "Total:        %d\n", resp.Total)
			fmt.Fprintf(out, "Open:         %d\n", resp.Open)
			fmt.Fprintf(out, "Pending:      %d\n", resp.Pending)
			fmt.Fprintf(out, "In progress:  %d\n", resp.InProgress)
			fmt.Fprintf(out, "Resolved:     %d\n", resp.Resolved)
			fmt.Fprintf(out, "Technicians:  %d\n", resp.Technicians)
			return nil
		}),
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only count tickets created in this year")
	return cmd
}
