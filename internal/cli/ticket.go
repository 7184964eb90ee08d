package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/service"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

const timeLayout = "2006-01-02 15:04"

func newTicketCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Create, list, and update tickets",
		Long: `Ticket commands require a session; run "ticketctl login" first.

Examples:
  ticketctl ticket create --title "Printer jam" --category hardware \
    --description "Paper stuck in tray 2 since morning"
  ticketctl ticket list --status open
  ticketctl ticket comment 1 --text "Checked, replacing fuser"
  ticketctl ticket status 1 resolved`,
	}
	cmd.AddCommand(
		newTicketCreateCmd(rt),
		newTicketListCmd(rt),
		newTicketShowCmd(rt),
		newTicketCommentCmd(rt),
		newTicketStatusCmd(rt),
	)
	return cmd
}

func newTicketCreateCmd(rt *runtime) *cobra.Command {
	var title, category, priority, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new ticket",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			a, session, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			cat, err := domain.ParseTicketCategory(category)
			if err != nil {
				return apperrors.NewFieldError("category", err.Error())
			}
			var prio domain.TicketPriority
			if priority == "" {
				if prio, err = a.Settings.DefaultPriority(cmd.Context(), session.Email); err != nil {
					return err
				}
			} else if prio, err = domain.ParseTicketPriority(priority); err != nil {
				return apperrors.NewFieldError("priority", err.Error())
			}

			ticket, err := a.Tickets.CreateTicket(cmd.Context(), service.TicketCreateInput{
				Title:       title,
				Category:    cat,
				Priority:    prio,
				Description: description,
				Actor:       session.Email,
			})
			if err != nil {
				return err
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, dto.NewTicketDetail(ticket))
			}
			rt.outputLine(cmd, "Created ticket #%d: %s [%s, %s]", ticket.ID, ticket.Title, ticket.Category, ticket.Priority)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title, at least 5 characters (required)")
	cmd.Flags().StringVar(&category, "category", "", "Category: hardware, software, network, access, other (required)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium, high (default from settings)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description, at least 20 characters (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newTicketListCmd(rt *runtime) *cobra.Command {
	var status, priority, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets in creation order",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			a, _, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			filter := service.TicketFilter{Search: search}
			if status != "" {
				if filter.Status, err = domain.ParseTicketStatus(status); err != nil {
					return apperrors.NewFieldError("status", err.Error())
				}
			}
			if priority != "" {
				if filter.Priority, err = domain.ParseTicketPriority(priority); err != nil {
					return apperrors.NewFieldError("priority", err.Error())
				}
			}
			tickets, err := a.Tickets.FilterTickets(cmd.Context(), filter)
			if err != nil {
				return err
			}

			items := make([]dto.TicketSummary, 0, len(tickets))
			for i := range tickets {
				items = append(items, dto.NewTicketSummary(&tickets[i]))
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, items)
			}
			if len(items) == 0 {
				rt.outputLine(cmd, "No tickets found")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %-12s %-8s %-9s %-16s %s\n", "ID", "STATUS", "PRIORITY", "CATEGORY", "CREATED", "TITLE")
			for _, t := range items {
				fmt.Fprintf(out, "%-5d %-12s %-8s %-9s %-16s %s\n",
					t.ID, t.Status, t.Priority, t.Category, t.CreatedAt.Format(timeLayout), truncate(t.Title, 50))
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Filter by priority")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on title, description, or category")
	return cmd
}

func newTicketShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a ticket and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			a, _, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			ticket, err := a.Tickets.GetTicket(cmd.Context(), id)
			if err != nil {
				return withSuggestion(err, SuggestListTickets)
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, dto.NewTicketDetail(ticket))
			}
			printTicket(cmd.OutOrStdout(), ticket)
			return nil
		}),
	}
}

func newTicketCommentCmd(rt *runtime) *cobra.Command {
	var text, author string
	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Append a comment to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			a, session, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(author) == "" {
				author = session.Name
			}
			ticket, err := a.Tickets.AddComment(cmd.Context(), id, author, text)
			if err != nil {
				return err
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, dto.NewTicketDetail(ticket))
			}
			rt.outputLine(cmd, "Added comment %d to ticket #%d", len(ticket.Comments), ticket.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&text, "text", "", "Comment text (required)")
	cmd.Flags().StringVar(&author, "author", "", "Author name (default: logged-in user)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newTicketStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a ticket's status (admins only)",
		Long: `Change a ticket's status. Valid statuses: open, pending, in-progress, resolved.
Only admin sessions may change status.`,
		Args: cobra.ExactArgs(2),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseTicketStatus(args[1])
			if err != nil {
				return apperrors.NewFieldError("status", err.Error())
			}
			a, session, err := rt.requireSession(cmd)
			if err != nil {
				return err
			}
			if session.Role != domain.UserRoleAdmin {
				return apperrors.NewForbidden("only admins can change ticket status")
			}
			ticket, err := a.Tickets.UpdateStatus(cmd.Context(), id, status, session.Email)
			if err != nil {
				return err
			}
			if rt.jsonOut {
				return rt.printJSON(cmd, dto.NewTicketDetail(ticket))
			}
			rt.outputLine(cmd, "Ticket #%d is now %s", ticket.ID, ticket.Status)
			return nil
		}),
	}
}

func parseTicketID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidArgs("invalid ticket id %q: expected a positive number", raw)
	}
	return id, nil
}

func printTicket(out io.Writer, t *domain.Ticket) {
	fmt.Fprintf(out, "#%d %s\n", t.ID, t.Title)
	fmt.Fprintf(out, "Status:   %s\n", t.Status)
	fmt.Fprintf(out, "Priority: %s\n", t.Priority)
	fmt.Fprintf(out, "Category: %s\n", t.Category)
	fmt.Fprintf(out, "Created:  %s\n", t.CreatedAt.Format(timeLayout))
	fmt.Fprintf(out, "\n%s\n", t.Description)
	if len(t.Comments) == 0 {
		return
	}
	fmt.Fprintf(out, "\nComments (%d):\n", len(t.Comments))
	for _, c := range t.Comments {
		fmt.Fprintf(out, "  [%s] %s: %s\n", c.Date.Format(timeLayout), c.Author, c.Text)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
