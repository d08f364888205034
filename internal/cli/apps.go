package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// NewAppsCmd groups the job-application tracker commands.
func NewAppsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Track job applications",
	}
	cmd.AddCommand(newAppsListCmd(configPath))
	cmd.AddCommand(newAppsAddCmd(configPath))
	cmd.AddCommand(newAppsUpdateCmd(configPath))
	cmd.AddCommand(newAppsDeleteCmd(configPath))
	cmd.AddCommand(newAppsStatsCmd(configPath))
	return cmd
}

// withApplications loads the runtime and a refreshed application manager.
func withApplications(ctx context.Context, configPath string, fn func(*app.ApplicationManager) error) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	manager := app.NewApplicationManager(rt.client)
	return fn(manager)
}

func newAppsListCmd(configPath *string) *cobra.Command {
	var search, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplications(cmd.Context(), *configPath, func(m *app.ApplicationManager) error {
				if err := m.Refresh(cmd.Context()); err != nil {
					return err
				}
				m.SetSearch(search)
				if err := m.SetStatusFilter(status); err != nil {
					return err
				}
				printApplications(cmd.OutOrStdout(), m.View())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match company or location (case-insensitive)")
	cmd.Flags().StringVar(&status, "status", domain.StatusAll, "filter by status, or 'all'")
	return cmd
}

func bindFields(cmd *cobra.Command, f *domain.ApplicationFields) {
	cmd.Flags().StringVar(&f.Company, "company", "", "company name")
	cmd.Flags().StringVar(&f.AppliedDate, "date", f.AppliedDate, "applied date (YYYY-MM-DD)")
	cmd.Flags().StringVar((*string)(&f.Status), "status", string(f.Status), "applied, interview, offer, rejected or withdrawn")
	cmd.Flags().StringVar(&f.Location, "location", "", "location")
}

func newAppsAddCmd(configPath *string) *cobra.Command {
	fields := domain.NewApplicationFields(time.Now())
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplications(cmd.Context(), *configPath, func(m *app.ApplicationManager) error {
				if err := m.Create(cmd.Context(), fields); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added application to %s\n", fields.Company)
				return nil
			})
		},
	}
	bindFields(cmd, &fields)
	return cmd
}

func newAppsUpdateCmd(configPath *string) *cobra.Command {
	var fields domain.ApplicationFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an application; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withApplications(cmd.Context(), *configPath, func(m *app.ApplicationManager) error {
				if err := m.Refresh(cmd.Context()); err != nil {
					return err
				}
				existing, ok := m.Find(id)
				if !ok {
					return fmt.Errorf("application %s: %w", id, domain.ErrMissingID)
				}
				merged := existing.Fields()
				flags := cmd.Flags()
				if flags.Changed("company") {
					merged.Company = fields.Company
				}
				if flags.Changed("date") {
					merged.AppliedDate = fields.AppliedDate
				}
				if flags.Changed("status") {
					merged.Status = fields.Status
				}
				if flags.Changed("location") {
					merged.Location = fields.Location
				}
				if err := m.Update(cmd.Context(), existing.ID, merged); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated application %s\n", existing.ID)
				return nil
			})
		},
	}
	bindFields(cmd, &fields)
	return cmd
}

func newAppsDeleteCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm app.Confirmer = promptConfirmer{in: newLineReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			if yes {
				confirm = app.ConfirmFunc(func(context.Context, string) bool { return true })
			}
			return withApplications(cmd.Context(), *configPath, func(m *app.ApplicationManager) error {
				if err := m.Remove(cmd.Context(), args[0], confirm); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted application %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newAppsStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show application analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplications(cmd.Context(), *configPath, func(m *app.ApplicationManager) error {
				if err := m.Refresh(cmd.Context()); err != nil {
					return err
				}
				printAnalytics(cmd.OutOrStdout(), m.View().Analytics)
				return nil
			})
		},
	}
}

func printApplications(out io.Writer, view app.ApplicationsView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(out, "No applications found.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tAPPLIED\tSTATUS\tLOCATION")
	for _, a := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Company, a.AppliedDate, a.Status, a.Location)
	}
	_ = tw.Flush()
}

func printAnalytics(out io.Writer, a domain.Analytics) {
	fmt.Fprintf(out, "Total: %d\n", a.Total)
	for _, status := range domain.ApplicationStatuses {
		fmt.Fprintf(out, "  %-10s %d\n", status, a.ByStatus[status])
	}
	fmt.Fprintf(out, "Response rate: %d%%\nOffer rate: %d%%\n", a.ResponseRate, a.OfferRate)
}
