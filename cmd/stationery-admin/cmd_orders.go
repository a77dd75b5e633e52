package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/service"
)

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Today's numbers with the active orders and printouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			d, err := a.dashboard.Load(cmd.Context())
			if err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

// listFlags are shared by the order and printout list commands.
type listFlags struct {
	past  bool
	query string
	sort  string
	dir   string
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.past, "past", false, "Show completed records instead of active ones")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Filter by student, email, item or id")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort by order_time, cost, user_name or quantity")
	cmd.Flags().StringVar(&f.dir, "dir", "", "Sort direction: asc or desc (default desc)")
}

func (f *listFlags) scope() domain.Scope {
	if f.past {
		return domain.ScopePast
	}
	return domain.ScopeActive
}

func orderIDArg(args []string) (domain.OrderID, error) {
	return domain.ParseOrderID(args[0])
}

func (c *cli) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "List, inspect and complete item orders",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, desc, err := service.ParseSort(lf.sort, lf.dir)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			orders, err := a.board.LoadOrders(cmd.Context(), lf.scope())
			if err != nil {
				return err
			}
			orders = service.SortOrders(service.FilterOrders(orders, lf.query), field, desc)
			renderOrders(cmd.OutOrStdout(), orders, nil)
			return nil
		},
	}
	lf.bind(list)

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order with the student's contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orderIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			d, err := a.board.OrderDetails(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderOrderDetail(cmd.OutOrStdout(), d)
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete <order-id>",
		Short: "Mark an order as handed over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orderIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.board.Complete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	var minePast bool
	mine := &cobra.Command{
		Use:   "mine",
		Short: "List orders placed by the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			fetch := a.gateway.GetMyActiveOrders
			if minePast {
				fetch = a.gateway.GetMyPastOrders
			}
			orders, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			renderOrders(cmd.OutOrStdout(), orders, nil)
			return nil
		},
	}
	mine.Flags().BoolVar(&minePast, "past", false, "Show completed orders")

	cmd.AddCommand(list, show, complete, mine)
	return cmd
}

func (c *cli) printoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "printouts",
		Aliases: []string{"printout", "prints"},
		Short:   "List, inspect, open and complete print jobs",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List print jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, desc, err := service.ParseSort(lf.sort, lf.dir)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			printouts, err := a.board.LoadPrintouts(cmd.Context(), lf.scope())
			if err != nil {
				return err
			}
			printouts = service.SortPrintouts(service.FilterPrintouts(printouts, lf.query), field, desc)
			renderPrintouts(cmd.OutOrStdout(), printouts, nil)
			return nil
		},
	}
	lf.bind(list)

	show := &cobra.Command{
		Use:   "show <printout-id>",
		Short: "Show one print job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orderIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			d, err := a.board.PrintoutDetails(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderPrintoutDetail(cmd.OutOrStdout(), d)
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete <printout-id>",
		Short: "Mark a print job as handed over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orderIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.board.CompletePrintout(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	var openFile int64
	open := &cobra.Command{
		Use:   "open <printout-id>",
		Short: "Download the job's file and open it in the default viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orderIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			blob, err := fetchFile(cmd.Context(), a, id, openFile)
			if err != nil {
				return err
			}
			path, err := a.viewer.Open(cmd.Context(), blob)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s (removed in %s, Ctrl-C to remove now)\n",
				path, a.viewer.ReleaseDelay())
			return nil
		},
	}
	open.Flags().Int64Var(&openFile, "file", 0, "Open this attached file id instead of the job's primary file")

	var (
		output       string
		downloadFile int64
	)
	download := &cobra.Command{
		Use:   "download <printout-id>",
		Short: "Save the job's file to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orderIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			blob, err := fetchFile(cmd.Context(), a, id, downloadFile)
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = blob.Filename
			}
			if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
				return fmt.Errorf("save %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, len(blob.Data))
			return nil
		},
	}
	download.Flags().StringVarP(&output, "output", "o", "", "Destination path (default: the server's file name)")
	download.Flags().Int64Var(&downloadFile, "file", 0, "Download this attached file id instead of the job's primary file")

	var minePast bool
	mine := &cobra.Command{
		Use:   "mine",
		Short: "List print jobs submitted by the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			fetch := a.gateway.GetMyActivePrintouts
			if minePast {
				fetch = a.gateway.GetMyPastPrintouts
			}
			printouts, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			renderPrintouts(cmd.OutOrStdout(), printouts, nil)
			return nil
		},
	}
	mine.Flags().BoolVar(&minePast, "past", false, "Show completed print jobs")

	cmd.AddCommand(list, show, complete, open, download, mine)
	return cmd
}

// fetchFile downloads the job's primary file, or one attached file when
// fileID is set.
func fetchFile(ctx context.Context, a *app, id domain.OrderID, fileID int64) (*domain.Blob, error) {
	if fileID > 0 {
		return a.board.DownloadFile(ctx, fileID)
	}
	return a.board.Download(ctx, id)
}
