package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"truckwash/collections"
	"truckwash/services"
)

// newPriceListCmd returns the "pricelist" command group. Each sub-command
// works directly on the data dir, so they are meant for a stopped server.
func newPriceListCmd(app *pocketbase.PocketBase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricelist",
		Short: "Inspect and maintain the stored price list",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every price in force",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLAVE\tCONCEPTO\tPRECIO")
			for _, leaf := range services.LoadPriceList(app).Leaves() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", leaf.Path, leaf.Label, services.FormatMXN(leaf.Value))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the stored price list for invalid entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.LoadPriceList(app).Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "price list OK")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Discard the stored price list and return to the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.ResetPriceList(app); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "price list reset to defaults")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the price list to an editable workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := services.GeneratePriceSheet(services.LoadPriceList(app))
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], data, 0o644)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Apply prices from a .csv or .xlsx sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pl, res, err := services.ImportPriceSheet(services.LoadPriceList(app), data, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if !res.OK() {
				for _, e := range res.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "fila %d, %s: %s\n", e.Row, e.Field, e.Message)
				}
				return fmt.Errorf("%d of %d rows rejected, nothing saved", len(res.Errors), res.TotalRows)
			}
			if err := services.SavePriceList(app, pl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d prices updated\n", res.Applied)
			return nil
		},
	})

	return cmd
}
