package cli

import (
	"fmt"
	"text/tabwriter"

	"storefront_service/internal/domain"
	"storefront_service/internal/notify"

	"github.com/spf13/cobra"
)

func newPurchasesCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "List the signed-in user's purchases, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			purchases, err := a.api.ListPurchases(cmd.Context(), status)
			if err != nil {
				n := notify.Failure(notify.OpLoadPurchases, err)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", n.Title, n.Description)
				return err
			}
			if len(purchases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma compra encontrada")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tDATE\tSTATUS\tTOTAL\tDOWNLOAD")
			for _, p := range purchases {
				download := "-"
				if p.DownloadAvailable {
					download = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.Code, p.CreatedAt.Format("02/01/2006"), p.Status, domain.FormatPrice(p.Total), download)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all, processing, completed or cancelled")
	return cmd
}
