package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"storefront_service/internal/clients"
	"storefront_service/internal/console"
	"storefront_service/internal/domain"

	"github.com/spf13/cobra"
)

// CatalogReader is the read-only catalog served over gRPC.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error)
	Close() error
}

func defaultReader(a *app) (CatalogReader, error) {
	client, err := clients.NewCatalogGRPCClient(a.grpcAddr, a.log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *app) reader() (CatalogReader, error) {
	if a.newReader == nil {
		return defaultReader(a)
	}
	return a.newReader(a)
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories ordered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				categories []domain.Category
				err        error
			)
			if a.grpcAddr != "" {
				categories, err = grpcCategories(cmd.Context(), a)
			} else {
				categories, err = consoleCategories(cmd.Context(), a.console(cmd.OutOrStdout()))
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSLUG\tICON")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Slug, c.Icon)
			}
			return w.Flush()
		},
	}
}

func newProductsCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products of a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				products []domain.Product
				err      error
			)
			if a.grpcAddr != "" {
				products, err = grpcProducts(cmd.Context(), a, category)
			} else {
				con := a.console(cmd.OutOrStdout())
				if err = selectCategory(cmd.Context(), con, category); err == nil {
					products, _ = con.Products()
				}
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
			for _, p := range products {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, domain.FormatPrice(p.Price), p.Stock)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category id or slug")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// selectCategory loads the category list and selects ref, an id or a slug.
func selectCategory(ctx context.Context, con *console.AdminConsole, ref string) error {
	if err := con.RefreshCategories(ctx); err != nil {
		return err
	}
	categories, _ := con.Categories()
	id, err := strconv.Atoi(ref)
	if err != nil {
		id = 0
		for _, c := range categories {
			if c.Slug == ref {
				id = c.ID
				break
			}
		}
		if id == 0 {
			return fmt.Errorf("category '%s' not found: %w", ref, domain.ErrNotFound)
		}
	}
	return con.SelectCategory(ctx, id)
}

func consoleCategories(ctx context.Context, con *console.AdminConsole) ([]domain.Category, error) {
	if err := con.RefreshCategories(ctx); err != nil {
		return nil, err
	}
	categories, _ := con.Categories()
	return categories, nil
}

func grpcCategories(ctx context.Context, a *app) ([]domain.Category, error) {
	r, err := a.reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ListCategories(ctx)
}

// grpcProducts resolves ref, an id or a slug, and lists that category's products.
func grpcProducts(ctx context.Context, a *app, ref string) ([]domain.Product, error) {
	r, err := a.reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	id, err := strconv.Atoi(ref)
	if err != nil {
		category, err := r.GetCategoryBySlug(ctx, ref)
		if err != nil {
			return nil, err
		}
		id = category.ID
	}
	if id <= 0 {
		return nil, fmt.Errorf("invalid category id %d: %w", id, domain.ErrValidation)
	}
	return r.ListProducts(ctx, id)
}
