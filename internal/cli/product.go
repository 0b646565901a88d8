package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"storefront_service/internal/console"
	"storefront_service/internal/domain"

	"github.com/spf13/cobra"
)

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Edit products",
	}
	cmd.AddCommand(newProductSaveCmd(a), newProductDeleteCmd(a))
	return cmd
}

// selectProduct loads the category that lists product id. Without a category
// ref the product's own category is looked up first.
func (a *app) selectProduct(ctx context.Context, con *console.AdminConsole, id int, categoryRef string) error {
	if categoryRef == "" {
		all, err := a.api.ListProducts(ctx, 0)
		if err != nil {
			return err
		}
		for _, p := range all {
			if p.ID == id {
				categoryRef = strconv.Itoa(p.CategoryID)
				break
			}
		}
		if categoryRef == "" {
			return fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
		}
	}
	return selectCategory(ctx, con, categoryRef)
}

func newProductSaveCmd(a *app) *cobra.Command {
	var (
		id       int
		category string
		image    string
	)
	fields := map[string]*string{
		"name":        new(string),
		"description": new(string),
		"price":       new(string),
		"stock":       new(string),
		"merchandise": new(string),
		"image_url":   new(string),
	}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Add a product to --category, or update one with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			con := a.console(cmd.OutOrStdout())
			if id != 0 {
				if err := a.selectProduct(ctx, con, id, category); err != nil {
					return err
				}
				if err := con.EditProduct(id); err != nil {
					return err
				}
			} else {
				if category == "" {
					return fmt.Errorf("--category is required for a new product: %w", domain.ErrValidation)
				}
				if err := selectCategory(ctx, con, category); err != nil {
					return err
				}
				if err := con.NewProduct(); err != nil {
					return err
				}
			}

			for _, name := range []string{"name", "description", "price", "stock", "merchandise", "image_url"} {
				if !cmd.Flags().Changed(flagName(name)) {
					continue
				}
				if err := con.SetProductField(name, *fields[name]); err != nil {
					return err
				}
			}

			if image != "" {
				file, closeFile, err := openImage(image)
				if err != nil {
					return err
				}
				defer closeFile()
				if _, err := con.UploadProductImage(ctx, file); err != nil {
					return err
				}
			}

			_, err := con.SaveProduct(ctx)
			return err
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "id of the product to update")
	cmd.Flags().StringVar(&category, "category", "", "category id or slug")
	cmd.Flags().StringVar(fields["name"], "name", "", "product name")
	cmd.Flags().StringVar(fields["description"], "description", "", "description")
	cmd.Flags().StringVar(fields["price"], "price", "", "price, e.g. 49,90")
	cmd.Flags().StringVar(fields["stock"], "stock", "", "units in stock")
	cmd.Flags().StringVar(fields["merchandise"], "merchandise", "", "merchandise tag")
	cmd.Flags().StringVar(fields["image_url"], "image-url", "", "image URL")
	cmd.Flags().StringVar(&image, "image", "", "image file to upload and use")
	return cmd
}

func newProductDeleteCmd(a *app) *cobra.Command {
	var (
		id       int
		category string
		yes      bool
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a product after confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			con := a.console(cmd.OutOrStdout())
			if err := a.selectProduct(ctx, con, id, category); err != nil {
				return err
			}
			if err := con.RequestDeleteProduct(id); err != nil {
				return err
			}

			if !yes {
				name := strconv.Itoa(id)
				products, _ := con.Products()
				for _, p := range products {
					if p.ID == id {
						name = p.Name
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Excluir o produto %q? Esta ação não pode ser desfeita. [s/N]: ", name)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "s", "sim", "y", "yes":
				default:
					con.CancelDelete()
					fmt.Fprintln(cmd.OutOrStdout(), "Exclusão cancelada")
					return nil
				}
			}

			_, err := con.ConfirmDelete(ctx)
			return err
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "id of the product to delete")
	cmd.Flags().StringVar(&category, "category", "", "category id or slug (looked up when omitted)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
