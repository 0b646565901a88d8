package cli

import (
	"context"
	"fmt"
	"os"

	"storefront_service/internal/console"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the fixture format read by "catalogctl seed".
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name        string        `yaml:"name"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	ImageURL    string        `yaml:"image_url"`
	Icon        string        `yaml:"icon"`
	Products    []SeedProduct `yaml:"products"`
}

type SeedProduct struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Merchandise string `yaml:"merchandise"`
	ImageURL    string `yaml:"image_url"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

func newSeedCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update categories and products from a YAML file",
		Long: `Seed reads a YAML fixture. Categories are matched by slug and products by
name within their category; matches are updated, everything else is created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := LoadSeedFile(path)
			if err != nil {
				return err
			}
			con := a.console(cmd.OutOrStdout())
			categories, products, err := applySeed(cmd.Context(), con, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seed complete: %d categories, %d products\n", categories, products)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "seed.yaml", "seed file")
	return cmd
}

func applySeed(ctx context.Context, con *console.AdminConsole, seed *SeedFile) (int, int, error) {
	if err := con.RefreshCategories(ctx); err != nil {
		return 0, 0, err
	}

	var savedCategories, savedProducts int
	for _, sc := range seed.Categories {
		existing, _ := con.Categories()
		id := 0
		for _, c := range existing {
			if c.Slug == sc.Slug {
				id = c.ID
				break
			}
		}
		if id != 0 {
			if err := con.SelectCategory(ctx, id); err != nil {
				return savedCategories, savedProducts, err
			}
		} else {
			con.NewCategory()
			if err := con.SetCategoryField("slug", sc.Slug); err != nil {
				return savedCategories, savedProducts, err
			}
		}

		if err := setFields(con.SetCategoryField, map[string]string{
			"name":        sc.Name,
			"description": sc.Description,
			"image_url":   sc.ImageURL,
			"icon":        sc.Icon,
		}); err != nil {
			return savedCategories, savedProducts, err
		}
		if _, err := con.SaveCategory(ctx); err != nil {
			return savedCategories, savedProducts, fmt.Errorf("category %s: %w", sc.Slug, err)
		}
		savedCategories++

		saved := con.SelectedCategory()
		if saved == nil || len(sc.Products) == 0 {
			continue
		}
		if err := con.SelectCategory(ctx, saved.ID); err != nil {
			return savedCategories, savedProducts, err
		}
		for _, sp := range sc.Products {
			if err := seedProduct(ctx, con, sp); err != nil {
				return savedCategories, savedProducts, fmt.Errorf("product %s: %w", sp.Name, err)
			}
			savedProducts++
		}
	}
	return savedCategories, savedProducts, nil
}

func seedProduct(ctx context.Context, con *console.AdminConsole, sp SeedProduct) error {
	listed, _ := con.Products()
	id := 0
	for _, p := range listed {
		if p.Name == sp.Name {
			id = p.ID
			break
		}
	}
	if id != 0 {
		if err := con.EditProduct(id); err != nil {
			return err
		}
	} else if err := con.NewProduct(); err != nil {
		return err
	}

	if err := setFields(con.SetProductField, map[string]string{
		"name":        sp.Name,
		"description": sp.Description,
		"price":       sp.Price,
		"stock":       fmt.Sprint(sp.Stock),
		"merchandise": sp.Merchandise,
		"image_url":   sp.ImageURL,
	}); err != nil {
		return err
	}
	_, err := con.SaveProduct(ctx)
	return err
}

// setFields applies the non-empty values only.
func setFields(set func(field, value string) error, values map[string]string) error {
	for field, value := range values {
		if value == "" {
			continue
		}
		if err := set(field, value); err != nil {
			return err
		}
	}
	return nil
}
