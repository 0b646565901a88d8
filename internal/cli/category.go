package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Edit categories",
	}
	cmd.AddCommand(newCategorySaveCmd(a))
	return cmd
}

func newCategorySaveCmd(a *app) *cobra.Command {
	var (
		id    int
		image string
	)
	fields := map[string]*string{
		"name":        new(string),
		"slug":        new(string),
		"description": new(string),
		"image_url":   new(string),
		"icon":        new(string),
	}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a category, or update one with --id",
		Long: `Without --id a new category is created from the given fields. With --id
the listed category is copied, the given fields are changed and the full
editable set is saved. The slug of an existing category cannot change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			con := a.console(cmd.OutOrStdout())
			if id != 0 {
				if err := selectCategory(ctx, con, strconv.Itoa(id)); err != nil {
					return err
				}
			} else {
				con.NewCategory()
			}

			for _, name := range []string{"name", "slug", "description", "image_url", "icon"} {
				if !cmd.Flags().Changed(flagName(name)) {
					continue
				}
				if err := con.SetCategoryField(name, *fields[name]); err != nil {
					return err
				}
			}

			if image != "" {
				file, closeFile, err := openImage(image)
				if err != nil {
					return err
				}
				defer closeFile()
				if _, err := con.UploadCategoryImage(ctx, file); err != nil {
					return err
				}
			}

			if _, err := con.SaveCategory(ctx); err != nil {
				return err
			}
			if saved := con.SelectedCategory(); saved != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Category %d (%s) saved\n", saved.ID, saved.Slug)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "id of the category to update")
	cmd.Flags().StringVar(fields["name"], "name", "", "category name")
	cmd.Flags().StringVar(fields["slug"], "slug", "", "url slug (new categories only)")
	cmd.Flags().StringVar(fields["description"], "description", "", "description")
	cmd.Flags().StringVar(fields["image_url"], "image-url", "", "image URL")
	cmd.Flags().StringVar(fields["icon"], "icon", "", "icon key")
	cmd.Flags().StringVar(&image, "image", "", "image file to upload and use")
	return cmd
}
