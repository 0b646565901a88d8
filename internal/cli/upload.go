package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	var path, folder string
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload an image and print its public URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, closeFile, err := openImage(path)
			if err != nil {
				return err
			}
			defer closeFile()

			con := a.console(cmd.OutOrStdout())
			url, _, err := con.UploadImage(cmd.Context(), file, folder)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "image file")
	cmd.Flags().StringVar(&folder, "folder", "products", "bucket folder")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
