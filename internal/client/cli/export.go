package cli

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophchat/internal/filex"
	"github.com/dmitrijs2005/gophchat/internal/netx"
	"github.com/spf13/cobra"
)

// download is a seam for tests.
var download = netx.DownloadFromPresignedURL

func newExportCmd(a *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <thread-id>",
		Short: "Export a thread transcript and print its download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid thread id %q", args[0])
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			url, err := a.client.ExportThread(ctx, id)
			if err != nil {
				return explain(err)
			}
			if out == "" {
				fmt.Fprintln(a.out, url)
				return nil
			}

			body, err := download(ctx, url)
			if err != nil {
				return err
			}
			if err := filex.WritePrivate(out, body); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved transcript to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "download the transcript to this file")
	return cmd
}
