package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
)

func (c *Cli) attachmentCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "attachment ATTACHMENT_ID",
		Short: "Download an application attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				return c.runDownload(ctx, id, outDir)
			})
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to save the file into")
	return cmd
}

func (c *Cli) runDownload(ctx context.Context, id int, outDir string) error {
	file, err := c.apiClient.DownloadAttachment(ctx, id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	path := filepath.Join(outDir, file.FileName)
	if err := os.WriteFile(path, file.Data, 0600); err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}

	c.io.Printf("✓ Saved %s (%d bytes)\n", path, len(file.Data))
	return nil
}
