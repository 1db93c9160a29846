package cmd

import (
	"fmt"
	"twdl/app/apperr"
	"twdl/app/service/clips"
	"twdl/pkg/config"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func newClipCmd(root *rootOptions) *cobra.Command {
	var (
		outputDir       string
		credentialsPath string
		linkOnly        bool
		metadata        bool
	)

	cmd := &cobra.Command{
		Use:   "clip <CLIP>",
		Short: "Download a single clip",
		Long: `Download a single clip given its slug or URL.

Without credentials (-c, or TWDL_CLIENT_ID and TWDL_CLIENT_SECRET in the environment)
the source URL is looked up anonymously and metadata (-m) is not available.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := clips.ModeFromFlags(linkOnly, metadata)

			creds, err := config.ResolveCredentials(credentialsPath)
			if err != nil {
				return err
			}

			di, err := root.setup(cmd, mode == clips.ModeLinkOnly)
			if err != nil {
				return err
			}
			defer func() { _ = di.Shutdown() }()

			res, err := do.MustInvoke[*clips.Service](di).RunClip(cmd.Context(), clips.ClipRequest{
				Clip:        args[0],
				Credentials: creds,
				Mode:        mode,
				OutputDir:   outputDir,
			})
			if err != nil {
				return err
			}

			if res.Status() == clips.OutcomeFailed {
				return fmt.Errorf("%w: %s: %w", apperr.ErrBatchFailed, res.ClipID, res.Err())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	cmd.Flags().BoolVarP(&linkOnly, "link", "L", false, "Print the source URL instead of downloading")
	cmd.Flags().BoolVarP(&metadata, "metadata", "m", false, "Also write <id>.json with the clip metadata")
	cmd.Flags().StringVarP(&credentialsPath, "credentials", "c", "", "Path to the JSON credentials file")

	return cmd
}
