package cmd

import (
	"fmt"
	"twdl/app/apperr"
	"twdl/app/service/clips"
	"twdl/pkg/config"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func newChannelCmd(root *rootOptions) *cobra.Command {
	var (
		credentialsPath string
		broadcasterID   string
		login           string
		start           string
		end             string
		chunkSize       int
		outputDir       string
		linkOnly        bool
		metadata        bool
		workers         int
	)

	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Download every clip of a channel",
		Long: `Download every clip of a channel, optionally limited to clips created within a time window.

A start without an end covers the seven days after the start. Dates are parsed leniently,
e.g. 2024-03-01, 2024-03-01T10:00:00Z or "March 1, 2024".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			broadcaster, err := clips.NewBroadcasterRef(broadcasterID, login)
			if err != nil {
				return err
			}

			timeRange, err := clips.ParseTimeRange(start, end)
			if err != nil {
				return err
			}

			if chunkSize < 1 || chunkSize > clips.MaxChunkSize {
				return fmt.Errorf("%w: chunk size must be between 1 and %d, got %d", apperr.ErrConfig, clips.MaxChunkSize, chunkSize)
			}

			if workers < 0 {
				return fmt.Errorf("%w: workers must be at least 1, got %d", apperr.ErrConfig, workers)
			}

			creds, err := config.LoadCredentials(credentialsPath)
			if err != nil {
				return err
			}

			mode := clips.ModeFromFlags(linkOnly, metadata)

			di, err := root.setup(cmd, mode == clips.ModeLinkOnly)
			if err != nil {
				return err
			}
			defer func() { _ = di.Shutdown() }()

			summary, err := do.MustInvoke[*clips.Service](di).RunChannel(cmd.Context(), clips.ChannelRequest{
				Credentials: creds,
				Broadcaster: broadcaster,
				Range:       timeRange,
				ChunkSize:   chunkSize,
				Mode:        mode,
				OutputDir:   outputDir,
				Workers:     workers,
			})
			if err != nil {
				return err
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", apperr.ErrBatchFailed, summary.Failed, summary.Total())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&credentialsPath, "credentials", "c", "", "Path to the JSON credentials file")
	cmd.Flags().StringVarP(&broadcasterID, "id", "i", "", "Broadcaster ID")
	cmd.Flags().StringVarP(&login, "login", "l", "", "Broadcaster login name")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Only clips created at or after this time")
	cmd.Flags().StringVarP(&end, "end", "e", "", "Only clips created before this time (requires --start)")
	cmd.Flags().IntVarP(&chunkSize, "chunk", "C", clips.DefaultChunkSize, "Clips requested per page (1-100)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	cmd.Flags().BoolVarP(&linkOnly, "link", "L", false, "Print source URLs instead of downloading")
	cmd.Flags().BoolVarP(&metadata, "metadata", "m", false, "Also write <id>.json for every clip")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent downloads (default from config)")

	_ = cmd.MarkFlagRequired("credentials")
	cmd.MarkFlagsMutuallyExclusive("id", "login")
	cmd.MarkFlagsOneRequired("id", "login")

	return cmd
}
