package clips

import (
	"context"
	"fmt"
	"log/slog"
	"twdl/app/apperr"
	"twdl/app/client/gql"
	"twdl/app/client/twitch"
	"twdl/pkg/config"
	"twdl/pkg/util"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// ChannelRequest is a batch download of one broadcaster's clips.
type ChannelRequest struct {
	Credentials *config.Credentials
	Broadcaster BroadcasterRef
	Range       TimeRange
	ChunkSize   int
	Mode        Mode
	OutputDir   string
	// Workers bounds concurrent clip downloads; 0 uses the configured default.
	Workers int
}

// ClipRequest is a single clip download. Credentials are optional.
type ClipRequest struct {
	Clip        string
	Credentials *config.Credentials
	Mode        Mode
	OutputDir   string
}

type Service struct {
	cfg      *config.Config
	tokens   *twitch.TokenManager
	client   *twitch.Client
	gql      *gql.Client
	pager    *Pager
	executor *Executor
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		tokens:   do.MustInvoke[*twitch.TokenManager](di),
		client:   do.MustInvoke[*twitch.Client](di),
		gql:      do.MustInvoke[*gql.Client](di),
		pager:    do.MustInvoke[*Pager](di),
		executor: do.MustInvoke[*Executor](di),
	}, nil
}

// RunChannel enumerates the broadcaster's clips and processes them on a bounded worker pool.
// Per-clip failures are counted in the Summary and never returned. When enumeration aborts the
// error is returned together with the counts of the clips processed so far.
func (s *Service) RunChannel(ctx context.Context, req ChannelRequest) (Summary, error) {
	span := sentry.StartSpan(ctx, "clips.run_channel")
	defer span.Finish()
	span.SetTag("broadcaster", req.Broadcaster.String())

	ctx = util.WithRunID(span.Context(), uuid.NewString())
	ctx = util.WithBroadcaster(ctx, req.Broadcaster.String())

	query := Query{
		Broadcaster: req.Broadcaster,
		Range:       req.Range,
		ChunkSize:   req.ChunkSize,
	}

	if err := query.Validate(); err != nil {
		return Summary{}, err
	}

	if req.Credentials == nil {
		return Summary{}, fmt.Errorf("%w: channel downloads require twitch credentials", apperr.ErrConfig)
	}

	workers := req.Workers
	if workers == 0 {
		workers = s.cfg.Download.Workers
	}
	if workers < 1 {
		return Summary{}, fmt.Errorf("%w: workers must be at least 1, got %d", apperr.ErrConfig, workers)
	}

	token, err := s.tokens.Acquire(ctx, req.Credentials)
	if err != nil {
		return Summary{}, err
	}

	clips, err := s.pager.Clips(ctx, token, query)
	if err != nil {
		return Summary{}, err
	}

	slog.InfoContext(ctx, "Fetching clips",
		slog.String("mode", req.Mode.String()),
		slog.Int("workers", workers),
	)

	results := make(chan Result, workers)
	summaryChan := make(chan Summary, 1)

	go func() {
		var summary Summary
		for res := range results {
			summary.Add(res)
			s.report(ctx, res)
		}
		summaryChan <- summary
	}()

	var g errgroup.Group
	g.SetLimit(workers)

	var pageErr error
	for clip, err := range clips {
		if err != nil {
			pageErr = err
			break
		}

		g.Go(func() error {
			results <- s.executor.Process(util.WithClipID(ctx, clip.ID), &clip, req.Mode, req.OutputDir)
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	summary := <-summaryChan

	slog.InfoContext(ctx, "Channel run finished",
		slog.Int("success", summary.Success),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)

	if pageErr != nil {
		sentry.CaptureException(pageErr)
		return summary, fmt.Errorf("clip enumeration aborted after %d clips: %w", summary.Total(), pageErr)
	}

	return summary, nil
}

// RunClip processes a single clip. With credentials the clip record comes from Helix and the
// source URL is derived from its thumbnail; without them the signed source URL is looked up
// through GQL and no metadata can be written. Errors are fatal; a failed download is reported
// in the Result.
func (s *Service) RunClip(ctx context.Context, req ClipRequest) (Result, error) {
	slug, err := ExtractSlug(req.Clip)
	if err != nil {
		return Result{}, err
	}

	ctx = util.WithRunID(ctx, uuid.NewString())
	ctx = util.WithClipID(ctx, slug)

	var res Result

	if req.Credentials != nil {
		token, err := s.tokens.Acquire(ctx, req.Credentials)
		if err != nil {
			return Result{}, err
		}

		clip, err := s.client.GetClip(ctx, token, slug)
		if err != nil {
			return Result{}, fmt.Errorf("failed to get clip %s: %w", slug, err)
		}

		res = s.executor.Process(ctx, clip, req.Mode, req.OutputDir)
	} else {
		if req.Mode == ModeDownloadWithMetadata {
			return Result{}, fmt.Errorf("%w: metadata requires twitch credentials to be provided", apperr.ErrConfig)
		}

		sourceURL, err := s.gql.SourceURL(ctx, slug)
		if err != nil {
			return Result{}, fmt.Errorf("failed to get source url for clip %s: %w", slug, err)
		}

		res = s.executor.ProcessSource(ctx, slug, sourceURL, req.Mode, req.OutputDir)
	}

	s.report(ctx, res)

	return res, nil
}

func (s *Service) report(ctx context.Context, res Result) {
	ctx = util.WithClipID(ctx, res.ClipID)

	if res.Status() != OutcomeFailed {
		slog.InfoContext(ctx, "Clip processed",
			slog.String("media", res.Media.String()),
			slog.String("metadata", res.Metadata.String()),
		)
		return
	}

	err := res.Err()
	slog.ErrorContext(ctx, "Clip failed",
		slog.String("media", res.Media.String()),
		slog.String("metadata", res.Metadata.String()),
		slog.Any("error", err),
	)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("clip_id", res.ClipID)
		hub.CaptureException(err)
	})
}
