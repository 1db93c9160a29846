package clips

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"twdl/app/apperr"
	"twdl/app/client/twitch"

	"github.com/samber/do"
)

const (
	DefaultChunkSize = 20
	MaxChunkSize     = 100
)

// Query selects the clips of one broadcaster.
type Query struct {
	Broadcaster BroadcasterRef
	Range       TimeRange
	// ChunkSize is the page size; 0 selects DefaultChunkSize.
	ChunkSize int
}

func (q Query) Validate() error {
	if err := q.Broadcaster.Validate(); err != nil {
		return err
	}

	if err := q.Range.Validate(); err != nil {
		return err
	}

	if q.ChunkSize != 0 && (q.ChunkSize < 1 || q.ChunkSize > MaxChunkSize) {
		return fmt.Errorf("%w: chunk size must be between 1 and %d, got %d", apperr.ErrConfig, MaxChunkSize, q.ChunkSize)
	}

	return nil
}

func (q Query) chunkSize() int {
	if q.ChunkSize == 0 {
		return DefaultChunkSize
	}

	return q.ChunkSize
}

type Pager struct {
	client *twitch.Client
}

func NewPager(di *do.Injector) (*Pager, error) {
	return &Pager{
		client: do.MustInvoke[*twitch.Client](di),
	}, nil
}

// Clips validates q and returns a single-pass sequence over the matching clips, in API order.
// Pages are requested one at a time as the consumer advances. A request failure is yielded
// once as the last element. Ranging over the sequence again performs fresh requests.
func (p *Pager) Clips(ctx context.Context, token *twitch.AccessToken, q Query) (iter.Seq2[twitch.Clip, error], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	return func(yield func(twitch.Clip, error) bool) {
		broadcasterID, login, err := p.resolveBroadcaster(ctx, token, q.Broadcaster)
		if err != nil {
			yield(twitch.Clip{}, err)
			return
		}

		startedAt, endedAt := q.Range.Bounds()
		params := &twitch.GetClipsParams{
			BroadcasterID: broadcasterID,
			First:         q.chunkSize(),
			StartedAt:     startedAt,
			EndedAt:       endedAt,
		}

		for page := 1; ; page++ {
			slog.DebugContext(ctx, "Getting clips...",
				slog.String("broadcaster_id", broadcasterID),
				slog.Int("page", page),
				slog.String("after", params.After),
			)

			res, err := p.client.GetClips(ctx, token, params)
			if err != nil {
				yield(twitch.Clip{}, fmt.Errorf("failed to get clips page %d: %w", page, err))
				return
			}

			if len(res.Data) == 0 {
				return
			}

			for _, clip := range res.Data {
				if clip.BroadcasterLogin == "" {
					clip.BroadcasterLogin = login
				}
				if !yield(clip, nil) {
					return
				}
			}

			cursor := res.NextCursor()
			if cursor == "" {
				return
			}
			if cursor == params.After {
				yield(twitch.Clip{}, fmt.Errorf("%w: pagination cursor did not advance after page %d", apperr.ErrAPI, page))
				return
			}

			params.After = cursor
		}
	}, nil
}

func (p *Pager) resolveBroadcaster(ctx context.Context, token *twitch.AccessToken, ref BroadcasterRef) (string, string, error) {
	if id, ok := ref.ID(); ok {
		return id, "", nil
	}

	login, _ := ref.Login()

	user, err := p.client.GetUserByLogin(ctx, token, login)
	if err != nil {
		return "", "", fmt.Errorf("error finding user with login %s: %w", login, err)
	}

	slog.DebugContext(ctx, "Resolved broadcaster login",
		slog.String("login", login),
		slog.String("broadcaster_id", user.ID),
	)

	return user.ID, user.Login, nil
}
