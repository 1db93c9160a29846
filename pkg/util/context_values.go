package util

import "context"

func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, runID)
}

func WithClipID(ctx context.Context, clipID string) context.Context {
	return context.WithValue(ctx, ClipIDContextKey, clipID)
}

func WithBroadcaster(ctx context.Context, broadcaster string) context.Context {
	return context.WithValue(ctx, BroadcasterContextKey, broadcaster)
}
