package gql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"twdl/app/apperr"
	"twdl/pkg/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Twitch.GQLURL = server.URL + "/gql"

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, New)

	return do.MustInvoke[*Client](di)
}

func TestSourceURLPicksHighestQuality(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "kimne78kx3ncx6brgo4mv6wki5h1ko", r.Header.Get("Client-ID"))

		var body struct {
			OperationName string            `json:"operationName"`
			Variables     map[string]string `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "VideoAccessToken_Clip", body.OperationName)
		assert.Equal(t, "QuaintAssiduousZebra", body.Variables["slug"])

		_, _ = w.Write([]byte(`{"data":{"clip":{
			"playbackAccessToken":{"signature":"abc","value":"{\"clip_uri\":\"x\"}"},
			"videoQualities":[
				{"quality":"480","frameRate":30,"sourceURL":"https://cdn.example/480.mp4"},
				{"quality":"1080","frameRate":60,"sourceURL":"https://cdn.example/1080.mp4"},
				{"quality":"720","frameRate":60,"sourceURL":"https://cdn.example/720.mp4"}
			]}}}`))
	})

	sourceURL, err := client.SourceURL(context.Background(), "QuaintAssiduousZebra")
	require.NoError(t, err)

	parsed, err := url.Parse(sourceURL)
	require.NoError(t, err)
	require.Equal(t, "/1080.mp4", parsed.Path)
	require.Equal(t, "abc", parsed.Query().Get("sig"))
	require.Equal(t, `{"clip_uri":"x"}`, parsed.Query().Get("token"))
}

func TestSourceURLUnknownClip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"clip":null}}`))
	})

	_, err := client.SourceURL(context.Background(), "Nope")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSourceURLNoQualities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"clip":{"playbackAccessToken":{"signature":"s","value":"v"},"videoQualities":[]}}}`))
	})

	_, err := client.SourceURL(context.Background(), "Empty")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSourceURLServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SourceURL(context.Background(), "Any")
	require.ErrorIs(t, err, apperr.ErrAPI)
}

func TestBestQualitySkipsUnparsable(t *testing.T) {
	best, ok := bestQuality([]VideoQuality{
		{Quality: "source", SourceURL: "https://cdn.example/source.mp4"},
		{Quality: "360", SourceURL: "https://cdn.example/360.mp4"},
	})
	require.True(t, ok)
	require.Equal(t, "360", best.Quality)

	_, ok = bestQuality(nil)
	require.False(t, ok)
}
