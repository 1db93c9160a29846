package clips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
	"twdl/app/client/gql"
	"twdl/app/client/twitch"
	"twdl/pkg/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

var testCreds = &config.Credentials{ClientID: "client-id", ClientSecret: "client-secret"}

// fakeTwitch serves the auth, Helix, GQL and CDN endpoints from one httptest server.
type fakeTwitch struct {
	server *httptest.Server
	clips  []twitch.Clip
	users  map[string]string

	mu            sync.Mutex
	rejectAuth    bool
	failPage      int
	repeatCursor  bool
	failMedia     map[string]bool
	tokenRequests int
	listRequests  []map[string]string
	mediaRequests map[string]int
}

func newFakeTwitch(t *testing.T, n int) *fakeTwitch {
	t.Helper()

	f := &fakeTwitch{
		users:         map[string]string{"somestreamer": "4242"},
		failMedia:     map[string]bool{},
		mediaRequests: map[string]int{},
	}

	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("Clip%02d-Slug", i)
		f.clips = append(f.clips, twitch.Clip{
			ID:            id,
			BroadcasterID: "4242",
			Title:         "clip " + strconv.Itoa(i),
			ViewCount:     i * 10,
			CreatedAt:     created.Add(time.Duration(i) * time.Minute),
			ThumbnailURL:  f.server.URL + "/cdn/" + id + "-preview-480x272.jpg",
			Duration:      30,
		})
	}

	return f
}

func (f *fakeTwitch) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/oauth2/token":
		f.handleToken(w)
	case r.URL.Path == "/helix/users":
		f.handleUsers(w, r)
	case r.URL.Path == "/helix/clips":
		f.handleClips(w, r)
	case r.URL.Path == "/gql":
		f.handleGQL(w, r)
	case strings.HasPrefix(r.URL.Path, "/cdn/"):
		f.handleMedia(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeTwitch) handleToken(w http.ResponseWriter) {
	f.mu.Lock()
	f.tokenRequests++
	reject := f.rejectAuth
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reject {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":400,"message":"invalid client secret"}`))
		return
	}
	_, _ = w.Write([]byte(`{"access_token":"app-token","expires_in":5000000,"token_type":"bearer"}`))
}

func (f *fakeTwitch) handleUsers(w http.ResponseWriter, r *http.Request) {
	login := r.URL.Query().Get("login")
	id, ok := f.users[login]
	if !ok {
		_, _ = w.Write([]byte(`{"data":[]}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": []map[string]string{{"id": id, "login": login, "display_name": login}},
	})
}

func (f *fakeTwitch) handleClips(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer app-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()

	if slug := q.Get("id"); slug != "" {
		data := []twitch.Clip{}
		for _, clip := range f.clips {
			if clip.ID == slug {
				data = append(data, clip)
			}
		}
		_ = json.NewEncoder(w).Encode(twitch.ClipsResponse{Data: data, Pagination: &twitch.Pagination{}})
		return
	}

	f.mu.Lock()
	f.listRequests = append(f.listRequests, map[string]string{
		"broadcaster_id": q.Get("broadcaster_id"),
		"first":          q.Get("first"),
		"after":          q.Get("after"),
		"started_at":     q.Get("started_at"),
		"ended_at":       q.Get("ended_at"),
	})
	page := len(f.listRequests)
	failPage := f.failPage
	repeatCursor := f.repeatCursor
	f.mu.Unlock()

	if failPage != 0 && page == failPage {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":503,"message":"try later"}`))
		return
	}

	first, _ := strconv.Atoi(q.Get("first"))
	offset := 0
	if after := q.Get("after"); after != "" {
		offset, _ = strconv.Atoi(strings.TrimPrefix(after, "cursor-"))
	}

	end := min(offset+first, len(f.clips))
	if offset > end {
		offset = end
	}

	res := twitch.ClipsResponse{Data: f.clips[offset:end], Pagination: &twitch.Pagination{}}
	if end < len(f.clips) {
		res.Pagination.Cursor = "cursor-" + strconv.Itoa(end)
	}
	if repeatCursor {
		res.Pagination.Cursor = "cursor-0"
	}

	_ = json.NewEncoder(w).Encode(res)
}

func (f *fakeTwitch) handleGQL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Variables map[string]string `json:"variables"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	slug := body.Variables["slug"]

	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"clip": map[string]any{
				"playbackAccessToken": map[string]string{"signature": "sig", "value": "tok"},
				"videoQualities": []map[string]any{
					{"quality": "720", "frameRate": 60, "sourceURL": f.server.URL + "/cdn/" + slug + ".mp4"},
				},
			},
		},
	})
}

func (f *fakeTwitch) handleMedia(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/cdn/"), MediaExt)

	f.mu.Lock()
	f.mediaRequests[id]++
	fail := f.failMedia[id]
	f.mu.Unlock()

	if fail {
		// drop the connection to simulate a transport failure
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			_ = conn.Close()
		}
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	_, _ = io.WriteString(w, "media-"+id)
}

func (f *fakeTwitch) mediaRequestCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mediaRequests[id]
}

func (f *fakeTwitch) listRequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listRequests)
}

func (f *fakeTwitch) totalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := f.tokenRequests + len(f.listRequests)
	for _, n := range f.mediaRequests {
		total += n
	}
	return total
}

func newTestInjector(t *testing.T, f *fakeTwitch) (*do.Injector, *bytes.Buffer) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Twitch.AuthURL = f.server.URL + "/oauth2/token"
	cfg.Twitch.HelixURL = f.server.URL + "/helix"
	cfg.Twitch.GQLURL = f.server.URL + "/gql"
	cfg.Twitch.RequestsPerSecond = 10000
	cfg.Download.Timeout = 10 * time.Second

	out := &bytes.Buffer{}

	di := do.New()
	do.ProvideValue(di, cfg)
	do.ProvideNamedValue[io.Writer](di, StdoutName, out)
	do.Provide(di, twitch.NewClient)
	do.Provide(di, twitch.NewTokenManager)
	do.Provide(di, gql.New)
	do.Provide(di, NewPager)
	do.Provide(di, NewExecutor)
	do.Provide(di, New)

	return di, out
}
