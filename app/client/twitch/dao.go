package twitch

import "time"

// AccessToken is an app access token obtained through the client credentials grant.
type AccessToken struct {
	Value     string
	ClientID  string
	ExpiresAt *time.Time
}

// GetClipsParams represents the parameters for getting clips
type GetClipsParams struct {
	BroadcasterID string
	GameID        string
	IDs           []string
	First         int
	After         string
	Before        string
	StartedAt     time.Time
	EndedAt       time.Time
}

// Clip represents a Twitch clip
type Clip struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"`
	EmbedURL         string    `json:"embed_url"`
	BroadcasterID    string    `json:"broadcaster_id"`
	BroadcasterName  string    `json:"broadcaster_name"`
	BroadcasterLogin string    `json:"broadcaster_login,omitempty"`
	CreatorID        string    `json:"creator_id"`
	CreatorName      string    `json:"creator_name"`
	VideoID          string    `json:"video_id"`
	GameID           string    `json:"game_id"`
	Language         string    `json:"language"`
	Title            string    `json:"title"`
	ViewCount        int       `json:"view_count"`
	CreatedAt        time.Time `json:"created_at"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	Duration         float64   `json:"duration"`
	VodOffset        *int      `json:"vod_offset"`
	IsFeatured       bool      `json:"is_featured"`
}

// ClipsResponse represents the response from the clips endpoint
type ClipsResponse struct {
	Data       []Clip      `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NextCursor returns the cursor of the following page, or "" on the last page.
func (r *ClipsResponse) NextCursor() string {
	if r.Pagination == nil {
		return ""
	}

	return r.Pagination.Cursor
}

// Pagination represents pagination information
type Pagination struct {
	Cursor string `json:"cursor,omitempty"`
}

// User represents a Twitch user
type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

type usersResponse struct {
	Data []User `json:"data"`
}

// apiError is the error body returned by Helix
type apiError struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}
