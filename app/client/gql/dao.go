package gql

// VideoQuality represents a clip video quality option
type VideoQuality struct {
	FrameRate float32 `json:"frameRate"`
	Quality   string  `json:"quality"`
	SourceURL string  `json:"sourceURL"`
}

// ClipAccessToken represents an access token for downloading a clip
type ClipAccessToken struct {
	ID                  string `json:"id"`
	PlaybackAccessToken struct {
		Signature string `json:"signature"`
		Value     string `json:"value"`
	} `json:"playbackAccessToken"`
	VideoQualities []VideoQuality `json:"videoQualities"`
}

type accessTokenResponse struct {
	Data struct {
		Clip *ClipAccessToken `json:"clip"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
