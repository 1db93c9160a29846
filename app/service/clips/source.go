package clips

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"twdl/app/apperr"
)

// MediaExt is the extension of downloaded clip media.
const MediaExt = ".mp4"

var previewSuffix = regexp.MustCompile(`-preview-[0-9]+x[0-9]+\.jpg$`)

// DeriveSourceURL turns a clip thumbnail URL into its media URL by replacing the
// "-preview-WxH.jpg" suffix with ".mp4". Query strings and fragments are dropped.
func DeriveSourceURL(thumbnailURL string) (string, error) {
	base, _, _ := strings.Cut(thumbnailURL, "?")
	base, _, _ = strings.Cut(base, "#")

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: invalid thumbnail url %q: %w", apperr.ErrDerivation, thumbnailURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: thumbnail url %q is not an absolute http(s) url", apperr.ErrDerivation, thumbnailURL)
	}

	loc := previewSuffix.FindStringIndex(base)
	if loc == nil {
		return "", fmt.Errorf("%w: thumbnail url %q has no -preview-WxH.jpg suffix", apperr.ErrDerivation, thumbnailURL)
	}

	stem := base[:loc[0]]
	if strings.HasSuffix(stem, "/") {
		return "", fmt.Errorf("%w: thumbnail url %q has an empty file name", apperr.ErrDerivation, thumbnailURL)
	}

	return stem + MediaExt, nil
}
