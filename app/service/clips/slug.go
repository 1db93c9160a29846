package clips

import (
	"fmt"
	"regexp"
	"strings"
	"twdl/app/apperr"
)

var clipRefPattern = regexp.MustCompile(
	`^(?:https?://(?:(?:www|m)\.)?twitch\.tv/[^/]+/clip/|https?://clips\.twitch\.tv/)?([A-Za-z0-9_-]+)/?(?:[?#].*)?$`,
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExtractSlug accepts a bare clip slug or a clip URL and returns the slug.
func ExtractSlug(ref string) (string, error) {
	m := clipRefPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return "", fmt.Errorf("%w: no clip slug found in %q", apperr.ErrConfig, ref)
	}

	return m[1], nil
}
