package mediakeys

import (
	"net/url"
	"path"
	"strings"

	"gallery-manager/feature/gallery/models"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
	".avif": {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".mov":  {},
}

// Classify decides the media type of a bucket key from its file extension.
// The second return value is false for unsupported keys; not every object
// in the bucket is gallery content.
func Classify(key string) (models.MediaType, bool) {
	ext := strings.ToLower(path.Ext(key))
	if _, ok := imageExtensions[ext]; ok {
		return models.MediaTypeImage, true
	}
	if _, ok := videoExtensions[ext]; ok {
		return models.MediaTypeVideo, true
	}
	return "", false
}

// DecodeKey normalizes a key from a bucket notification payload.
// Notification sources URL-encode keys ("+" for space, "%2B" for a literal
// plus); comparing or storing the raw form would silently create duplicate,
// unreachable records. Keys that fail to decode are used as-is.
func DecodeKey(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// PublicURL derives the publicly resolvable address for a bucket key from
// the configured public access base.
func PublicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
