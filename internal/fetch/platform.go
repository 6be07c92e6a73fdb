// Package fetch - platform.go detects video platform URLs.
package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform represents the kind of content a URL points at.
type Platform string

const (
	// PlatformYouTube is a YouTube video
	PlatformYouTube Platform = "youtube"
	// PlatformWeb is any other web page
	PlatformWeb Platform = "web"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// DetectPlatform identifies the platform from a URL.
func DetectPlatform(urlStr string) Platform {
	if _, ok := VideoID(urlStr); ok {
		return PlatformYouTube
	}
	return PlatformWeb
}

// IsYouTube reports whether the URL points at a YouTube video.
func IsYouTube(urlStr string) bool {
	return DetectPlatform(urlStr) == PlatformYouTube
}

// VideoID extracts the video ID from youtu.be, watch, shorts and embed URLs.
func VideoID(urlStr string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil || parsed.Host == "" {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(parsed.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		switch {
		case segments[0] == "watch":
			id = parsed.Query().Get("v")
		case len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
			id = segments[1]
		}
	default:
		return "", false
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
