// Package fetch - youtube.go downloads caption transcripts for videos.
package fetch

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"html"
	"strings"
)

// DefaultWatchURL is the page that carries the caption track list.
const DefaultWatchURL = "https://www.youtube.com/watch?v="

// ErrNoTranscript is returned when a video has no caption track.
var ErrNoTranscript = errors.New("video has no transcript")

// TranscriptOptions configures Transcript.
type TranscriptOptions struct {
	// WatchURL is prefixed to the video ID; tests point it at a local server.
	WatchURL string
	// Languages lists preferred caption languages in order.
	Languages []string
	Fetch     *Options
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript downloads the caption track of a video and returns it as plain text.
// Manually created tracks are preferred over automatic ones.
func Transcript(ctx context.Context, videoID string, opts *TranscriptOptions) (string, error) {
	if opts == nil {
		opts = &TranscriptOptions{}
	}
	watchURL := opts.WatchURL
	if watchURL == "" {
		watchURL = DefaultWatchURL
	}
	pageURL := watchURL + videoID

	page, err := URL(ctx, pageURL, opts.Fetch)
	if err != nil {
		return "", err
	}

	tracks, err := parseCaptionTracks(page.HTML)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to read caption tracks", Cause: err}
	}
	track, ok := pickTrack(tracks, opts.Languages)
	if !ok {
		return "", &Error{URL: pageURL, Message: "no caption track", Cause: ErrNoTranscript}
	}

	captions, err := URL(ctx, track.BaseURL, opts.Fetch)
	if err != nil {
		return "", err
	}

	text, err := parseTimedText(captions.HTML)
	if err != nil {
		return "", &Error{URL: track.BaseURL, Message: "failed to parse captions", Cause: err}
	}
	if text == "" {
		return "", &Error{URL: track.BaseURL, Message: "empty transcript", Cause: ErrNoTranscript}
	}
	return text, nil
}

func parseCaptionTracks(page string) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, nil
	}

	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func pickTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}

	rank := func(t captionTrack) int {
		score := len(languages)
		for i, lang := range languages {
			if strings.EqualFold(t.LanguageCode, lang) {
				score = i
				break
			}
		}
		score *= 2
		if t.Kind == "asr" {
			score++
		}
		return score
	}

	best := tracks[0]
	for _, t := range tracks[1:] {
		if rank(t) < rank(best) {
			best = t
		}
	}
	return best, best.BaseURL != ""
}

func parseTimedText(body string) (string, error) {
	var doc timedText
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// captions are often escaped twice
		line := strings.TrimSpace(html.UnescapeString(html.UnescapeString(t.Value)))
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " "), nil
}
