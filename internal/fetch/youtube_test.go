package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoServer(t *testing.T, tracks string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abcdefghijk", r.URL.Query().Get("v"))
		body := fmt.Sprintf(`<html><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":%s,"audioTracks":[]}}};</script></html>`,
			fmt.Sprintf(tracks, server.URL, server.URL))
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/timedtext/manual", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8" ?><transcript>` +
			`<text start="0.0" dur="1.5">Hello &amp;amp; welcome</text>` +
			`<text start="1.5" dur="2.0">it&amp;#39;s a   test</text>` +
			`<text start="3.5" dur="1.0"> </text>` +
			`</transcript>`))
	})
	mux.HandleFunc("/timedtext/asr", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<transcript><text>auto captions</text></transcript>`))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTranscript_PrefersManualTrack(t *testing.T) {
	server := newVideoServer(t, `[
		{"baseUrl":"%s/timedtext/asr","languageCode":"en","kind":"asr"},
		{"baseUrl":"%s/timedtext/manual","languageCode":"en"}
	]`)

	text, err := Transcript(context.Background(), "abcdefghijk", &TranscriptOptions{
		WatchURL: server.URL + "/watch?v=",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello & welcome it's a test", text)
}

func TestTranscript_PreferredLanguageWins(t *testing.T) {
	server := newVideoServer(t, `[
		{"baseUrl":"%s/timedtext/manual","languageCode":"en"},
		{"baseUrl":"%s/timedtext/asr","languageCode":"de","kind":"asr"}
	]`)

	text, err := Transcript(context.Background(), "abcdefghijk", &TranscriptOptions{
		WatchURL:  server.URL + "/watch?v=",
		Languages: []string{"de", "en"},
	})
	require.NoError(t, err)
	assert.Equal(t, "auto captions", text)
}

func TestTranscript_NoTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>no captions here</body></html>`))
	}))
	defer server.Close()

	_, err := Transcript(context.Background(), "abcdefghijk", &TranscriptOptions{
		WatchURL: server.URL + "/watch?v=",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTranscript))

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestParseTimedText_Invalid(t *testing.T) {
	_, err := parseTimedText("<transcript><text>")
	assert.Error(t, err)
}
