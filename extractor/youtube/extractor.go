package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/w-h-a/tutor/extractor"
)

var (
	bareVideoID  = regexp.MustCompile(`^[A-Za-z0-9_\-]{11}$`)
	looseVideoID = regexp.MustCompile(`^[A-Za-z0-9_\-]{6,}$`)
	pathVideoID  = regexp.MustCompile(`/(?:shorts|embed)/([A-Za-z0-9_\-]{6,})`)
	anyVideoID   = regexp.MustCompile(`(?:v=|youtu\.be/|shorts/)([A-Za-z0-9_\-]{6,})`)
)

// VideoID resolves the canonical video identifier from the common YouTube
// URL shapes (watch, youtu.be, shorts, embed) or a bare id.
func VideoID(raw string) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty YouTube URL")
	}

	if bareVideoID.MatchString(raw) {
		return raw, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL: %s", raw)
	}

	if len(parsed.Host) > 0 && strings.HasSuffix(parsed.Host, "youtu.be") {
		vid := strings.TrimPrefix(parsed.Path, "/")
		if looseVideoID.MatchString(vid) {
			return vid, nil
		}
	}

	if vid := parsed.Query().Get("v"); len(vid) > 0 {
		return vid, nil
	}

	if m := pathVideoID.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], nil
	}

	// strip anchors and playlist params before the last-resort match
	clean := raw
	if i := strings.Index(clean, "#"); i >= 0 {
		clean = clean[:i]
	}
	if i := strings.Index(clean, "&list="); i >= 0 {
		clean = clean[:i]
	}
	if m := anyVideoID.FindStringSubmatch(clean); m != nil {
		return m[1], nil
	}

	return "", fmt.Errorf("could not extract YouTube video id from: %s", raw)
}

// Extractor fetches a transcript for a video. Strategies: the public
// timedtext caption endpoint, then yt-dlp auto-generated subtitles.
type Extractor struct {
	options extractor.Options
	client  *http.Client
}

func NewExtractor(opts ...extractor.Option) *Extractor {
	options := extractor.NewOptions(opts...)

	return &Extractor{
		options: options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Extract returns the transcript text and the canonical video id.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, string, error) {
	vid, err := VideoID(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", extractor.ErrNoText, err)
	}

	text, err := extractor.Run(
		ctx,
		&timedtextStrategy{client: e.client, videoID: vid, language: e.options.Language},
		&ytdlpStrategy{runner: e.options.Runner, videoID: vid, language: e.options.Language},
	)
	if err != nil {
		return "", "", fmt.Errorf("no transcript available for video %s: %w", vid, err)
	}

	return text, vid, nil
}

type timedtextStrategy struct {
	client   *http.Client
	videoID  string
	language string
}

func (s *timedtextStrategy) Name() string {
	return "timedtext api"
}

func (s *timedtextStrategy) Extract(ctx context.Context) (string, error) {
	u := fmt.Sprintf(
		"https://video.google.com/timedtext?lang=%s&v=%s",
		url.QueryEscape(s.language),
		url.QueryEscape(s.videoID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	rsp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 400 {
		return "", fmt.Errorf("timedtext http %d", rsp.StatusCode)
	}

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", err
	}

	return parseTimedText(body)
}

type transcript struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(body []byte) (string, error) {
	var t transcript
	if err := xml.Unmarshal(body, &t); err != nil {
		return "", err
	}

	segments := make([]string, 0, len(t.Texts))
	for _, text := range t.Texts {
		if trimmed := strings.TrimSpace(text.Value); len(trimmed) > 0 {
			segments = append(segments, trimmed)
		}
	}

	return strings.Join(segments, " "), nil
}

type ytdlpStrategy struct {
	runner   extractor.Runner
	videoID  string
	language string
}

func (s *ytdlpStrategy) Name() string {
	return "yt-dlp"
}

func (s *ytdlpStrategy) Extract(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "tutor_yt_"+s.videoID+"_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	if _, err := s.runner.Run(
		ctx,
		"yt-dlp",
		"--no-warnings",
		"--skip-download",
		"--write-auto-sub",
		"--sub-lang", s.language,
		"--sub-format", "vtt",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"https://www.youtube.com/watch?v="+s.videoID,
	); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, s.videoID) && strings.HasSuffix(strings.ToLower(name), ".vtt") {
			raw, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return "", err
			}
			return parseVTT(string(raw)), nil
		}
	}

	return "", fmt.Errorf("yt-dlp ran but produced no subtitle file")
}

var cueIndex = regexp.MustCompile(`^\d+$`)

// parseVTT keeps only the caption text lines, dropping the WEBVTT header,
// timestamp lines, and numeric cue indexes.
func parseVTT(raw string) string {
	var lines []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "WEBVTT") {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if cueIndex.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, " ")
}
