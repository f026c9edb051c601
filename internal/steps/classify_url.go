package steps

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/asaskevich/govalidator"
	"golang.org/x/net/idna"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

var (
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	imdbIDPattern    = regexp.MustCompile(`/title/(tt\d{7,9})`)
	tmdbPathPattern  = regexp.MustCompile(`^/(movie|tv)/\d+`)
	amazonPattern    = regexp.MustCompile(`/(dp|gp/product)/[A-Z0-9]{10}`)
	redditPostPath   = regexp.MustCompile(`^/r/[^/]+/comments/`)
	xStatusPath      = regexp.MustCompile(`^/[^/]+/status/\d+`)
)

// IsURL reports whether s is an absolute http(s) URL with a host.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \n\t") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return validHost(u.Hostname())
}

// validHost accepts DNS names, IP literals and internationalized names.
func validHost(host string) bool {
	if govalidator.IsIP(host) {
		return true
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii = host
	}
	return govalidator.IsDNSName(ascii)
}

func hostOf(u *url.URL) string {
	return strings.TrimPrefix(hostname(u), "m.")
}

// hostname is the lowercased host without port or a leading "www.".
func hostname(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func hostIs(host string, domains ...string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// ClassifyURL maps a URL onto a content type using host and path rules only.
// Unknown URLs stay bookmarks.
func ClassifyURL(raw string) domain.ContentType {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return domain.ContentTypeBookmark
	}
	host := hostOf(u)
	path := u.EscapedPath()

	switch {
	case hostIs(host, "youtube.com"):
		if strings.HasPrefix(path, "/shorts/") {
			return domain.ContentTypeYouTubeShort
		}
		if YouTubeVideoID(raw) != "" {
			return domain.ContentTypeYouTube
		}
	case host == "youtu.be":
		if YouTubeVideoID(raw) != "" {
			return domain.ContentTypeYouTube
		}
	case hostIs(host, "twitter.com", "x.com"):
		if xStatusPath.MatchString(path) {
			return domain.ContentTypeX
		}
	case hostIs(host, "reddit.com"):
		if redditPostPath.MatchString(path) {
			return domain.ContentTypeReddit
		}
	case host == "redd.it":
		return domain.ContentTypeReddit
	case hostIs(host, "tiktok.com"):
		if strings.Contains(path, "/video/") || hostIs(host, "vm.tiktok.com") {
			return domain.ContentTypeTikTok
		}
	case hostIs(host, "instagram.com"):
		if strings.HasPrefix(path, "/p/") || strings.HasPrefix(path, "/reel/") {
			return domain.ContentTypeInstagram
		}
	case host == "podcasts.apple.com", host == "overcast.fm", host == "pca.st", host == "castbox.fm":
		return domain.ContentTypePodcast
	case host == "open.spotify.com":
		if strings.HasPrefix(path, "/episode/") || strings.HasPrefix(path, "/show/") {
			return domain.ContentTypePodcast
		}
	case hostIs(host, "imdb.com"):
		if imdbIDPattern.MatchString(path) {
			return domain.ContentTypeMovie
		}
	case hostIs(host, "themoviedb.org"):
		if m := tmdbPathPattern.FindStringSubmatch(path); m != nil {
			if m[1] == "tv" {
				return domain.ContentTypeTVShow
			}
			return domain.ContentTypeMovie
		}
	case strings.HasPrefix(host, "amazon.") || strings.Contains(host, ".amazon."):
		if amazonPattern.MatchString(path) {
			return domain.ContentTypeProduct
		}
	}
	return domain.ContentTypeBookmark
}

// YouTubeVideoID extracts the 11 character video id from watch, short, embed
// and youtu.be links.
func YouTubeVideoID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := hostOf(u)
	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case hostIs(host, "youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id = strings.SplitN(strings.TrimPrefix(u.Path, prefix), "/", 2)[0]
				break
			}
		}
	}
	if !youtubeIDPattern.MatchString(id) {
		return ""
	}
	return id
}

// IMDbID extracts the tt identifier from an IMDb title URL.
func IMDbID(raw string) string {
	m := imdbIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

// ClassifyURLStep is the first, network-free classification pass. Input
// that is not a URL at all becomes a note.
type ClassifyURLStep struct {
	store  pipeline.ItemStore
	logger *slog.Logger
}

func NewClassifyURLStep(store pipeline.ItemStore, logger *slog.Logger) *ClassifyURLStep {
	return &ClassifyURLStep{store: store, logger: logger.With("step", "classify_url")}
}

func (s *ClassifyURLStep) Name() string { return "classify_url" }

func (s *ClassifyURLStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if !item.ContentType.IsGeneric() {
		return nil
	}

	raw := strings.TrimSpace(item.URL)
	if raw == "" {
		raw = strings.TrimSpace(sc.URL)
	}

	if !IsURL(raw) {
		return s.convertToNote(ctx, item, raw)
	}

	ct := ClassifyURL(raw)
	if ct.IsGeneric() {
		return nil
	}

	s.logger.Debug("classified by url pattern", "item_id", item.ID, "content_type", ct)
	_, err = s.store.UpdateItem(ctx, item.ID, domain.ItemPatch{ContentType: &ct})
	return err
}

func (s *ClassifyURLStep) convertToNote(ctx context.Context, item *domain.Item, raw string) error {
	text := raw
	if text == "" {
		text = strings.TrimSpace(item.RawText)
	}
	if text == "" {
		return nil
	}

	note := domain.ContentTypeNote
	empty := ""
	patch := domain.ItemPatch{
		ContentType: &note,
		Notes:       &text,
		URL:         &empty,
	}
	if domain.IsPlaceholderTitle(item.Title, item.URL) {
		title := noteTitle(text)
		patch.Title = &title
	}

	s.logger.Debug("converted capture to note", "item_id", item.ID)
	_, err := s.store.UpdateItem(ctx, item.ID, patch)
	return err
}

func noteTitle(text string) string {
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	const maxLen = 80
	if r := []rune(line); len(r) > maxLen {
		return string(r[:maxLen]) + "…"
	}
	return line
}
