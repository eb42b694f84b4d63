package blog

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// PostID identifies a post across loads. Manifests write it either as a JSON
// number or a string; both decode to the same textual form.
type PostID string

func (id *PostID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*id = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode post id: %w", err)
		}
		*id = PostID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("decode post id %q: not a string or number", raw)
	}
	*id = PostID(raw)
	return nil
}

// Post is a manifest record, enriched with Summary and FullContent once its
// content resource has been fetched.
type Post struct {
	ID       PostID   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	ReadTime string   `json:"readTime"`
	Tags     []string `json:"tags"`
	Filename string   `json:"filename"`

	Summary     string `json:"summary,omitempty"`
	FullContent string `json:"fullContent,omitempty"`
	Loaded      bool   `json:"-"`
}

// Manifest is the listing resource. Posts is nil when the field is missing.
type Manifest struct {
	Posts []Post `json:"posts"`
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// PublishedAt parses Date. Unparseable dates yield the zero time.
func (p Post) PublishedAt() time.Time {
	return ParseDate(p.Date)
}

func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DecodeManifest reads a manifest document. A body without a posts field is
// rejected the same way as malformed JSON.
func DecodeManifest(r io.Reader) (Manifest, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if manifest.Posts == nil {
		return Manifest{}, fmt.Errorf("decode manifest: missing posts field")
	}
	return manifest, nil
}
