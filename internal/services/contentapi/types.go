package contentapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Identifier accepts episode ids encoded as JSON strings or numbers
type Identifier string

// UnmarshalJSON implements json.Unmarshaler
func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("episode id must be a string or number: %w", err)
	}
	*id = Identifier(n.String())
	return nil
}

// Seconds is a duration in seconds sent either as a JSON number or a numeric string
type Seconds float64

// UnmarshalJSON implements json.Unmarshaler
func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*s = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Errorf("duration %q is not numeric", raw)
	}
	*s = Seconds(v)
	return nil
}

// EpisodeSummary is an entry of the episode listing
type EpisodeSummary struct {
	ID          Identifier `json:"id"`
	Title       string     `json:"title,omitempty"`
	PublishedAt string     `json:"published_at,omitempty"`
}

// EpisodeFile describes the playable media of an episode
type EpisodeFile struct {
	URL      string  `json:"url"`
	Type     string  `json:"type,omitempty"`
	Duration Seconds `json:"duration"`
}

// EpisodeRecord is the full episode document served by /episodes/{id}
type EpisodeRecord struct {
	ID          Identifier  `json:"id"`
	Title       string      `json:"title"`
	Members     string      `json:"members"`
	PublishedAt string      `json:"published_at"`
	Thumbnail   string      `json:"thumbnail"`
	Description string      `json:"description"`
	File        EpisodeFile `json:"file"`
}

// Sort orders accepted by the listing endpoint
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams controls the json-server style listing query
type ListParams struct {
	Limit int
	Sort  string
	Order string
}

func (p ListParams) query() map[string]string {
	params := make(map[string]string)
	if p.Limit > 0 {
		params["_limit"] = strconv.Itoa(p.Limit)
	}
	if p.Sort != "" {
		params["_sort"] = p.Sort
	}
	if p.Order != "" {
		params["_order"] = p.Order
	}
	return params
}
