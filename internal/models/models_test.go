package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestEpisodeJSONFieldNames(t *testing.T) {
	episode := Episode{
		ID:               "a-semana",
		Title:            "A semana",
		Thumbnail:        "https://example.com/a.jpg",
		Members:          "Diego",
		PublishedAt:      "8 jan 21",
		Duration:         5400,
		DurationAsString: "01:30:00",
		Description:      "<p>oi</p>",
		URL:              "https://example.com/a.m4a",
	}

	data, err := json.Marshal(episode)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{"id", "title", "thumbnail", "members", "publishedAt", "duration", "durationAsString", "description", "url"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, float64(5400), fields["duration"])
}

func TestPage_Props(t *testing.T) {
	page := &Page{Slug: "a-semana"}
	episode := Episode{ID: "a-semana", Title: "A semana", Duration: 60, DurationAsString: "00:01:00"}

	require.NoError(t, page.SetProps(episode))

	got, err := page.Props()
	require.NoError(t, err)
	assert.Equal(t, episode, got)
}

func TestPage_PropsInvalidData(t *testing.T) {
	page := &Page{PropsData: datatypes.JSON("not json")}
	_, err := page.Props()
	assert.Error(t, err)
}

func TestPage_IsStale(t *testing.T) {
	now := time.Date(2021, 1, 8, 12, 0, 0, 0, time.UTC)
	page := &Page{RevalidateAt: now.Add(time.Hour)}

	assert.False(t, page.IsStale(now))
	assert.True(t, page.IsStale(now.Add(time.Hour)))
	assert.True(t, page.IsStale(now.Add(2*time.Hour)))
}
