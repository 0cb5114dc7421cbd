package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Episode holds the props of an episode detail page. It is built fresh from
// upstream data on every generation and not mutated afterwards.
type Episode struct {
	ID               string  `json:"id" example:"a-importancia-da-contribuicao-em-open-source"`
	Title            string  `json:"title" example:"A importância da contribuição em Open Source"`
	Thumbnail        string  `json:"thumbnail" example:"https://example.com/opensource.jpg"`
	Members          string  `json:"members" example:"Diego Fernandes, João Pedro"`
	PublishedAt      string  `json:"publishedAt" example:"8 jan 21"`
	Duration         float64 `json:"duration" example:"3981"`
	DurationAsString string  `json:"durationAsString" example:"01:06:21"`
	Description      string  `json:"description" example:"<p>Nesse episódio...</p>"`
	URL              string  `json:"url" example:"https://example.com/opensource.m4a"`
}

// Page is a rendered episode page persisted between requests
type Page struct {
	gorm.Model
	Slug         string         `json:"slug" gorm:"uniqueIndex;not null"`
	HTML         []byte         `json:"-" gorm:"type:blob;not null"`
	PropsData    datatypes.JSON `json:"-" gorm:"not null"` // encoded Episode
	ETag         string         `json:"etag" gorm:"column:etag;not null"`
	GeneratedAt  time.Time      `json:"generated_at" gorm:"not null"`
	RevalidateAt time.Time      `json:"revalidate_at" gorm:"not null;index"`
}

// Props returns the decoded page props
func (p *Page) Props() (Episode, error) {
	var episode Episode
	if err := json.Unmarshal(p.PropsData, &episode); err != nil {
		return Episode{}, err
	}
	return episode, nil
}

// SetProps encodes and sets the page props
func (p *Page) SetProps(episode Episode) error {
	data, err := json.Marshal(episode)
	if err != nil {
		return err
	}
	p.PropsData = datatypes.JSON(data)
	return nil
}

// IsStale reports whether the page is past its revalidation time
func (p *Page) IsStale(now time.Time) bool {
	return !now.Before(p.RevalidateAt)
}
