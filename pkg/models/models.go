package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Level is a skill proficiency. Values are ordered: Beginner < Intermediate < Advanced < Expert.
type Level int

const (
	LevelBeginner Level = iota + 1
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

var levelNames = map[Level]string{
	LevelBeginner:     "Beginner",
	LevelIntermediate: "Intermediate",
	LevelAdvanced:     "Advanced",
	LevelExpert:       "Expert",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "Intermediate"
}

// ParseLevel converts a level name back into a Level.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown skill level %q", s)
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Project is a portfolio entry as served to the presentation layer.
type Project struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Link        *string `json:"link,omitempty"`
	OrderIndex  *int    `json:"order_index,omitempty"`
	IsActive    bool    `json:"is_active"`
	Media       []Media `json:"media"`
	Skills      []Skill `json:"skills"`
}

type Skill struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Level       Level   `json:"level"`
}

type Media struct {
	ID         int64           `json:"id"`
	Attributes MediaAttributes `json:"attributes"`
}

type MediaAttributes struct {
	Name             string         `json:"name"`
	AlternativeText  *string        `json:"alternativeText,omitempty"`
	Caption          *string        `json:"caption,omitempty"`
	Width            *int           `json:"width,omitempty"`
	Height           *int           `json:"height,omitempty"`
	Formats          map[string]any `json:"formats,omitempty"`
	Hash             string         `json:"hash"`
	Ext              string         `json:"ext"`
	Mime             string         `json:"mime"`
	Size             float64        `json:"size"`
	URL              string         `json:"url"`
	PreviewURL       *string        `json:"previewUrl,omitempty"`
	Provider         string         `json:"provider"`
	ProviderMetadata map[string]any `json:"provider_metadata,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

// TechCount is one row of the technology usage ranking.
type TechCount struct {
	Tech  string `json:"tech"`
	Count int    `json:"count"`
}

type Stats struct {
	Total           int         `json:"total"`
	Active          int         `json:"active"`
	Inactive        int         `json:"inactive"`
	TopTechnologies []TechCount `json:"topTechnologies"`
	LastUpdated     time.Time   `json:"lastUpdated"`
}

// Inquiry statuses.
const (
	InquiryPending = "pending"
	InquirySent    = "sent"
	InquiryFailed  = "failed"
)

// Inquiry is a contact request recorded in the local store.
type Inquiry struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Message   string `json:"message" db:"message"`
	Status    string `json:"status" db:"status"`
	LastError string `json:"last_error,omitempty" db:"last_error"`
	Created   int64  `json:"created" db:"created"`
	Updated   int64  `json:"updated" db:"updated"`
}
