package strapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Response is the CMS envelope: {data, meta}.
type Response[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// RemoteProject is a project record as the CMS returns it: flat, relations already populated.
type RemoteProject struct {
	ID          RecordID       `json:"id"`
	DocumentID  string         `json:"documentId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Link        *string        `json:"link,omitempty"`
	OrderIndex  Int            `json:"order_index"`
	IsActive    *bool          `json:"is_active,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
	PublishedAt *string        `json:"publishedAt"`
	Locale      string         `json:"locale"`
	Media       []RemoteMedia  `json:"media"`
	Skills      []RemoteSkill  `json:"skills"`
}

type RemoteSkill struct {
	ID          RecordID `json:"id"`
	DocumentID  string   `json:"documentId"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Level       Score    `json:"level"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	PublishedAt *string  `json:"publishedAt"`
	Locale      string   `json:"locale"`
}

type RemoteMedia struct {
	ID               RecordID       `json:"id"`
	DocumentID       string         `json:"documentId"`
	Name             string         `json:"name"`
	AlternativeText  *string        `json:"alternativeText"`
	Caption          *string        `json:"caption"`
	Width            Int            `json:"width"`
	Height           Int            `json:"height"`
	Formats          map[string]any `json:"formats"`
	Hash             string         `json:"hash"`
	Ext              string         `json:"ext"`
	Mime             string         `json:"mime"`
	Size             float64        `json:"size"`
	URL              string         `json:"url"`
	PreviewURL       *string        `json:"previewUrl"`
	Provider         string         `json:"provider"`
	ProviderMetadata map[string]any `json:"provider_metadata"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

// Int is a CMS integer that never fails to decode. Anything that is not an integral number
// (or a string holding one) within the int32 range leaves it unset, so one bad field costs that
// field and not the whole response.
type Int struct {
	Value int
	Valid bool
}

// Score is the skill proficiency score.
type Score = Int

func (i *Int) UnmarshalJSON(b []byte) error {
	*i = Int{}
	if v, ok := parseLenientInt(b); ok {
		*i = Int{Value: int(v), Valid: true}
	}
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(i.Value)), nil
}

// Ptr returns the value, or nil when unset.
func (i Int) Ptr() *int {
	if !i.Valid {
		return nil
	}
	v := i.Value
	return &v
}

// RecordID is a CMS record id. Undecodable ids become 0.
type RecordID int64

func (id *RecordID) UnmarshalJSON(b []byte) error {
	v, _ := parseLenientInt(b)
	*id = RecordID(v)
	return nil
}

func parseLenientInt(b []byte) (int64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, false
	}

	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return 0, false
		}
		b = []byte(strings.TrimSpace(str))
	}

	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int64(f), true
}
