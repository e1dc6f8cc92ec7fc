package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Document struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"userId" gorm:"index;not null"`
	Title      string         `json:"title" gorm:"not null"`
	Content    string         `json:"content"`
	Tags       datatypes.JSON `json:"tags" gorm:"type:jsonb;default:'[]'"` // ordered list of strings
	IsFavorite bool           `json:"isFavorite" gorm:"default:false"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// TagList decodes the JSON tag column. A missing or malformed column
// decodes to an empty list rather than an error; tags are advisory.
func (d *Document) TagList() []string {
	return decodeTags(d.Tags)
}

// EncodeTags marshals an ordered tag list into the JSON column format.
func EncodeTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

func decodeTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return []string{}
	}
	return tags
}
