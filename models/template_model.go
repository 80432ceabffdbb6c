package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template status values. Only active templates are publicly listable.
// Transitions are unconstrained; any authorized writer may set any status.
const (
	TemplateStatusPending  = "pending"
	TemplateStatusActive   = "active"
	TemplateStatusRejected = "rejected"
	TemplateStatusArchived = "archived"
)

// TemplateCategories is the fixed category set. Seeded templates land in
// "popular".
var TemplateCategories = []string{
	"popular",
	"trending",
	"classic",
	"animals",
	"movies",
	"gaming",
	"politics",
	"sports",
	"other",
}

// MaxTemplateTags caps the tag list on a template.
const MaxTemplateTags = 10

// Template dimension bounds, in pixels. The validator tags on Template and
// CreateTemplateInput carry the same values.
const (
	MinTemplateDimension = 100
	MaxTemplateDimension = 5000
)

// TextArea describes one text overlay region on a template.
type TextArea struct {
	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	Width       float64 `json:"width" bson:"width"`
	Height      float64 `json:"height" bson:"height"`
	DefaultText string  `json:"defaultText" bson:"defaultText"`
	FontSize    int     `json:"fontSize" bson:"fontSize"`
	FontFamily  string  `json:"fontFamily" bson:"fontFamily"`
	Color       string  `json:"color" bson:"color"`
	Align       string  `json:"align" bson:"align"`
	StrokeColor string  `json:"strokeColor" bson:"strokeColor"`
	StrokeWidth int     `json:"strokeWidth" bson:"strokeWidth"`
}

type Template struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	TemplateID   string             `json:"templateId,omitempty" bson:"templateId,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	ImageURL     string             `json:"imageUrl" bson:"imageUrl" validate:"required,url"`
	ThumbnailURL string             `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	PublicID     string             `json:"publicId,omitempty" bson:"publicId,omitempty"`
	Width        int                `json:"width" bson:"width" validate:"required,min=100,max=5000"`
	Height       int                `json:"height" bson:"height" validate:"required,min=100,max=5000"`
	Category     string             `json:"category" bson:"category"`
	Tags         []string           `json:"tags" bson:"tags"`
	TextAreas    []TextArea         `json:"textAreas" bson:"textAreas"`
	Popularity   int                `json:"popularity" bson:"popularity"`
	Status       string             `json:"status" bson:"status"`
	Views        int                `json:"views" bson:"views"`
	UsageCount   int                `json:"usageCount" bson:"usageCount"`
	CreatedBy    primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ValidTemplateCategory reports whether c (after lower-casing) is one of the
// fixed categories.
func ValidTemplateCategory(c string) bool {
	c = strings.ToLower(c)
	for _, cat := range TemplateCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// NormalizeTags trims surrounding whitespace, drops empties and duplicates,
// and caps the result at MaxTemplateTags entries. Order of first occurrence
// is preserved.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == MaxTemplateTags {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
