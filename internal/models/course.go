package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Lesson is a titled unit inside a section. An empty VideoURL means the
// lesson exists in the outline but has no content yet.
type Lesson struct {
	Title    string `json:"title"`
	VideoURL string `json:"video_url"`
}

// Section is an ordered grouping of lessons. Lessons are addressed purely by
// position: (section index, lesson index) is the only lesson identity.
type Section struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// SectionList is the JSONB column type holding a course outline.
type SectionList []Section

// Value implements driver.Valuer for JSONB storage.
func (s SectionList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage.
func (s *SectionList) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("sections: expected []byte, got %T", src)
	}
	return json.Unmarshal(raw, s)
}

// MediaKind distinguishes stored media files.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// GalleryItem is a promotional media entry attached to a course.
type GalleryItem struct {
	MediaKind MediaKind `json:"media_kind"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
}

// GalleryList is the JSONB column type holding course gallery items.
type GalleryList []GalleryItem

// Value implements driver.Valuer for JSONB storage.
func (g GalleryList) Value() (driver.Value, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB storage.
func (g *GalleryList) Scan(src interface{}) error {
	if src == nil {
		*g = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("gallery: expected []byte, got %T", src)
	}
	return json.Unmarshal(raw, g)
}

// Course represents a sellable video course with its nested outline.
type Course struct {
	ID             string      `db:"id" json:"id"`
	Title          string      `db:"title" json:"title"`
	Category       string      `db:"category" json:"category"`
	ThumbnailURL   string      `db:"thumbnail_url" json:"thumbnail_url"`
	Description    string      `db:"description" json:"description"`
	IntroVideoID   string      `db:"intro_video_id" json:"intro_video_id"`
	TotalHours     float64     `db:"total_hours" json:"total_hours"`
	TopicsCovered  int         `db:"topics_covered" json:"topics_covered"`
	NumOfProjects  int         `db:"num_of_projects" json:"num_of_projects"`
	SizeGB         float64     `db:"size_gb" json:"size_gb"`
	LessonCount    int         `db:"lesson_count" json:"lesson_count"`
	Sections       SectionList `db:"sections" json:"sections"`
	Gallery        GalleryList `db:"gallery" json:"gallery"`
	Price          float64     `db:"price" json:"price"`
	CourseContents string      `db:"course_contents" json:"course_contents"`
	Featured       bool        `db:"featured" json:"featured"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// CourseSummary is the catalog projection of a course.
type CourseSummary struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Category     string    `db:"category" json:"category"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	Price        float64   `db:"price" json:"price"`
	Featured     bool      `db:"featured" json:"featured"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CourseFilter captures listing criteria.
type CourseFilter struct {
	Category string
	Featured *bool
	Search   string
	Page     int
	PageSize int
}

// Catalog groups course summaries by category for the homepage.
type Catalog struct {
	Categories []string                   `json:"categories"`
	ByCategory map[string][]CourseSummary `json:"by_category"`
	Featured   []CourseSummary            `json:"featured"`
}
