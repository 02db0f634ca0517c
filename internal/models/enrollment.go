package models

import "time"

// Enrollment grants a learner access to a course. No per-enrollment progress
// is stored: completion is derived from course content at read time.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentDetail joins enrollment rows with course context for listings.
type EnrollmentDetail struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	CourseTitle  string    `db:"course_title" json:"course_title"`
	Category     string    `db:"category" json:"category"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
