package models

import "time"

// StudentWork showcases a graduate's project on the public gallery.
type StudentWork struct {
	ID            string    `db:"id" json:"id"`
	StudentName   string    `db:"student_name" json:"student_name"`
	CourseName    string    `db:"course_name" json:"course_name"`
	PortfolioLink string    `db:"portfolio_link" json:"portfolio_link,omitempty"`
	JobPosition   string    `db:"job_position" json:"job_position,omitempty"`
	MediaKind     MediaKind `db:"media_kind" json:"media_kind"`
	MediaURL      string    `db:"media_url" json:"media_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
