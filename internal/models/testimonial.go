package models

import "time"

// Testimonial is a published student quote shown on the homepage.
type Testimonial struct {
	ID            string    `db:"id" json:"id"`
	StudentName   string    `db:"student_name" json:"student_name"`
	PortfolioLink string    `db:"portfolio_link" json:"portfolio_link,omitempty"`
	Text          string    `db:"text" json:"text"`
	Published     bool      `db:"published" json:"published"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
