package domain

import "time"

// BlogPost is an announcement article written by an admin.
type BlogPost struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
