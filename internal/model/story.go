package model

import "time"

// Story is a published (or draft) short story submitted by an author.
// Only rows with IsPublished = true are visible to the public feed.
type Story struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Genre       string    `gorm:"type:varchar(32);index:idx_story_genre;not null" json:"genre"`
	AuthorID    string    `gorm:"type:varchar(36);index:idx_story_author;not null" json:"author_id"`
	IsPublished bool      `gorm:"index:idx_story_published;not null;default:false" json:"is_published"`
	WordCount   int       `gorm:"not null;default:0" json:"word_count"`
	CreatedAt   time.Time `gorm:"index:idx_story_created" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Story) TableName() string { return "stories" }
