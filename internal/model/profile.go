package model

import "time"

// Profile is the public author profile joined into feed rows.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string    `gorm:"type:varchar(255)" json:"avatar_url,omitempty"`
	Website   string    `gorm:"type:varchar(255)" json:"website,omitempty"`
	Location  string    `gorm:"type:varchar(120)" json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
