package model

import "time"

// Project groups sprints and stories under a unique ticket prefix.
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Prefix      string    `json:"prefix" gorm:"size:32;uniqueIndex;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedBy   uint      `json:"created_by" gorm:"not null;index"`
	TeamLeadID  *uint     `json:"team_lead_id" gorm:"index"`
	StorySeq    int       `json:"-" gorm:"not null"` // highest sequence number ever issued
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Creator  *User `json:"-" gorm:"foreignKey:CreatedBy"`
	TeamLead *User `json:"-" gorm:"foreignKey:TeamLeadID"`
}
