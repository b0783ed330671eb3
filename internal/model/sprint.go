package model

import "time"

// SprintStatus represents the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintStatusPlanning  SprintStatus = "Planning"
	SprintStatusActive    SprintStatus = "Active"
	SprintStatusCompleted SprintStatus = "Completed"
)

// Valid reports whether s is one of the known sprint statuses.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintStatusPlanning, SprintStatusActive, SprintStatusCompleted:
		return true
	default:
		return false
	}
}

// Sprint is a time-boxed container for stories of one project.
type Sprint struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"size:255;not null"`
	Goal      *string      `json:"goal" gorm:"type:text"`
	Status    SprintStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ProjectID uint         `json:"project_id" gorm:"not null;index"`
	CreatedBy uint         `json:"created_by" gorm:"not null;index"`
	StartDate time.Time    `json:"start_date" gorm:"not null"`
	EndDate   time.Time    `json:"end_date" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relations
	Project *Project `json:"-" gorm:"foreignKey:ProjectID"`
	Creator *User    `json:"-" gorm:"foreignKey:CreatedBy"`
}
