package model

import "time"

// StoryStatus represents the workflow column of a story.
type StoryStatus string

const (
	StoryStatusBacklog    StoryStatus = "Backlog"
	StoryStatusToDo       StoryStatus = "To Do"
	StoryStatusInProgress StoryStatus = "In Progress"
	StoryStatusBlocked    StoryStatus = "Blocked"
	StoryStatusValidation StoryStatus = "Validation"
	StoryStatusCompleted  StoryStatus = "Completed"
)

// Valid reports whether s is one of the known story statuses.
func (s StoryStatus) Valid() bool {
	switch s {
	case StoryStatusBacklog, StoryStatusToDo, StoryStatusInProgress,
		StoryStatusBlocked, StoryStatusValidation, StoryStatusCompleted:
		return true
	default:
		return false
	}
}

// StoryPriority represents how urgent a story is.
type StoryPriority string

const (
	StoryPriorityLow    StoryPriority = "Low"
	StoryPriorityMedium StoryPriority = "Medium"
	StoryPriorityHigh   StoryPriority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p StoryPriority) Valid() bool {
	switch p {
	case StoryPriorityLow, StoryPriorityMedium, StoryPriorityHigh:
		return true
	default:
		return false
	}
}

// StoryType distinguishes features, bugs and epics.
type StoryType string

const (
	StoryTypeStory StoryType = "Story"
	StoryTypeBug   StoryType = "Bug"
	StoryTypeEpic  StoryType = "Epic"
)

// Valid reports whether t is one of the known story types.
func (t StoryType) Valid() bool {
	switch t {
	case StoryTypeStory, StoryTypeBug, StoryTypeEpic:
		return true
	default:
		return false
	}
}

// Story is a ticket tracked within a project, optionally scheduled into a sprint.
type Story struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	StoryNumber        string        `json:"story_number" gorm:"size:64;uniqueIndex;not null"` // e.g. "T&D-1001"
	Title              string        `json:"title" gorm:"size:255;not null"`
	Description        *string       `json:"description" gorm:"type:text"`
	AcceptanceCriteria *string       `json:"acceptance_criteria" gorm:"type:text"`
	StoryPoints        int           `json:"story_points" gorm:"not null"`
	Status             StoryStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Priority           StoryPriority `json:"priority" gorm:"type:varchar(20);not null"`
	StoryType          StoryType     `json:"story_type" gorm:"type:varchar(20);not null"`
	ProjectID          uint          `json:"project_id" gorm:"not null;index"`
	AssigneeID         *uint         `json:"assignee_id" gorm:"index"`
	CreatedBy          uint          `json:"created_by" gorm:"not null;index"`
	SprintID           *uint         `json:"sprint_id" gorm:"index"`
	DueDate            *time.Time    `json:"due_date"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Relations
	Project  *Project `json:"-" gorm:"foreignKey:ProjectID"`
	Assignee *User    `json:"-" gorm:"foreignKey:AssigneeID"`
	Creator  *User    `json:"-" gorm:"foreignKey:CreatedBy"`
	Sprint   *Sprint  `json:"-" gorm:"foreignKey:SprintID"`
}
