package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"tracker/internal/errors"
	"tracker/internal/model"
	"tracker/internal/repository"
)

// sequenceFloor makes the first story of a project number 1001.
const sequenceFloor = 1000

// NextSequence returns one more than the highest numeric suffix among numbers,
// or sequenceFloor+1 when none parses. The suffix is whatever follows the last
// "-"; malformed entries are skipped.
func NextSequence(numbers []string) int {
	highest := sequenceFloor
	for _, n := range numbers {
		if seq, ok := parseSequence(n); ok && seq > highest {
			highest = seq
		}
	}
	return highest + 1
}

func parseSequence(storyNumber string) (int, bool) {
	i := strings.LastIndex(storyNumber, "-")
	if i < 0 || i == len(storyNumber)-1 {
		return 0, false
	}
	suffix := storyNumber[i+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return seq, true
}

// FormatStoryNumber renders a display identifier such as "ADMS-1001".
func FormatStoryNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// TicketNumberer mints story identifiers.
type TicketNumberer interface {
	// Reserve must run inside a transaction: it locks the project row, picks
	// the next sequence number and records it as issued.
	Reserve(ctx context.Context, repos *repository.Repositories, projectID uint) (*model.Project, string, error)
}

type ticketNumberer struct{}

// NewTicketNumberer creates the default numberer.
func NewTicketNumberer() TicketNumberer {
	return ticketNumberer{}
}

// Reserve combines a scan of existing story numbers with the project's
// persisted high-water mark, so deleting the newest story never frees its
// number for reuse.
func (ticketNumberer) Reserve(ctx context.Context, repos *repository.Repositories, projectID uint) (*model.Project, string, error) {
	project, err := repos.Projects.FindByIDForUpdate(ctx, projectID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.ErrProjectNotFound
		}
		return nil, "", fmt.Errorf("lock project: %w", err)
	}

	numbers, err := repos.Stories.StoryNumbers(ctx, projectID)
	if err != nil {
		return nil, "", fmt.Errorf("scan story numbers: %w", err)
	}

	seq := NextSequence(numbers)
	if project.StorySeq >= seq {
		seq = project.StorySeq + 1
	}
	if err := repos.Projects.SetStorySeq(ctx, projectID, seq); err != nil {
		return nil, "", fmt.Errorf("advance story sequence: %w", err)
	}
	project.StorySeq = seq

	return project, FormatStoryNumber(project.Prefix, seq), nil
}
