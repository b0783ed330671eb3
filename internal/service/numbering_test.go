package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/errors"
	"tracker/internal/model"
	"tracker/internal/repository"
	"tracker/internal/testutil"
)

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		want    int
	}{
		{name: "empty project starts at 1001", numbers: nil, want: 1001},
		{name: "single story", numbers: []string{"T&D-1001"}, want: 1002},
		{name: "unordered input", numbers: []string{"ADMS-1003", "ADMS-1001", "ADMS-1002"}, want: 1004},
		{name: "malformed suffixes are skipped", numbers: []string{"ADMS-abc", "ADMS-", "ADMS", "ADMS-1005"}, want: 1006},
		{name: "only malformed", numbers: []string{"X-12a", "nodash"}, want: 1001},
		{name: "values below the floor", numbers: []string{"A-0007", "A-0999"}, want: 1001},
		{name: "prefix containing a dash", numbers: []string{"A-B-1010"}, want: 1011},
		{name: "negative-looking suffix", numbers: []string{"A--5000"}, want: 5001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence(tt.numbers))
		})
	}
}

func TestNextSequence_RemovingHighestLowersResult(t *testing.T) {
	numbers := []string{"ADMS-1001", "ADMS-1002", "ADMS-1003"}
	assert.Equal(t, 1004, NextSequence(numbers))
	assert.Equal(t, 1003, NextSequence(numbers[:2]))
}

func TestFormatStoryNumber(t *testing.T) {
	assert.Equal(t, "T&D-1001", FormatStoryNumber("T&D", 1001))
	assert.Equal(t, "X-0042", FormatStoryNumber("X", 42))
	assert.Equal(t, "ADMS-12345", FormatStoryNumber("ADMS", 12345))
}

func TestTicketNumberer_Reserve(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	lead := testutil.CreateUser(t, db, model.RoleTeamLead)
	project := testutil.CreateProject(t, db, lead, "T&D")
	numberer := NewTicketNumberer()

	reserve := func(projectID uint) (string, error) {
		var number string
		err := store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
			var err error
			_, number, err = numberer.Reserve(ctx, repos, projectID)
			return err
		})
		return number, err
	}

	first, err := reserve(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "T&D-1001", first)

	second, err := reserve(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "T&D-1002", second, "the counter advances even without stored stories")

	_, err = reserve(project.ID + 100)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestTicketNumberer_ReserveHonoursExistingNumbers(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	lead := testutil.CreateUser(t, db, model.RoleTeamLead)
	project := testutil.CreateProject(t, db, lead, "LEG")

	legacy := &model.Story{
		StoryNumber: "LEG-1500",
		Title:       "imported",
		StoryPoints: 1,
		Status:      model.StoryStatusBacklog,
		Priority:    model.StoryPriorityMedium,
		StoryType:   model.StoryTypeStory,
		ProjectID:   project.ID,
		CreatedBy:   lead.ID,
	}
	require.NoError(t, db.Create(legacy).Error)

	var number string
	err := store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		_, number, err = NewTicketNumberer().Reserve(ctx, repos, project.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "LEG-1501", number)
}
