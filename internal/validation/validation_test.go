package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tracker/internal/errors"
	"tracker/internal/model"
)

type sample struct {
	Title    string               `json:"title" validate:"required,max=10"`
	Status   model.StoryStatus    `json:"status" validate:"omitempty,enum"`
	Priority *model.StoryPriority `json:"priority" validate:"omitempty,enum"`
	Email    string               `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	v := New()
	high := model.StoryPriorityHigh
	bogus := model.StoryPriority("Urgent")

	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{"valid", sample{Title: "ok", Status: model.StoryStatusToDo, Priority: &high}, ""},
		{"defaults are omitted", sample{Title: "ok"}, ""},
		{"missing title", sample{}, "title is required"},
		{"bad status", sample{Title: "ok", Status: "Done"}, `status has invalid value "Done"`},
		{"bad pointer enum", sample{Title: "ok", Priority: &bogus}, `priority has invalid value "Urgent"`},
		{"too long", sample{Title: "way too long title"}, "title must be at most 10"},
		{"bad email", sample{Title: "ok", Email: "nope"}, "email must be a valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(v, tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, stderrors.Is(err, errors.ErrValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
