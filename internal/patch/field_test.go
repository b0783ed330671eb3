package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title    Field[string] `json:"title"`
	Assignee Field[uint]   `json:"assignee_id"`
	Points   Field[int]    `json:"story_points"`
}

func TestField_UnmarshalDistinguishesOmittedAndNull(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","assignee_id":null}`), &p))

	assert.True(t, p.Title.Present())
	assert.Equal(t, "x", p.Title.Value)

	assert.True(t, p.Assignee.Set)
	assert.True(t, p.Assignee.Null)
	assert.False(t, p.Assignee.Present())

	assert.False(t, p.Points.Set)
	assert.False(t, p.Points.Null)
}

func TestField_UnmarshalTypeMismatch(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"story_points":"three"}`), &p)
	assert.Error(t, err)
}

func TestField_Apply(t *testing.T) {
	title := "old"
	assert.False(t, Field[string]{}.Apply(&title))
	assert.False(t, Null[string]().Apply(&title))
	assert.Equal(t, "old", title)

	assert.True(t, Value("new").Apply(&title))
	assert.Equal(t, "new", title)
}

func TestField_ApplyNullable(t *testing.T) {
	id := uint(7)
	dst := &id

	assert.False(t, Field[uint]{}.ApplyNullable(&dst))
	require.NotNil(t, dst)
	assert.Equal(t, uint(7), *dst)

	assert.True(t, Value(uint(9)).ApplyNullable(&dst))
	require.NotNil(t, dst)
	assert.Equal(t, uint(9), *dst)
	assert.Equal(t, uint(7), id, "source pointer must not be mutated")

	assert.True(t, Null[uint]().ApplyNullable(&dst))
	assert.Nil(t, dst)
}

func TestField_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(payload{Title: Value("t"), Assignee: Null[uint]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","assignee_id":null,"story_points":null}`, string(out))
}
