package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatch(t *testing.T) {
	task := Task{ID: 1, Title: "Buy milk", UserID: 7, CreatedAt: time.Unix(0, 0).UTC()}

	assert.True(t, TaskPatch{}.Empty())
	assert.Equal(t, task, TaskPatch{}.Apply(task))

	done, title := true, "  Buy oat milk "
	patch := TaskPatch{Completed: &done, Title: &title}
	assert.False(t, patch.Empty())

	got := patch.Apply(task)
	assert.True(t, got.Completed)
	assert.False(t, got.IsImportant)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
	assert.Equal(t, task.UserID, got.UserID)
}

func TestUserJSONHidesHash(t *testing.T) {
	u := User{ID: 1, Name: "Ana", Username: "ana1", Email: "ana@x.com", PasswordHash: []byte("secret")}

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")

	b, err = json.Marshal(u.Public())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Ana","username":"ana1","email":"ana@x.com"}`, string(b))
}
