//go:build e2e

package taskapi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

func TestTaskLifecycle(t *testing.T) {
	client := setupContainer(t)
	session := register(t, client, "Task Owner", "owner@example.com", "owner-pass")

	past := time.Now().Add(-48 * time.Hour).UTC()
	created, err := session.CreateTask(t.Context(), taskclient.CreateTaskRequest{
		Title:    "File taxes",
		Priority: "URGENT",
		DueDate:  &past,
	})
	require.NoError(t, err)
	assert.Equal(t, "TODO", created.Status)
	assert.True(t, created.Overdue)

	overdue, err := session.ListOverdueTasks(t.Context())
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	high, err := session.ListHighPriorityTasks(t.Context())
	require.NoError(t, err)
	require.Len(t, high, 1)

	found, err := session.SearchTasks(t.Context(), "taxes")
	require.NoError(t, err)
	require.Len(t, found, 1)

	done, err := session.CompleteTask(t.Context(), created.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "DONE", done.Status)

	byStatus, err := session.ListTasksByStatus(t.Context(), "DONE")
	require.NoError(t, err)
	require.Len(t, byStatus, 1)

	// Another account cannot see the task.
	other := register(t, client, "Someone Else", "other@example.com", "other-pass")
	_, err = other.GetTask(t.Context(), created.ID)
	assert.True(t, taskclient.IsNotFound(err), "got %v", err)

	require.NoError(t, session.DeleteTask(t.Context(), created.ID))
	all, err := session.ListTasks(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdminManagesUsers(t *testing.T) {
	client := setupContainer(t)
	admin := login(t, client, adminEmail, adminPassword)

	users, err := admin.ListUsers(t.Context())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(users), 2)

	var johnID string
	for _, u := range users {
		if u.Email == userEmail {
			johnID = u.ID
		}
	}
	require.NotEmpty(t, johnID)

	user := login(t, client, userEmail, userPassword)

	toggled, err := admin.ToggleUser(t.Context(), johnID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	// A disabled account's token no longer authenticates.
	_, err = user.ListTasks(t.Context())
	assert.True(t, taskclient.IsUnauthorized(err), "got %v", err)

	_, err = client.Login(t.Context(), userEmail, userPassword)
	assertStatus(t, err, 400)

	stats, err := admin.Stats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EnabledUsers)
}
