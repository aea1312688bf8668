package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := domain.ParseRole(" admin ")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, r)

	_, err = domain.ParseRole("root")
	require.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestPrincipal_Active(t *testing.T) {
	p := domain.Principal{Enabled: true, AccountNonExpired: true, AccountNonLocked: true, CredentialsNonExpired: true}
	require.True(t, p.Active())

	for name, mutate := range map[string]func(*domain.Principal){
		"disabled":            func(p *domain.Principal) { p.Enabled = false },
		"expired":             func(p *domain.Principal) { p.AccountNonExpired = false },
		"locked":              func(p *domain.Principal) { p.AccountNonLocked = false },
		"credentials expired": func(p *domain.Principal) { p.CredentialsNonExpired = false },
	} {
		t.Run(name, func(t *testing.T) {
			cp := p
			mutate(&cp)
			require.False(t, cp.Active())
		})
	}
}

func TestTask_SetCompleted(t *testing.T) {
	task := domain.Task{Status: domain.TaskInProgress}

	task.SetCompleted(true)
	require.True(t, task.Completed)
	require.Equal(t, domain.TaskDone, task.Status)

	task.SetCompleted(false)
	require.False(t, task.Completed)
	require.Equal(t, domain.TaskTodo, task.Status)
}

func TestTask_Overdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.True(t, domain.Task{DueDate: &past}.Overdue(now))
	require.False(t, domain.Task{DueDate: &future}.Overdue(now))
	require.False(t, domain.Task{DueDate: &past, Completed: true}.Overdue(now))
	require.False(t, domain.Task{}.Overdue(now))
}

func TestParseTaskStatusAndPriority(t *testing.T) {
	s, err := domain.ParseTaskStatus("in_progress")
	require.NoError(t, err)
	require.Equal(t, domain.TaskInProgress, s)

	_, err = domain.ParseTaskStatus("BLOCKED")
	require.ErrorIs(t, err, domain.ErrUnknownStatus)

	p, err := domain.ParseTaskPriority("Urgent")
	require.NoError(t, err)
	require.Equal(t, domain.PriorityUrgent, p)

	_, err = domain.ParseTaskPriority("CRITICAL")
	require.ErrorIs(t, err, domain.ErrUnknownPriority)
}
