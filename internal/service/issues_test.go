package service

import (
	"context"
	"testing"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIssueHierarchy(t *testing.T) {
	ctx := context.Background()

	t.Run("epic with epic reference is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
		})

		_, err := svc.CreateIssue(ctx, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "bad",
			EpicID: &epic.ID,
		})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("epic never carries parent or sprint reference", func(t *testing.T) {
		svc, _ := newTestService()
		epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: uuid.New(), Type: models.IssueTypeEpic, Title: "epic",
		})
		assert.Nil(t, epic.ParentID)
		assert.Nil(t, epic.EpicID)
		assert.Nil(t, epic.SprintID)
	})

	t.Run("epic with sprint is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		sprint := mustCreateSprint(t, svc, projectID)

		_, err := svc.CreateIssue(ctx, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "bad",
			SprintID: &sprint.ID,
		})
		assert.ErrorIs(t, err, models.ErrEpicNotSprintable)
	})

	t.Run("story under epic parent inherits the epic", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
		})

		story, err := svc.CreateStory(ctx, models.CreateIssueRequest{
			ProjectID: projectID, Title: "story", ParentID: &epic.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, story.EpicID)
		assert.Equal(t, epic.ID, *story.EpicID)
	})

	t.Run("subtask with epic parent is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
		})

		_, err := svc.CreateSubtask(ctx, models.CreateIssueRequest{
			ProjectID: projectID, Title: "sub", ParentID: &epic.ID,
		})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("subtask inherits epic and sprint from parent", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		sprint := mustCreateSprint(t, svc, projectID)
		epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
		})
		story := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeStory, Title: "story",
			ParentID: &epic.ID, SprintID: &sprint.ID,
		})

		sub, err := svc.CreateSubtask(ctx, models.CreateIssueRequest{
			ProjectID: projectID, Title: "sub", ParentID: &story.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, sub.EpicID)
		require.NotNil(t, sub.SprintID)
		assert.Equal(t, epic.ID, *sub.EpicID)
		assert.Equal(t, sprint.ID, *sub.SprintID)
	})

	t.Run("subtask without parent is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.CreateSubtask(ctx, models.CreateIssueRequest{
			ProjectID: uuid.New(), Title: "orphan",
		})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("missing parent reference", func(t *testing.T) {
		svc, _ := newTestService()
		missing := uuid.New()
		_, err := svc.CreateIssue(ctx, models.CreateIssueRequest{
			ProjectID: uuid.New(), Type: models.IssueTypeStory, Title: "story",
			ParentID: &missing,
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("creating into sprint recalculates aggregates", func(t *testing.T) {
		svc, repo := newTestService()
		projectID := uuid.New()
		sprint := mustCreateSprint(t, svc, projectID)

		mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeStory,
			SprintID: &sprint.ID, Points: 8, Status: models.StatusInProgress,
		})

		stored, err := repo.GetSprint(ctx, sprint.ID)
		require.NoError(t, err)
		assert.Equal(t, 8.0, stored.TotalPoints)
		assert.Equal(t, 4.0, stored.CompletedPoints)
	})
}

func TestUpdateIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("status change recalculates sprint", func(t *testing.T) {
		svc, repo := newTestService()
		projectID := uuid.New()
		sprint := mustCreateSprint(t, svc, projectID)
		issue := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeStory,
			SprintID: &sprint.ID, Points: 6, Status: models.StatusTodo,
		})

		done := models.StatusDone
		_, err := svc.UpdateIssue(ctx, issue.ID, models.UpdateIssueRequest{Status: &done})
		require.NoError(t, err)

		stored, err := repo.GetSprint(ctx, sprint.ID)
		require.NoError(t, err)
		assert.Equal(t, 6.0, stored.TotalPoints)
		assert.Equal(t, 6.0, stored.CompletedPoints)
	})

	t.Run("points change recalculates sprint", func(t *testing.T) {
		svc, repo := newTestService()
		projectID := uuid.New()
		sprint := mustCreateSprint(t, svc, projectID)
		issue := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeTask,
			SprintID: &sprint.ID, Points: 2, Status: models.StatusInProgress,
		})

		points := 10.0
		_, err := svc.UpdateIssue(ctx, issue.ID, models.UpdateIssueRequest{Points: &points})
		require.NoError(t, err)

		stored, err := repo.GetSprint(ctx, sprint.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, stored.TotalPoints)
		assert.Equal(t, 5.0, stored.CompletedPoints)
	})

	t.Run("unknown issue", func(t *testing.T) {
		svc, _ := newTestService()
		title := "new"
		_, err := svc.UpdateIssue(ctx, uuid.New(), models.UpdateIssueRequest{Title: &title})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteIssueRecalculates(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	projectID := uuid.New()
	sprint := mustCreateSprint(t, svc, projectID)

	keep := mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeStory,
		SprintID: &sprint.ID, Points: 3, Status: models.StatusDone,
	})
	drop := mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeStory,
		SprintID: &sprint.ID, Points: 5, Status: models.StatusTodo,
	})

	require.NoError(t, svc.DeleteIssue(ctx, drop.ID))

	stored, err := repo.GetSprint(ctx, sprint.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.TotalPoints)
	assert.Equal(t, 3.0, stored.CompletedPoints)

	_, err = repo.GetIssue(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestProjectHierarchy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	projectID := uuid.New()

	epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
	})
	story := mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeStory, Title: "story",
		ParentID: &epic.ID,
	})
	sub := mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeSubtask, Title: "sub",
		ParentID: &story.ID,
	})
	loose := mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeTask, Title: "loose",
	})

	tree, err := svc.ProjectHierarchy(ctx, projectID)
	require.NoError(t, err)

	require.Len(t, tree.Epics, 1)
	assert.Equal(t, epic.ID, tree.Epics[0].Issue.ID)
	require.Len(t, tree.Epics[0].Children, 1)
	assert.Equal(t, story.ID, tree.Epics[0].Children[0].Issue.ID)
	require.Len(t, tree.Epics[0].Children[0].Children, 1)
	assert.Equal(t, sub.ID, tree.Epics[0].Children[0].Children[0].Issue.ID)

	require.Len(t, tree.Unassigned, 1)
	assert.Equal(t, loose.ID, tree.Unassigned[0].Issue.ID)
}
