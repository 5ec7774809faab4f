package hierarchy

import (
	"testing"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssue(t models.IssueType) *models.Issue {
	return &models.Issue{
		ID:       uuid.New(),
		Type:     t,
		Priority: models.PriorityMedium,
	}
}

func TestResolveEpic(t *testing.T) {
	t.Run("standalone epic is accepted", func(t *testing.T) {
		p, err := Resolve(Input{Type: models.IssueTypeEpic})
		require.NoError(t, err)
		assert.Nil(t, p.EpicID)
		assert.Nil(t, p.SprintID)
	})

	t.Run("epic with parent is rejected", func(t *testing.T) {
		_, err := Resolve(Input{Type: models.IssueTypeEpic, Parent: newIssue(models.IssueTypeEpic)})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("epic with epic reference is rejected", func(t *testing.T) {
		_, err := Resolve(Input{Type: models.IssueTypeEpic, Epic: newIssue(models.IssueTypeEpic)})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("epic with sprint is rejected unconditionally", func(t *testing.T) {
		sprintID := uuid.New()
		_, err := Resolve(Input{Type: models.IssueTypeEpic, SprintID: &sprintID})
		assert.ErrorIs(t, err, models.ErrEpicNotSprintable)
	})
}

func TestResolveStory(t *testing.T) {
	t.Run("parent epic overrides explicit epic reference", func(t *testing.T) {
		parent := newIssue(models.IssueTypeEpic)
		other := newIssue(models.IssueTypeEpic)
		p, err := Resolve(Input{Type: models.IssueTypeStory, Parent: parent, Epic: other})
		require.NoError(t, err)
		require.NotNil(t, p.EpicID)
		assert.Equal(t, parent.ID, *p.EpicID)
	})

	t.Run("story directly under epic without parent", func(t *testing.T) {
		epic := newIssue(models.IssueTypeEpic)
		p, err := Resolve(Input{Type: models.IssueTypeTask, Epic: epic})
		require.NoError(t, err)
		require.NotNil(t, p.EpicID)
		assert.Equal(t, epic.ID, *p.EpicID)
	})

	t.Run("non-epic parent is rejected", func(t *testing.T) {
		for _, pt := range []models.IssueType{models.IssueTypeStory, models.IssueTypeTask, models.IssueTypeBug, models.IssueTypeSubtask} {
			_, err := Resolve(Input{Type: models.IssueTypeBug, Parent: newIssue(pt)})
			assert.ErrorIs(t, err, models.ErrInvalidHierarchy, "parent type %s", pt)
		}
	})

	t.Run("epic reference to non-epic is rejected", func(t *testing.T) {
		_, err := Resolve(Input{Type: models.IssueTypeStory, Epic: newIssue(models.IssueTypeTask)})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("requested sprint passes through", func(t *testing.T) {
		sprintID := uuid.New()
		p, err := Resolve(Input{Type: models.IssueTypeStory, SprintID: &sprintID})
		require.NoError(t, err)
		require.NotNil(t, p.SprintID)
		assert.Equal(t, sprintID, *p.SprintID)
	})
}

func TestResolveSubtask(t *testing.T) {
	t.Run("parent is mandatory", func(t *testing.T) {
		_, err := Resolve(Input{Type: models.IssueTypeSubtask})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("epic parent is rejected", func(t *testing.T) {
		_, err := Resolve(Input{Type: models.IssueTypeSubtask, Parent: newIssue(models.IssueTypeEpic)})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("subtask parent is rejected", func(t *testing.T) {
		_, err := Resolve(Input{Type: models.IssueTypeSubtask, Parent: newIssue(models.IssueTypeSubtask)})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("epic and sprint are inherited from parent", func(t *testing.T) {
		epicID := uuid.New()
		sprintID := uuid.New()
		parent := newIssue(models.IssueTypeStory)
		parent.EpicID = &epicID
		parent.SprintID = &sprintID

		p, err := Resolve(Input{Type: models.IssueTypeSubtask, Parent: parent})
		require.NoError(t, err)
		require.NotNil(t, p.EpicID)
		require.NotNil(t, p.SprintID)
		assert.Equal(t, epicID, *p.EpicID)
		assert.Equal(t, sprintID, *p.SprintID)
	})

	t.Run("assignee and priority default from parent when omitted", func(t *testing.T) {
		assignee := uuid.New()
		parent := newIssue(models.IssueTypeTask)
		parent.AssigneeID = &assignee
		parent.Priority = models.PriorityHigh

		p, err := Resolve(Input{Type: models.IssueTypeSubtask, Parent: parent})
		require.NoError(t, err)
		require.NotNil(t, p.AssigneeID)
		assert.Equal(t, assignee, *p.AssigneeID)
		assert.Equal(t, models.PriorityHigh, p.Priority)
	})

	t.Run("explicit assignee and priority win over parent", func(t *testing.T) {
		parentAssignee := uuid.New()
		own := uuid.New()
		parent := newIssue(models.IssueTypeBug)
		parent.AssigneeID = &parentAssignee
		parent.Priority = models.PriorityLow

		p, err := Resolve(Input{
			Type:       models.IssueTypeSubtask,
			Parent:     parent,
			AssigneeID: &own,
			Priority:   models.PriorityCritical,
		})
		require.NoError(t, err)
		assert.Equal(t, own, *p.AssigneeID)
		assert.Equal(t, models.PriorityCritical, p.Priority)
	})
}

func TestResolveUnknownType(t *testing.T) {
	_, err := Resolve(Input{Type: "MILESTONE"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
