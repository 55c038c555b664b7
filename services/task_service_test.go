package services

import (
	"sync"
	"testing"
	"time"

	"focuslist/focuslist/models"
	"focuslist/focuslist/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_DefaultsAndPositions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	first, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "  Write report  "})
	require.NoError(t, err)
	second, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Call mum", Urgency: models.UrgencyHigh})
	require.NoError(t, err)

	assert.Equal(t, "Write report", first.Title)
	assert.Equal(t, owner, first.UserID)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.Equal(t, models.EffortModerate, first.Effort)
	assert.Equal(t, models.UrgencyMedium, first.Urgency)
	assert.Equal(t, models.RecurrenceNone, first.RecurrenceType)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, models.UrgencyHigh, second.Urgency)

	assert.Equal(t, int64(2), env.count(t, &models.Event{}, "event = ?", "task.created"))
}

func TestCreateTask_ValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	_, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "   "})
	require.ErrorIs(t, err, ErrValidation)
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Fields, "title")

	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Run", Duration: ptr(0)})
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Fields, "duration")

	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Run", Effort: "HUGE"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{
		Title:    "Run",
		Location: &models.Location{Lat: ptr(120.0)},
	})
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Fields, "location.lat")

	assert.Equal(t, int64(0), env.count(t, &models.Task{}, "1 = 1"))
}

func TestCreateTask_HierarchyRules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	root := testutils.CreateTask(t, env.db, owner, "Root")
	child := testutils.CreateTask(t, env.db, owner, "Child", testutils.WithParent(root))
	recurring := testutils.CreateTask(t, env.db, owner, "Gym", testutils.WithRecurrence(models.RecurrenceWeekly))

	_, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Grandchild", ParentID: &child.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Under recurring", ParentID: &recurring.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{
		Title:          "Recurring subtask",
		ParentID:       &root.ID,
		RecurrenceType: models.RecurrenceDaily,
	})
	assert.ErrorIs(t, err, ErrValidation)

	missing := uuid.New()
	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.ErrorIs(t, err, ErrValidation)

	sub, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Second child", ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, &root.ID, sub.ParentID)
	assert.Equal(t, 1, sub.Position)
}

func TestCreateTask_SubtaskOnSharedTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")
	viewer := env.user(t, "viewer@example.com")
	stranger := env.user(t, "stranger@example.com")

	root := testutils.CreateTask(t, env.db, owner, "Shared")
	testutils.AddCollaborator(t, env.db, root.ID, editor, true)
	testutils.AddCollaborator(t, env.db, root.ID, viewer, false)

	sub, err := env.tasks.CreateTask(env.db, editor, CreateTaskInput{Title: "Editor step", ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, owner, sub.UserID)

	_, err = env.tasks.CreateTask(env.db, viewer, CreateTaskInput{Title: "Viewer step", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.tasks.CreateTask(env.db, stranger, CreateTaskInput{Title: "Stranger step", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrParentNotFound)

	category, err := env.categories.CreateCategory(env.db, editor, CategoryInput{Name: "Mine", Color: "#fff"})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(env.db, editor, CreateTaskInput{
		Title:      "Categorised step",
		ParentID:   &root.ID,
		CategoryID: &category.ID,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateTask_CategoryMustBelongToActor(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	other := env.user(t, "other@example.com")

	theirs, err := env.categories.CreateCategory(env.db, other, CategoryInput{Name: "Theirs", Color: "#112233"})
	require.NoError(t, err)
	mine, err := env.categories.CreateCategory(env.db, owner, CategoryInput{Name: "Mine", Color: "#112233"})
	require.NoError(t, err)

	_, err = env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Task", CategoryID: &theirs.ID})
	assert.ErrorIs(t, err, ErrValidation)

	task, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "Task", CategoryID: &mine.ID})
	require.NoError(t, err)
	assert.Equal(t, &mine.ID, task.CategoryID)
}

func TestSetTaskStatus_HierarchyGating(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	a, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "A"})
	require.NoError(t, err)
	b, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "B", ParentID: &a.ID})
	require.NoError(t, err)

	_, err = env.tasks.SetTaskStatus(env.db, owner, a.ID, models.StatusInProgress)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, ErrSubtasksIncomplete, err)
	assert.Equal(t, models.StatusPending, testutils.TaskStatus(t, env.db, a.ID))

	_, err = env.tasks.SetTaskStatus(env.db, owner, a.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.tasks.SetTaskStatus(env.db, owner, b.ID, models.StatusCompleted)
	require.NoError(t, err)

	started, err := env.tasks.SetTaskStatus(env.db, owner, a.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)
}

func TestSetTaskStatus_PendingAllowedWithOpenSubtasks(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	parent := testutils.CreateTask(t, env.db, owner, "Parent", testutils.WithStatus(models.StatusCompleted))
	testutils.CreateTask(t, env.db, owner, "Child", testutils.WithParent(parent))

	task, err := env.tasks.SetTaskStatus(env.db, owner, parent.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestSetTaskStatus_SingleActiveTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	a, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "A"})
	require.NoError(t, err)
	_, err = env.tasks.SetTaskStatus(env.db, owner, a.ID, models.StatusInProgress)
	require.NoError(t, err)

	c, err := env.tasks.CreateTask(env.db, owner, CreateTaskInput{Title: "C"})
	require.NoError(t, err)
	_, err = env.tasks.SetTaskStatus(env.db, owner, c.ID, models.StatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, testutils.TaskStatus(t, env.db, a.ID))
	assert.Equal(t, models.StatusInProgress, testutils.TaskStatus(t, env.db, c.ID))
	assert.Equal(t, int64(1), env.count(t, &models.Task{}, "user_id = ? AND status = ?", owner, models.StatusInProgress))

	deferred := env.count(t, &models.Event{}, "event = ? AND data LIKE ?", "task.status_changed", "%deferred%")
	assert.Equal(t, int64(1), deferred)
}

func TestSetTaskStatus_ConcurrentStarts(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")

	const starters = 8
	ids := make([]uuid.UUID, starters)
	for i := range ids {
		ids[i] = testutils.CreateTask(t, env.db, owner, "Task").ID
	}

	var wg sync.WaitGroup
	errs := make([]error, starters)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = env.tasks.SetTaskStatus(env.db, owner, id, models.StatusInProgress)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrStatusChanged)
		}
	}
	assert.Equal(t, int64(1), env.count(t, &models.Task{}, "user_id = ? AND status = ?", owner, models.StatusInProgress))
}

func TestSetTaskStatus_DeferralIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")

	shared := testutils.CreateTask(t, env.db, owner, "Shared")
	testutils.AddCollaborator(t, env.db, shared.ID, editor, true)
	ownerActive := testutils.CreateTask(t, env.db, owner, "Owner active", testutils.WithStatus(models.StatusInProgress))
	editorActive := testutils.CreateTask(t, env.db, editor, "Editor active", testutils.WithStatus(models.StatusInProgress))

	_, err := env.tasks.SetTaskStatus(env.db, editor, shared.ID, models.StatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, testutils.TaskStatus(t, env.db, shared.ID))
	assert.Equal(t, models.StatusPending, testutils.TaskStatus(t, env.db, ownerActive.ID))
	assert.Equal(t, models.StatusInProgress, testutils.TaskStatus(t, env.db, editorActive.ID))
}

func TestSetTaskStatus_CompletedAtLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	task := testutils.CreateTask(t, env.db, owner, "Task")

	completed, err := env.tasks.SetTaskStatus(env.db, owner, task.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.WithinDuration(t, time.Now(), *completed.CompletedAt, time.Minute)

	// Same status again is a no-op.
	again, err := env.tasks.SetTaskStatus(env.db, owner, task.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, again.Status)

	reverted, err := env.tasks.SetTaskStatus(env.db, owner, task.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Nil(t, reverted.CompletedAt)

	restarted, err := env.tasks.SetTaskStatus(env.db, owner, task.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, restarted.CompletedAt)
}

func TestSetTaskStatus_RejectsDeferredAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	task := testutils.CreateTask(t, env.db, owner, "Task")

	_, err := env.tasks.SetTaskStatus(env.db, owner, task.ID, models.StatusDeferred)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.SetTaskStatus(env.db, owner, task.ID, models.TaskStatus("DONE"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetTaskStatus_AuthorizationBoundary(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")
	viewer := env.user(t, "viewer@example.com")
	stranger := env.user(t, "stranger@example.com")

	task := testutils.CreateTask(t, env.db, owner, "Task")
	testutils.AddCollaborator(t, env.db, task.ID, editor, true)
	testutils.AddCollaborator(t, env.db, task.ID, viewer, false)

	_, err := env.tasks.SetTaskStatus(env.db, viewer, task.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.tasks.SetTaskStatus(env.db, stranger, task.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.tasks.SetTaskStatus(env.db, editor, task.ID, models.StatusCompleted)
	assert.NoError(t, err)

	_, err = env.tasks.SetTaskStatus(env.db, owner, uuid.New(), models.StatusCompleted)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSetTaskStatus_SubtaskInheritsParentCollaborators(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")

	parent := testutils.CreateTask(t, env.db, owner, "Parent")
	child := testutils.CreateTask(t, env.db, owner, "Child", testutils.WithParent(parent))
	testutils.AddCollaborator(t, env.db, parent.ID, editor, true)

	_, err := env.tasks.SetTaskStatus(env.db, editor, child.ID, models.StatusCompleted)
	require.NoError(t, err)
}

func TestSetTaskStatus_RecurringSpawnsNextOccurrence(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	deadline := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := testutils.CreateTask(t, env.db, owner, "Water plants",
		testutils.WithRecurrence(models.RecurrenceWeekly),
		testutils.WithDeadline(deadline),
		testutils.WithDuration(10))

	completed, err := env.tasks.SetTaskStatus(env.db, owner, task.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.RecurrenceNone, completed.RecurrenceType)

	var next models.Task
	require.NoError(t, env.db.DB.Where("id <> ? AND title = ?", task.ID, "Water plants").First(&next).Error)
	assert.Equal(t, models.StatusPending, next.Status)
	assert.Equal(t, models.RecurrenceWeekly, next.RecurrenceType)
	require.NotNil(t, next.Deadline)
	assert.True(t, deadline.AddDate(0, 0, 7).Equal(*next.Deadline))
	require.NotNil(t, next.Duration)
	assert.Equal(t, 10, *next.Duration)
	assert.Nil(t, next.CompletedAt)
}

func TestSetTaskStatus_NotifiesOtherParticipants(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")
	viewer := env.user(t, "viewer@example.com")

	task := testutils.CreateTask(t, env.db, owner, "Plan trip")
	testutils.AddCollaborator(t, env.db, task.ID, editor, true)
	testutils.AddCollaborator(t, env.db, task.ID, viewer, false)

	_, err := env.tasks.SetTaskStatus(env.db, editor, task.ID, models.StatusCompleted)
	require.NoError(t, err)

	ownerNotes := env.notificationsFor(t, owner)
	require.Len(t, ownerNotes, 1)
	assert.Equal(t, models.NotificationTaskCompleted, ownerNotes[0].Type)
	assert.Equal(t, &task.ID, ownerNotes[0].TaskID)
	assert.Contains(t, ownerNotes[0].Message, "Plan trip")

	assert.Len(t, env.notificationsFor(t, viewer), 1)
	assert.Empty(t, env.notificationsFor(t, editor))

	published := env.producer.Published()
	require.Len(t, published, 2)
	subjects := []string{published[0].Subject, published[1].Subject}
	assert.Contains(t, subjects, "notifications."+owner.String())
	assert.Contains(t, subjects, "notifications."+viewer.String())
}

func TestUpdateTask_PatchSemantics(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	task := testutils.CreateTask(t, env.db, owner, "Task", testutils.WithDuration(30))
	require.NoError(t, env.db.DB.Model(&models.Task{}).Where("id = ?", task.ID).Update("body", "keep me").Error)

	updated, err := env.tasks.UpdateTask(env.db, owner, task.ID, TaskPatch{
		Title:       ptr(" Renamed "),
		DurationSet: true,
		Location:    &models.Location{City: ptr("Lisbon")},
		LocationSet: true,
		Urgency:     ptr(models.UrgencyHigh),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Body)
	assert.Nil(t, updated.Duration)
	require.NotNil(t, updated.Location.City)
	assert.Equal(t, "Lisbon", *updated.Location.City)
	assert.Equal(t, models.UrgencyHigh, updated.Urgency)
	assert.Equal(t, models.EffortModerate, updated.Effort)

	cleared, err := env.tasks.UpdateTask(env.db, owner, task.ID, TaskPatch{LocationSet: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Location.City)

	_, err = env.tasks.UpdateTask(env.db, owner, task.ID, TaskPatch{Title: ptr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.UpdateTask(env.db, owner, task.ID, TaskPatch{Effort: ptr(models.Effort("HUGE"))})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateTask_EditorRestrictions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")
	viewer := env.user(t, "viewer@example.com")

	task := testutils.CreateTask(t, env.db, owner, "Task")
	other := testutils.CreateTask(t, env.db, owner, "Other")
	testutils.AddCollaborator(t, env.db, task.ID, editor, true)
	testutils.AddCollaborator(t, env.db, task.ID, viewer, false)
	category, err := env.categories.CreateCategory(env.db, owner, CategoryInput{Name: "Work", Color: "#3B82F6"})
	require.NoError(t, err)

	updated, err := env.tasks.UpdateTask(env.db, editor, task.ID, TaskPatch{Body: ptr("notes")})
	require.NoError(t, err)
	assert.Equal(t, "notes", updated.Body)

	_, err = env.tasks.UpdateTask(env.db, editor, task.ID, TaskPatch{CategoryID: &category.ID, CategoryIDSet: true})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.tasks.UpdateTask(env.db, editor, task.ID, TaskPatch{ParentID: &other.ID, ParentIDSet: true})
	assert.ErrorIs(t, err, ErrForbidden)

	// A nested parent is a validation failure whoever asks.
	otherChild := testutils.CreateTask(t, env.db, owner, "Other child", testutils.WithParent(other))
	_, err = env.tasks.UpdateTask(env.db, editor, task.ID, TaskPatch{ParentID: &otherChild.ID, ParentIDSet: true})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, env.loadTask(t, task.ID).ParentID)

	_, err = env.tasks.UpdateTask(env.db, viewer, task.ID, TaskPatch{Body: ptr("nope")})
	assert.ErrorIs(t, err, ErrForbidden)

	moved, err := env.tasks.UpdateTask(env.db, owner, task.ID, TaskPatch{CategoryID: &category.ID, CategoryIDSet: true})
	require.NoError(t, err)
	assert.Equal(t, &category.ID, moved.CategoryID)

	uncategorised, err := env.tasks.UpdateTask(env.db, owner, task.ID, TaskPatch{CategoryIDSet: true})
	require.NoError(t, err)
	assert.Nil(t, uncategorised.CategoryID)
}

func TestUpdateTask_HierarchyAndRecurrence(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	stranger := env.user(t, "stranger@example.com")

	root := testutils.CreateTask(t, env.db, owner, "Root")
	child := testutils.CreateTask(t, env.db, owner, "Child", testutils.WithParent(root))
	loose := testutils.CreateTask(t, env.db, owner, "Loose")
	recurring := testutils.CreateTask(t, env.db, owner, "Recurring", testutils.WithRecurrence(models.RecurrenceDaily))
	foreign := testutils.CreateTask(t, env.db, stranger, "Foreign")

	cases := []struct {
		name  string
		id    uuid.UUID
		patch TaskPatch
	}{
		{"own parent", loose.ID, TaskPatch{ParentID: &loose.ID, ParentIDSet: true}},
		{"nested parent", loose.ID, TaskPatch{ParentID: &child.ID, ParentIDSet: true}},
		{"parent with children", root.ID, TaskPatch{ParentID: &loose.ID, ParentIDSet: true}},
		{"recurring parent", loose.ID, TaskPatch{ParentID: &recurring.ID, ParentIDSet: true}},
		{"recurring becomes subtask", recurring.ID, TaskPatch{ParentID: &loose.ID, ParentIDSet: true}},
		{"foreign parent", loose.ID, TaskPatch{ParentID: &foreign.ID, ParentIDSet: true}},
		{"subtask recurrence", child.ID, TaskPatch{RecurrenceType: ptr(models.RecurrenceDaily)}},
		{"parent recurrence", root.ID, TaskPatch{RecurrenceType: ptr(models.RecurrenceMonthly)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.tasks.UpdateTask(env.db, owner, tc.id, tc.patch)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	moved, err := env.tasks.UpdateTask(env.db, owner, loose.ID, TaskPatch{ParentID: &root.ID, ParentIDSet: true})
	require.NoError(t, err)
	assert.Equal(t, &root.ID, moved.ParentID)
	assert.Equal(t, 1, moved.Position)

	promoted, err := env.tasks.UpdateTask(env.db, owner, loose.ID, TaskPatch{ParentIDSet: true})
	require.NoError(t, err)
	assert.Nil(t, promoted.ParentID)

	repeating, err := env.tasks.UpdateTask(env.db, owner, loose.ID, TaskPatch{RecurrenceType: ptr(models.RecurrenceYearly)})
	require.NoError(t, err)
	assert.Equal(t, models.RecurrenceYearly, repeating.RecurrenceType)
}

func TestDeleteTask_Cascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")

	parent := testutils.CreateTask(t, env.db, owner, "Parent")
	child := testutils.CreateTask(t, env.db, owner, "Child", testutils.WithParent(parent))
	unrelated := testutils.CreateTask(t, env.db, owner, "Unrelated")
	testutils.AddCollaborator(t, env.db, parent.ID, editor, true)
	_, err := env.invites.CreateInvite(env.db, owner, parent.ID, false)
	require.NoError(t, err)
	env.notifications.Dispatch(env.db, editor, models.NotificationTaskShared, "Shared", "hi", &child.ID)

	err = env.tasks.DeleteTask(env.db, editor, parent.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.tasks.DeleteTask(env.db, owner, parent.ID))

	assert.Equal(t, int64(0), env.count(t, &models.Task{}, "id IN ?", []uuid.UUID{parent.ID, child.ID}))
	assert.Equal(t, int64(1), env.count(t, &models.Task{}, "id = ?", unrelated.ID))
	assert.Equal(t, int64(0), env.count(t, &models.TaskCollaborator{}, "1 = 1"))
	assert.Equal(t, int64(0), env.count(t, &models.TaskInvite{}, "1 = 1"))

	notes := env.notificationsFor(t, editor)
	require.Len(t, notes, 1)
	assert.Nil(t, notes[0].TaskID)

	err = env.tasks.DeleteTask(env.db, owner, parent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTaskById_IncludesSubtasks(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	viewer := env.user(t, "viewer@example.com")
	stranger := env.user(t, "stranger@example.com")

	parent := testutils.CreateTask(t, env.db, owner, "Parent")
	testutils.CreateTask(t, env.db, owner, "Child", testutils.WithParent(parent))
	testutils.AddCollaborator(t, env.db, parent.ID, viewer, false)

	task, err := env.tasks.GetTaskById(env.db, viewer, parent.ID)
	require.NoError(t, err)
	require.Len(t, task.Children, 1)
	assert.Equal(t, "Child", task.Children[0].Title)
	require.Len(t, task.Collaborators, 1)

	_, err = env.tasks.GetTaskById(env.db, stranger, parent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTasks_VisibilityAndFilters(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	collaborator := env.user(t, "collab@example.com")
	stranger := env.user(t, "stranger@example.com")

	shared := testutils.CreateTask(t, env.db, owner, "Shared plan")
	sharedChild := testutils.CreateTask(t, env.db, owner, "Shared step", testutils.WithParent(shared))
	private := testutils.CreateTask(t, env.db, owner, "Private errand", testutils.WithStatus(models.StatusCompleted))
	own := testutils.CreateTask(t, env.db, collaborator, "Own PLAN", testutils.WithEffort(models.EffortLow))
	testutils.AddCollaborator(t, env.db, shared.ID, collaborator, false)

	ids := func(tasks []models.Task) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.ID)
		}
		return out
	}

	all, err := env.tasks.GetTasks(env.db, owner, TaskFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{shared.ID, sharedChild.ID, private.ID}, ids(all))

	visible, err := env.tasks.GetTasks(env.db, collaborator, TaskFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{shared.ID, sharedChild.ID, own.ID}, ids(visible))

	none, err := env.tasks.GetTasks(env.db, stranger, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)

	roots, err := env.tasks.GetTasks(env.db, collaborator, TaskFilter{RootOnly: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{shared.ID, own.ID}, ids(roots))

	children, err := env.tasks.GetTasks(env.db, collaborator, TaskFilter{ParentID: &shared.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{sharedChild.ID}, ids(children))

	searched, err := env.tasks.GetTasks(env.db, collaborator, TaskFilter{Search: "plan"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{shared.ID, own.ID}, ids(searched))

	completed, err := env.tasks.GetTasks(env.db, owner, TaskFilter{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{private.ID}, ids(completed))

	low, err := env.tasks.GetTasks(env.db, collaborator, TaskFilter{Effort: ptr(models.EffortLow)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{own.ID}, ids(low))

	_, err = env.tasks.GetTasks(env.db, owner, TaskFilter{Status: ptr(models.TaskStatus("LATER"))})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReorderTasks(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com")
	editor := env.user(t, "editor@example.com")

	a := testutils.CreateTask(t, env.db, owner, "A")
	b := testutils.CreateTask(t, env.db, owner, "B")
	c := testutils.CreateTask(t, env.db, owner, "C")
	testutils.AddCollaborator(t, env.db, a.ID, editor, true)

	require.NoError(t, env.tasks.ReorderTasks(env.db, owner, []uuid.UUID{c.ID, a.ID, b.ID}))

	tasks, err := env.tasks.GetTasks(env.db, owner, TaskFilter{RootOnly: true})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})

	err = env.tasks.ReorderTasks(env.db, editor, []uuid.UUID{a.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.tasks.ReorderTasks(env.db, owner, []uuid.UUID{a.ID, a.ID})
	assert.ErrorIs(t, err, ErrValidation)

	err = env.tasks.ReorderTasks(env.db, owner, nil)
	assert.ErrorIs(t, err, ErrValidation)
}
