package task

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
	"github.com/prodhub/backend/pkg/pagination"
)

// fakeTaskRepo is an in-memory TaskRepository keyed by task id. Updates
// write their edge sets into deps in the same call, mirroring the real
// repository's single-transaction contract.
type fakeTaskRepo struct {
	tasks     map[int64]*domain.Task
	deps      *fakeDependencyRepo
	nextID    int64
	updateErr error
	deleteErr error
	deleted   []int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*domain.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) add(t domain.Task) *domain.Task {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	} else if t.ID >= r.nextID {
		r.nextID = t.ID + 1
	}
	stored := t
	r.tasks[stored.ID] = &stored
	return &stored
}

func (r *fakeTaskRepo) GetByID(_ context.Context, ownerID, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) List(_ context.Context, ownerID int64, limit, offset int) ([]domain.Task, error) {
	var ids []int64
	for id, t := range r.tasks {
		if t.UserID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var out []domain.Task
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *r.tasks[id])
	}
	return out, nil
}

func (r *fakeTaskRepo) Count(_ context.Context, ownerID int64) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTaskRepo) ListChildIDs(_ context.Context, parentID int64) ([]int64, error) {
	var ids []int64
	for id, t := range r.tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeTaskRepo) ListSubtasks(_ context.Context, parentID int64) ([]domain.Task, error) {
	ids, _ := r.ListChildIDs(nil, parentID)
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.tasks[id])
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	created := r.add(*t)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	copied := *created
	return &copied, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *domain.Task, edges domain.TaskEdges) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.tasks[t.ID]
	if !ok || stored.UserID != t.UserID {
		return domain.ErrTaskNotFound
	}
	copied := *t
	r.tasks[t.ID] = &copied
	if r.deps != nil {
		if edges.BlockedBy != nil {
			r.deps.blockedBy[t.ID] = *edges.BlockedBy
		}
		if edges.Blocking != nil {
			r.deps.blocking[t.ID] = *edges.Blocking
		}
		if edges.LinkedTasks != nil {
			r.deps.linked[t.ID] = *edges.LinkedTasks
		}
	}
	return nil
}

func (r *fakeTaskRepo) DeleteAll(_ context.Context, ownerID int64, ids []int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, id := range ids {
		if t, ok := r.tasks[id]; ok && t.UserID == ownerID {
			delete(r.tasks, id)
			r.deleted = append(r.deleted, id)
		}
	}
	return nil
}

type fakeProjectRepo struct {
	projects map[int64]*domain.Project
}

func (r *fakeProjectRepo) GetByID(_ context.Context, ownerID, id int64) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.UserID != ownerID {
		return nil, domain.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProjectRepo) List(context.Context, int64, int, int) ([]domain.Project, error) {
	return nil, nil
}

func (r *fakeProjectRepo) Count(context.Context, int64) (int64, error) { return 0, nil }

func (r *fakeProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return p, nil
}

func (r *fakeProjectRepo) Update(context.Context, *domain.Project) error { return nil }

func (r *fakeProjectRepo) Delete(context.Context, int64, int64) error { return nil }

// fakeDependencyRepo serves the stored edge sets. Writes land here through
// fakeTaskRepo.Update, the way the real store commits them together.
type fakeDependencyRepo struct {
	blockedBy map[int64][]int64
	blocking  map[int64][]int64
	linked    map[int64][]int64
}

func newFakeDependencyRepo() *fakeDependencyRepo {
	return &fakeDependencyRepo{
		blockedBy: map[int64][]int64{},
		blocking:  map[int64][]int64{},
		linked:    map[int64][]int64{},
	}
}

func (r *fakeDependencyRepo) BlockedBy(_ context.Context, taskID int64) ([]int64, error) {
	return r.blockedBy[taskID], nil
}

func (r *fakeDependencyRepo) Blocking(_ context.Context, taskID int64) ([]int64, error) {
	return r.blocking[taskID], nil
}

func (r *fakeDependencyRepo) Linked(_ context.Context, taskID int64) ([]int64, error) {
	return r.linked[taskID], nil
}

type fakeBuffer struct {
	taskOps   []string
	taskEdges []domain.TaskEdges
	err       error
}

func (b *fakeBuffer) BufferTask(_ context.Context, operation string, _ *domain.Task, edges domain.TaskEdges) error {
	if b.err != nil {
		return b.err
	}
	b.taskOps = append(b.taskOps, operation)
	b.taskEdges = append(b.taskEdges, edges)
	return nil
}

func (b *fakeBuffer) BufferNotification(context.Context, string, *domain.Notification) error {
	return nil
}

func newTestUseCase() (*UseCase, *fakeTaskRepo, *fakeProjectRepo, *fakeDependencyRepo, *fakeBuffer) {
	tasks := newFakeTaskRepo()
	projects := &fakeProjectRepo{projects: map[int64]*domain.Project{}}
	deps := newFakeDependencyRepo()
	tasks.deps = deps
	buf := &fakeBuffer{}
	return New(tasks, projects, deps, buf, nil), tasks, projects, deps, buf
}

const owner = int64(7)

func TestCreateTask_Defaults(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	created, err := uc.CreateTask(context.Background(), owner, Patch{
		Title: optional.Of("  Buy milk  "),
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.Title != "Buy milk" {
		t.Errorf("title = %q, want %q", created.Title, "Buy milk")
	}
	if created.Priority != 1 {
		t.Errorf("priority = %d, want 1", created.Priority)
	}
	if created.Completed {
		t.Error("new task should not be completed")
	}
	if !created.ReminderEnabled {
		t.Error("reminders should default to enabled")
	}
	if created.ProjectID != nil || created.ParentID != nil {
		t.Error("project/parent should default to nil")
	}
}

func TestCreateTask_TitleRequired(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	cases := []Patch{
		{},
		{Title: optional.Null[string]()},
		{Title: optional.Of("   ")},
	}
	for i, patch := range cases {
		if _, err := uc.CreateTask(context.Background(), owner, patch); !errors.Is(err, domain.ErrTitleRequired) {
			t.Errorf("case %d: err = %v, want %v", i, err, domain.ErrTitleRequired)
		}
	}
}

func TestCreateTask_TitleLengthCountsRunes(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	long := make([]rune, 256)
	for i := range long {
		long[i] = 'é'
	}
	if _, err := uc.CreateTask(context.Background(), owner, Patch{Title: optional.Of(string(long))}); !errors.Is(err, domain.ErrTitleTooLong) {
		t.Errorf("err = %v, want %v", err, domain.ErrTitleTooLong)
	}

	if _, err := uc.CreateTask(context.Background(), owner, Patch{Title: optional.Of(string(long[:255]))}); err != nil {
		t.Errorf("255 runes should be accepted, got %v", err)
	}
}

func TestCreateTask_InvalidDueDate(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	_, err := uc.CreateTask(context.Background(), owner, Patch{
		Title:   optional.Of("x"),
		DueDate: optional.Of("not-a-date"),
	})
	if err == nil || err.Error() != "Invalid due_date format" {
		t.Errorf("err = %v, want Invalid due_date format", err)
	}
}

func TestCreateTask_StartAfterDue(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	_, err := uc.CreateTask(context.Background(), owner, Patch{
		Title:     optional.Of("x"),
		StartDate: optional.Of("2026-02-01"),
		DueDate:   optional.Of("2026-01-01"),
	})
	if !errors.Is(err, domain.ErrStartAfterDue) {
		t.Errorf("err = %v, want %v", err, domain.ErrStartAfterDue)
	}
}

func TestCreateTask_ForeignProjectRejected(t *testing.T) {
	uc, _, projects, _, _ := newTestUseCase()
	projects.projects[3] = &domain.Project{ID: 3, UserID: owner + 1, Name: "theirs"}

	_, err := uc.CreateTask(context.Background(), owner, Patch{
		Title:     optional.Of("x"),
		ProjectID: optional.Of(int64(3)),
	})
	if !errors.Is(err, domain.ErrInvalidProjectID) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidProjectID)
	}
}

func TestCreateTask_ParentMustExist(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	_, err := uc.CreateTask(context.Background(), owner, Patch{
		Title:    optional.Of("x"),
		ParentID: optional.Of(int64(99)),
	})
	if !errors.Is(err, domain.ErrInvalidParentID) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidParentID)
	}
}

func TestUpdateTask_PartialLeavesOtherFields(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "old", Description: "keep", Priority: 4, DueDate: &due})

	detail, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		Title: optional.Of("new"),
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if detail.Task.Title != "new" {
		t.Errorf("title = %q, want %q", detail.Task.Title, "new")
	}
	if detail.Task.Description != "keep" {
		t.Errorf("description = %q, want %q", detail.Task.Description, "keep")
	}
	if detail.Task.Priority != 4 {
		t.Errorf("priority = %d, want 4", detail.Task.Priority)
	}
	if detail.Task.DueDate == nil || !detail.Task.DueDate.Equal(due) {
		t.Errorf("due date changed: %v", detail.Task.DueDate)
	}
}

func TestUpdateTask_EmptyTitleRejected(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "old"})

	_, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		Title: optional.Of("  "),
	})
	if !errors.Is(err, domain.ErrUpdateTitleRequired) {
		t.Errorf("err = %v, want %v", err, domain.ErrUpdateTitleRequired)
	}
}

func TestUpdateTask_NullClearsDueDate(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x", DueDate: &due})

	detail, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		DueDate: optional.Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if detail.Task.DueDate != nil {
		t.Errorf("due date = %v, want nil", detail.Task.DueDate)
	}
}

func TestUpdateTask_DateCrossCheckOnUnrelatedChange(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x", StartDate: &start})

	// The submitted due date lands before the stored start date; the final
	// state check must catch it even though start was not part of the patch.
	_, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		DueDate: optional.Of("2026-09-01"),
	})
	if !errors.Is(err, domain.ErrStartAfterDue) {
		t.Errorf("err = %v, want %v", err, domain.ErrStartAfterDue)
	}
}

func TestUpdateTask_InvalidPriorityType(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x"})

	var patch Patch
	if err := unmarshalPatch(`{"priority": "high"}`, &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err := uc.UpdateTask(context.Background(), owner, 1, patch)
	if !errors.Is(err, domain.ErrInvalidPriority) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidPriority)
	}
}

func TestUpdateTask_WrongOwner(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner + 1, Title: "theirs"})

	_, err := uc.UpdateTask(context.Background(), owner, 1, Patch{Title: optional.Of("mine")})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("err = %v, want %v", err, domain.ErrTaskNotFound)
	}
}

func TestUpdateTask_SelfParentRejected(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x"})

	_, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		ParentID: optional.Of(int64(1)),
	})
	if !errors.Is(err, domain.ErrInvalidParentID) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidParentID)
	}
}

func TestUpdateTask_BuffersWhenStoreDown(t *testing.T) {
	uc, tasks, _, _, buf := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x"})
	tasks.updateErr = errors.New("connection refused")

	detail, err := uc.UpdateTask(context.Background(), owner, 1, Patch{Title: optional.Of("y")})
	if err != nil {
		t.Fatalf("buffered update should not fail: %v", err)
	}
	if len(buf.taskOps) != 1 || buf.taskOps[0] != "update" {
		t.Errorf("buffered ops = %v, want [update]", buf.taskOps)
	}
	if detail.Task.Title != "y" {
		t.Errorf("title = %q, want %q", detail.Task.Title, "y")
	}
}

func TestUpdateTask_BufferedUpdateKeepsDependencies(t *testing.T) {
	uc, tasks, _, _, buf := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "main"})
	tasks.add(domain.Task{ID: 2, UserID: owner, Title: "blocker"})
	tasks.updateErr = errors.New("connection refused")

	detail, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		Title:     optional.Of("renamed"),
		BlockedBy: optional.Of([]int64{2}),
	})
	if err != nil {
		t.Fatalf("buffered update should not fail: %v", err)
	}
	if len(buf.taskEdges) != 1 {
		t.Fatalf("buffered edge sets = %d, want 1", len(buf.taskEdges))
	}
	got := buf.taskEdges[0].BlockedBy
	if got == nil || len(*got) != 1 || (*got)[0] != 2 {
		t.Errorf("buffered blocked_by = %v, want [2]", got)
	}
	if len(detail.BlockedBy) != 1 || detail.BlockedBy[0] != 2 {
		t.Errorf("reported blocked_by = %v, want [2]", detail.BlockedBy)
	}
}

func TestUpdateTask_FailedWriteLeavesDependenciesUntouched(t *testing.T) {
	uc, tasks, _, deps, buf := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "main"})
	tasks.add(domain.Task{ID: 2, UserID: owner, Title: "blocker"})
	deps.blockedBy[1] = []int64{2}
	tasks.updateErr = errors.New("connection refused")
	buf.err = errors.New("buffer full")

	_, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		BlockedBy: optional.Null[[]int64](),
	})
	if err == nil {
		t.Fatal("update should fail when neither store nor buffer accepts it")
	}
	if stored := deps.blockedBy[1]; len(stored) != 1 || stored[0] != 2 {
		t.Errorf("blocked_by = %v, want [2] untouched", stored)
	}
}

func TestUpdateTask_DependencyErrorBeforeReminderError(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x"})

	var patch Patch
	if err := unmarshalPatch(`{"blocked_by": "oops", "reminder_time": "not-a-date"}`, &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err := uc.UpdateTask(context.Background(), owner, 1, patch)
	if !errors.Is(err, domain.ErrBlockedByNotList) {
		t.Errorf("err = %v, want %v", err, domain.ErrBlockedByNotList)
	}
}

func TestUpdateTask_CompletedNullBecomesFalse(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x", Completed: true})

	detail, err := uc.UpdateTask(context.Background(), owner, 1, Patch{
		Completed: optional.Null[bool](),
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if detail.Task.Completed {
		t.Error("completed = true, want false after null")
	}
}

func TestDeleteTask_CascadesSubtree(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	one := int64(1)
	two := int64(2)
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "root"})
	tasks.add(domain.Task{ID: 2, UserID: owner, Title: "child", ParentID: &one})
	tasks.add(domain.Task{ID: 3, UserID: owner, Title: "grandchild", ParentID: &two})
	tasks.add(domain.Task{ID: 4, UserID: owner, Title: "unrelated"})

	if err := uc.DeleteTask(context.Background(), owner, 1); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	sort.Slice(tasks.deleted, func(i, j int) bool { return tasks.deleted[i] < tasks.deleted[j] })
	want := []int64{1, 2, 3}
	if len(tasks.deleted) != len(want) {
		t.Fatalf("deleted = %v, want %v", tasks.deleted, want)
	}
	for i := range want {
		if tasks.deleted[i] != want[i] {
			t.Fatalf("deleted = %v, want %v", tasks.deleted, want)
		}
	}
	if _, ok := tasks.tasks[4]; !ok {
		t.Error("unrelated task should survive")
	}
}

func TestDeleteTask_SurvivesParentCycle(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	one := int64(1)
	two := int64(2)
	// Corrupted chain: 1 -> 2 -> 1. The worklist must terminate.
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "a", ParentID: &two})
	tasks.add(domain.Task{ID: 2, UserID: owner, Title: "b", ParentID: &one})

	if err := uc.DeleteTask(context.Background(), owner, 1); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if len(tasks.tasks) != 0 {
		t.Errorf("remaining tasks = %d, want 0", len(tasks.tasks))
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase()

	if err := uc.DeleteTask(context.Background(), owner, 42); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("err = %v, want %v", err, domain.ErrTaskNotFound)
	}
}

func TestListTasks_PageBeyondEnd(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "only"})

	page, err := uc.ListTasks(context.Background(), owner, pagination.Params{Page: 100, PerPage: 10})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("items = %d, want 0", len(page.Items))
	}
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}
	if page.CurrentPage != 100 {
		t.Errorf("current_page = %d, want 100", page.CurrentPage)
	}
}

func TestListTasks_IncludesSubtasks(t *testing.T) {
	uc, tasks, _, _, _ := newTestUseCase()
	one := int64(1)
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "root"})
	tasks.add(domain.Task{ID: 2, UserID: owner, Title: "child", ParentID: &one})

	page, err := uc.ListTasks(context.Background(), owner, pagination.Params{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	for _, d := range page.Items {
		if d.Task.ID == 1 && len(d.Subtasks) != 1 {
			t.Errorf("root subtasks = %d, want 1", len(d.Subtasks))
		}
	}
}

func TestGetTask_IncludesDependencySets(t *testing.T) {
	uc, tasks, _, deps, _ := newTestUseCase()
	tasks.add(domain.Task{ID: 1, UserID: owner, Title: "x"})
	deps.blockedBy[1] = []int64{5}
	deps.blocking[1] = []int64{6}
	deps.linked[1] = []int64{7}

	detail, err := uc.GetTask(context.Background(), owner, 1)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if len(detail.BlockedBy) != 1 || detail.BlockedBy[0] != 5 {
		t.Errorf("blocked_by = %v, want [5]", detail.BlockedBy)
	}
	if len(detail.Blocking) != 1 || detail.Blocking[0] != 6 {
		t.Errorf("blocking = %v, want [6]", detail.Blocking)
	}
	if len(detail.Linked) != 1 || detail.Linked[0] != 7 {
		t.Errorf("linked = %v, want [7]", detail.Linked)
	}
}
