package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
)

func seededStore(t *testing.T) (*Store, Repositories, string) {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	c := &models.Case{Title: "Ruiz c/ Gomez"}
	if err := s.PutCase(ctx, c); err != nil {
		t.Fatal(err)
	}
	return s, s.Repositories(), c.ID
}

func newTask(caseID, date string) *models.Task {
	return &models.Task{
		CaseID:        caseID,
		Workstream:    models.WorkstreamAudit,
		Status:        models.StatusPending,
		Action:        "Revisar honorarios",
		AssigneeID:    "ana",
		ScheduledDate: date,
	}
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s, repos, caseID := seededStore(t)

	boom := errors.New("boom")
	err := s.ExecTx(ctx, func(txCtx context.Context) error {
		if err := repos.Tasks.Create(txCtx, newTask(caseID, "2026-01-01")); err != nil {
			return err
		}
		// visible inside the transaction
		list, _ := repos.Tasks.ListByCase(txCtx, caseID, nil)
		if len(list) != 1 {
			t.Errorf("in-tx list = %d, want 1", len(list))
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx() error = %v, want boom", err)
	}

	list, _ := repos.Tasks.ListByCase(ctx, caseID, nil)
	if len(list) != 0 {
		t.Errorf("rolled back task is visible: %d", len(list))
	}
}

func TestFailAfter(t *testing.T) {
	ctx := context.Background()
	s, repos, caseID := seededStore(t)
	injected := errors.New("injected")

	s.FailAfter("tasks.create", 1, injected)
	if err := repos.Tasks.Create(ctx, newTask(caseID, "2026-01-01")); err != nil {
		t.Fatalf("first create error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := repos.Tasks.Create(ctx, newTask(caseID, "2026-01-02")); !errors.Is(err, injected) {
			t.Fatalf("create %d error = %v, want injected", i+2, err)
		}
	}
	s.ClearFaults()
	if err := repos.Tasks.Create(ctx, newTask(caseID, "2026-01-03")); err != nil {
		t.Fatalf("create after ClearFaults error = %v", err)
	}
}

func TestTaskRepository_UpdateVersion(t *testing.T) {
	ctx := context.Background()
	_, repos, caseID := seededStore(t)

	task := newTask(caseID, "2026-01-01")
	if err := repos.Tasks.Create(ctx, task); err != nil {
		t.Fatal(err)
	}

	task.Status = models.StatusImportant
	task.Workstream = models.WorkstreamProcedural
	if err := repos.Tasks.Update(ctx, task, 1); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if task.Version != 2 || task.Workstream != models.WorkstreamAudit {
		t.Errorf("after update: version %d, workstream %s", task.Version, task.Workstream)
	}

	if err := repos.Tasks.Update(ctx, task, 1); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("stale update error = %v, want ErrConflict", err)
	}
}

func TestTaskRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	_, repos, caseID := seededStore(t)

	at := func(s string) *string { return &s }
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []*models.Task{
		newTask(caseID, "2026-02-01"),
		newTask(caseID, "2026-01-15"),
		newTask(caseID, "2026-01-15"),
		newTask(caseID, "2026-01-15"),
	}
	tasks[0].Action = "late"
	tasks[1].Action = "all day"
	tasks[2].Action = "afternoon"
	tasks[2].ScheduledTime = at("15:00")
	tasks[3].Action = "morning"
	tasks[3].ScheduledTime = at("09:00")
	for i, task := range tasks {
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repos.Tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repos.Tasks.ListByCase(ctx, caseID, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"morning", "afternoon", "all day", "late"}
	for i, w := range want {
		if list[i].Action != w {
			t.Errorf("[%d] = %s, want %s", i, list[i].Action, w)
		}
	}
}

func TestTaskRepository_ClaimCycleKey(t *testing.T) {
	ctx := context.Background()
	_, repos, caseID := seededStore(t)
	task := newTask(caseID, "2026-01-01")
	if err := repos.Tasks.Create(ctx, task); err != nil {
		t.Fatal(err)
	}

	first, err := repos.Tasks.ClaimCycleKey(ctx, task.ID, "k")
	if err != nil || !first {
		t.Fatalf("first claim = %v, %v", first, err)
	}
	again, err := repos.Tasks.ClaimCycleKey(ctx, task.ID, "k")
	if err != nil || again {
		t.Errorf("repeat claim = %v, %v", again, err)
	}
	if _, err := repos.Tasks.ClaimCycleKey(ctx, "missing", "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown task error = %v", err)
	}
}
