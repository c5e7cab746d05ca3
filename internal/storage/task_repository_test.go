package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/media-tracker/backend/internal/storage/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func testProperty(t *testing.T, db *DB) *models.Property {
	t.Helper()
	p := &models.Property{Name: "Lakeshore Cabin", Enabled: true}
	if err := NewPropertyRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("creating property: %v", err)
	}
	return p
}

func TestTaskCreateAndGet(t *testing.T) {
	db := testDB(t)
	prop := testProperty(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	photographer := "Dana"
	task := &models.Task{
		PropertyID:           prop.ID,
		Title:                "Summer refresh",
		MediaType:            models.MediaTypePhotos,
		Stage:                "Created",
		AssignedPhotographer: &photographer,
		AssignedEditors:      []string{"Max", "Iris"},
	}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if task.ID == "" {
		t.Fatal("task ID not generated")
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("getting task: %v", err)
	}
	if got == nil {
		t.Fatal("task not found after create")
	}
	if got.Title != "Summer refresh" || got.MediaType != models.MediaTypePhotos {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.AssignedPhotographer == nil || *got.AssignedPhotographer != "Dana" {
		t.Fatalf("photographer = %v", got.AssignedPhotographer)
	}
	if len(got.AssignedEditors) != 2 || got.AssignedEditors[0] != "Max" {
		t.Fatalf("editors = %v", got.AssignedEditors)
	}
	if !got.ShootDate.IsZero() {
		t.Fatalf("shoot date = %+v, want unset", got.ShootDate)
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("getting missing task: %v", err)
	}
	if missing != nil {
		t.Fatal("missing task returned a row")
	}
}

func TestTaskShootDateRoundTrip(t *testing.T) {
	db := testDB(t)
	prop := testProperty(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := &models.Task{
		PropertyID: prop.ID,
		Title:      "Single day",
		MediaType:  models.MediaTypePhotos,
		Stage:      "Scheduling",
		ShootDate:  models.ShootDate{Kind: models.ShootDateSingle, Start: "2025-06-10"},
	}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("creating task: %v", err)
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("getting task: %v", err)
	}
	if got.ShootDate.Kind != models.ShootDateSingle || got.ShootDate.Start != "2025-06-10" {
		t.Fatalf("single day round trip = %+v", got.ShootDate)
	}

	got.ShootDate = models.ShootDate{Kind: models.ShootDateRange, Start: "2025-06-10", End: "2025-06-12"}
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("updating task: %v", err)
	}

	got, err = repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("getting task: %v", err)
	}
	if got.ShootDate.Kind != models.ShootDateRange || got.ShootDate.End != "2025-06-12" {
		t.Fatalf("range round trip = %+v", got.ShootDate)
	}

	// Clearing the date nulls both columns.
	got.ShootDate = models.ShootDate{}
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("updating task: %v", err)
	}
	got, err = repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("getting task: %v", err)
	}
	if !got.ShootDate.IsZero() {
		t.Fatalf("cleared shoot date = %+v", got.ShootDate)
	}
}

func TestTaskListScheduledByProperty(t *testing.T) {
	db := testDB(t)
	prop := testProperty(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	for _, tc := range []struct {
		title string
		date  models.ShootDate
	}{
		{"later", models.ShootDate{Kind: models.ShootDateSingle, Start: "2025-07-01"}},
		{"unscheduled", models.ShootDate{}},
		{"sooner", models.ShootDate{Kind: models.ShootDateSingle, Start: "2025-06-01"}},
	} {
		task := &models.Task{PropertyID: prop.ID, Title: tc.title, MediaType: models.MediaTypePhotos, Stage: "Created", ShootDate: tc.date}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("creating task: %v", err)
		}
	}

	scheduled, err := repo.ListScheduledByProperty(ctx, prop.ID)
	if err != nil {
		t.Fatalf("listing scheduled tasks: %v", err)
	}
	if len(scheduled) != 2 {
		t.Fatalf("scheduled count = %d, want 2", len(scheduled))
	}
	if scheduled[0].Title != "sooner" || scheduled[1].Title != "later" {
		t.Fatalf("order = %s, %s; want sooner, later", scheduled[0].Title, scheduled[1].Title)
	}
}

func TestTaskLogAppendOnly(t *testing.T) {
	db := testDB(t)
	prop := testProperty(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := &models.Task{PropertyID: prop.ID, Title: "Logged", MediaType: models.MediaTypePhotos, Stage: "Created"}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("creating task: %v", err)
	}

	entries := []models.TaskLogEntry{
		{TaskID: task.ID, Action: models.LogActionCreated},
		{TaskID: task.ID, Action: models.LogActionStageChanged, Detail: "Created -> Scheduling"},
	}
	for i := range entries {
		if err := repo.AppendLog(ctx, &entries[i]); err != nil {
			t.Fatalf("appending log: %v", err)
		}
	}

	log, err := repo.ListLog(ctx, task.ID)
	if err != nil {
		t.Fatalf("listing log: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("log count = %d, want 2", len(log))
	}
	if log[0].Action != models.LogActionCreated || log[1].Detail != "Created -> Scheduling" {
		t.Fatalf("log order = %+v", log)
	}
}

func TestSettingsRepository(t *testing.T) {
	db := testDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	// Seeded defaults from the initial migration.
	if got := repo.GetInt(ctx, SettingTurnGapHours, 99); got != 8 {
		t.Fatalf("seeded turn gap = %d, want 8", got)
	}

	if err := repo.Set(ctx, SettingTurnGapHours, "4"); err != nil {
		t.Fatalf("setting value: %v", err)
	}
	if got := repo.GetInt(ctx, SettingTurnGapHours, 99); got != 4 {
		t.Fatalf("updated turn gap = %d, want 4", got)
	}

	// Unknown keys fall back.
	if got := repo.GetInt(ctx, "no_such_setting", 7); got != 7 {
		t.Fatalf("fallback = %d, want 7", got)
	}
}
