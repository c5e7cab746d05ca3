package workflow_test

import (
	"testing"

	"github.com/media-tracker/backend/internal/storage/models"
	"github.com/media-tracker/backend/internal/workflow"
)

func TestStagesForKnownMediaTypes(t *testing.T) {
	photos := workflow.StagesFor(models.MediaTypePhotos)
	if len(photos.Names) != 7 {
		t.Fatalf("photos stage count = %d, want 7", len(photos.Names))
	}
	if photos.Names[0] != workflow.StageCreated {
		t.Fatalf("photos first stage = %q, want Created", photos.Names[0])
	}
	if photos.Names[len(photos.Names)-1] != workflow.StageCompleted {
		t.Fatalf("photos last stage = %q, want Completed", photos.Names[len(photos.Names)-1])
	}

	tours := workflow.StagesFor(models.MediaType3DTour)
	if len(tours.Names) != 6 {
		t.Fatalf("3d_tours stage count = %d, want 6", len(tours.Names))
	}

	for _, list := range []workflow.StageList{photos, tours} {
		for _, name := range list.Names {
			if list.Descriptions[name] == "" {
				t.Fatalf("stage %q has no description", name)
			}
		}
	}
}

func TestStagesForUnknownMediaTypeFallsBack(t *testing.T) {
	unknown := workflow.StagesFor("holograms")
	photos := workflow.StagesFor(models.MediaTypePhotos)
	if len(unknown.Names) != len(photos.Names) {
		t.Fatalf("unknown media type stage count = %d, want %d", len(unknown.Names), len(photos.Names))
	}
	for i := range unknown.Names {
		if unknown.Names[i] != photos.Names[i] {
			t.Fatalf("unknown media type stage[%d] = %q, want %q", i, unknown.Names[i], photos.Names[i])
		}
	}

	empty := workflow.StagesFor("")
	if empty.Names[0] != workflow.StageCreated {
		t.Fatalf("empty media type first stage = %q, want Created", empty.Names[0])
	}
}

func TestCurrentAlwaysMember(t *testing.T) {
	cases := []struct {
		mediaType string
		stage     string
	}{
		{models.MediaTypePhotos, workflow.StageShooting},
		{models.MediaTypePhotos, workflow.StageEditing},    // tour-only stage on a photo task
		{models.MediaType3DTour, workflow.StageFirstEdits}, // photo-only stage on a tour task
		{"holograms", "Rendering"},
		{models.MediaTypePhotos, ""},
	}

	for _, tc := range cases {
		task := &models.Task{MediaType: tc.mediaType, Stage: tc.stage}
		current := workflow.Current(task)
		list := workflow.StagesFor(tc.mediaType)
		found := false
		for _, name := range list.Names {
			if name == current {
				found = true
			}
		}
		if !found {
			t.Fatalf("Current(%q/%q) = %q, not a member of stage list", tc.mediaType, tc.stage, current)
		}
	}
}

func TestCurrentFallsBackToInitialStage(t *testing.T) {
	// Old data feeds wrote "In-House Edits" with a space; it matches no
	// stage name and the task degrades to the initial stage rather than
	// erroring.
	task := &models.Task{MediaType: models.MediaTypePhotos, Stage: "In-House Edits"}
	if got := workflow.Current(task); got != workflow.StageCreated {
		t.Fatalf("Current = %q, want Created", got)
	}
}

func TestCurrentMapsLegacyReadyToPublish(t *testing.T) {
	task := &models.Task{MediaType: models.MediaTypePhotos, Stage: "Ready to Publish"}
	if got := workflow.Current(task); got != workflow.StagePublishing {
		t.Fatalf("Current = %q, want Publishing", got)
	}
}

func TestValidTransition(t *testing.T) {
	task := &models.Task{MediaType: models.MediaTypePhotos, Stage: workflow.StagePublishing}

	// Backward moves are valid; managers use them to correct mistakes.
	if !workflow.ValidTransition(task, workflow.StageScheduling) {
		t.Fatal("backward transition rejected")
	}
	if !workflow.ValidTransition(task, workflow.StageCompleted) {
		t.Fatal("forward transition rejected")
	}
	if !workflow.ValidTransition(task, "Ready to Publish") {
		t.Fatal("legacy label rejected")
	}
	if workflow.ValidTransition(task, "Color Grading") {
		t.Fatal("unknown stage accepted")
	}

	tour := &models.Task{MediaType: models.MediaType3DTour, Stage: workflow.StageEditing}
	if workflow.ValidTransition(tour, workflow.StageFirstEdits) {
		t.Fatal("photo-only stage accepted for 3d tour")
	}
}

func TestNextAndTerminal(t *testing.T) {
	task := &models.Task{MediaType: models.MediaTypePhotos, Stage: workflow.StageScheduling}
	if got := workflow.Next(task); got != workflow.StageShooting {
		t.Fatalf("Next = %q, want Shooting", got)
	}

	done := &models.Task{MediaType: models.MediaTypePhotos, Stage: workflow.StageCompleted}
	if got := workflow.Next(done); got != workflow.StageCompleted {
		t.Fatalf("Next at terminal = %q, want Completed", got)
	}
	if !workflow.IsTerminal(done) {
		t.Fatal("Completed task not terminal")
	}
	if workflow.IsTerminal(task) {
		t.Fatal("Scheduling task reported terminal")
	}
}
