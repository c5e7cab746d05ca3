// Package workflow defines the production stage lists per media type and
// validates stage transitions.
package workflow

import (
	"github.com/media-tracker/backend/internal/storage/models"
)

// StageList is the ordered set of stages for one media type, with a short
// description per stage.
type StageList struct {
	Names        []string
	Descriptions map[string]string
}

// Stage name constants
const (
	StageCreated       = "Created"
	StageScheduling    = "Scheduling"
	StageShooting      = "Shooting"
	StageFirstEdits    = "1st-Round-Edits"
	StageInHouseEdits  = "In-House-Edits"
	StageEditing       = "Editing"
	StagePublishing    = "Publishing"
	StageCompleted     = "Completed"

	// legacyReadyToPublish appears in historical data feeds and is treated
	// as equivalent to Publishing wherever stages are compared. Stored
	// values are never rewritten. Other legacy spellings ("In-House Edits"
	// with a space) carry no mapping and fall back to the initial stage.
	legacyReadyToPublish = "Ready to Publish"
)

var photoStages = StageList{
	Names: []string{
		StageCreated,
		StageScheduling,
		StageShooting,
		StageFirstEdits,
		StageInHouseEdits,
		StagePublishing,
		StageCompleted,
	},
	Descriptions: map[string]string{
		StageCreated:      "Task created, awaiting scheduling",
		StageScheduling:   "Finding an open shoot date",
		StageShooting:     "Shoot booked or in progress",
		StageFirstEdits:   "Photographer's first editing pass",
		StageInHouseEdits: "In-house retouching and selection",
		StagePublishing:   "Uploading finals to the listing",
		StageCompleted:    "All deliverables published",
	},
}

var tourStages = StageList{
	Names: []string{
		StageCreated,
		StageScheduling,
		StageShooting,
		StageEditing,
		StagePublishing,
		StageCompleted,
	},
	Descriptions: map[string]string{
		StageCreated:    "Task created, awaiting scheduling",
		StageScheduling: "Finding an open shoot date",
		StageShooting:   "Capture booked or in progress",
		StageEditing:    "Tour processing and trimming",
		StagePublishing: "Publishing the tour link",
		StageCompleted:  "Tour live on the listing",
	},
}

var stagesByMediaType = map[string]StageList{
	models.MediaTypePhotos: photoStages,
	models.MediaTypeVideo:  tourStages,
	models.MediaType3DTour: tourStages,
}

// StagesFor returns the stage list for a media type. Unknown or empty media
// types get the default (photos) list; this is deliberate leniency, never
// an error.
func StagesFor(mediaType string) StageList {
	if list, ok := stagesByMediaType[mediaType]; ok {
		return list
	}
	return photoStages
}

// CanonicalStage maps legacy stage labels onto their current names for
// comparisons. Unknown names pass through unchanged.
func CanonicalStage(name string) string {
	if name == legacyReadyToPublish {
		return StagePublishing
	}
	return name
}

// Current returns the task's stage if it is valid for the task's media
// type, otherwise the initial stage. A task therefore always has a usable
// stage, whatever is stored.
func Current(task *models.Task) string {
	list := StagesFor(task.MediaType)
	stage := CanonicalStage(task.Stage)
	for _, name := range list.Names {
		if name == stage {
			return name
		}
	}
	return list.Names[0]
}

// ValidTransition reports whether proposed is a valid stage for the task's
// media type. Ordering is not enforced: moving backward is allowed so
// mistakes can be corrected. Who may do so is the caller's concern.
func ValidTransition(task *models.Task, proposed string) bool {
	list := StagesFor(task.MediaType)
	proposed = CanonicalStage(proposed)
	for _, name := range list.Names {
		if name == proposed {
			return true
		}
	}
	return false
}

// Next returns the stage after the task's current stage, or the current
// stage when it is already terminal.
func Next(task *models.Task) string {
	list := StagesFor(task.MediaType)
	current := Current(task)
	for i, name := range list.Names {
		if name == current && i+1 < len(list.Names) {
			return list.Names[i+1]
		}
	}
	return current
}

// IsTerminal reports whether the task has reached its final stage.
func IsTerminal(task *models.Task) bool {
	return Current(task) == StageCompleted
}
