package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/media-tracker/backend/internal/storage/models"
)

// ExportShoots builds an iCal document of a property's scheduled shoots so
// photographers can subscribe from their own calendar apps. Tasks without a
// shoot date are skipped.
func ExportShoots(property *models.Property, tasks []models.Task, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//media-tracker//shoot schedule//EN")
	cal.SetName(fmt.Sprintf("%s shoots", property.Name))

	for _, task := range tasks {
		start, end, ok := task.ShootDate.Bounds()
		if !ok {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("shoot-%s@media-tracker", task.ID))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(start)
		// DTEND is exclusive in iCal, hence the extra day.
		event.SetAllDayEndAt(end.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s shoot: %s", task.MediaType, property.Name))
		if task.AssignedPhotographer != nil {
			event.SetDescription(fmt.Sprintf("Photographer: %s", *task.AssignedPhotographer))
		}
		if property.Address != nil {
			event.SetLocation(*property.Address)
		}
	}

	return cal.Serialize()
}
