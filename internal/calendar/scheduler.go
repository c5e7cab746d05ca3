package calendar

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/media-tracker/backend/internal/storage"
	"github.com/media-tracker/backend/internal/storage/models"
)

// Scheduler manages periodic feed refresh jobs, one per enabled property.
type Scheduler struct {
	cron         *cron.Cron
	syncService  *Service
	propertyRepo *storage.PropertyRepository

	jobs   map[string]cron.EntryID
	jobsMu sync.RWMutex

	// Default refresh interval if a property doesn't specify one.
	defaultInterval time.Duration
}

// NewScheduler creates a feed refresh scheduler.
func NewScheduler(syncService *Service, propertyRepo *storage.PropertyRepository, defaultIntervalMin int) *Scheduler {
	if defaultIntervalMin <= 0 {
		defaultIntervalMin = 30
	}

	return &Scheduler{
		cron:            cron.New(),
		syncService:     syncService,
		propertyRepo:    propertyRepo,
		jobs:            make(map[string]cron.EntryID),
		defaultInterval: time.Duration(defaultIntervalMin) * time.Minute,
	}
}

// Start begins the scheduler and loads all enabled properties.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Println("Starting feed refresh scheduler...")

	properties, err := s.propertyRepo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	for _, p := range properties {
		s.ScheduleProperty(p)
	}

	// Pick up newly added or modified properties.
	s.cron.AddFunc("@every 5m", func() {
		s.refreshSchedules(context.Background())
	})

	s.cron.Start()
	log.Printf("Feed refresh scheduler started with %d properties", len(properties))

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	log.Println("Stopping feed refresh scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Feed refresh scheduler stopped")
}

// ScheduleProperty adds or updates a property's refresh schedule.
func (s *Scheduler) ScheduleProperty(p models.Property) {
	if !p.Enabled || p.ICalURL == nil || *p.ICalURL == "" {
		s.UnscheduleProperty(p.ID)
		return
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if existingID, exists := s.jobs[p.ID]; exists {
		s.cron.Remove(existingID)
		delete(s.jobs, p.ID)
	}

	interval := time.Duration(p.SyncIntervalMin) * time.Minute
	if interval < time.Minute {
		interval = s.defaultInterval
	}

	propertyID := p.ID
	propertyName := p.Name
	entryID, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.syncProperty(propertyID, propertyName)
	})
	if err != nil {
		log.Printf("Failed to schedule property %s: %v", p.ID, err)
		return
	}

	s.jobs[p.ID] = entryID
	log.Printf("Scheduled property %s (%s) every %s", p.ID, p.Name, interval)
}

// UnscheduleProperty removes a property from the refresh schedule.
func (s *Scheduler) UnscheduleProperty(propertyID string) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if entryID, exists := s.jobs[propertyID]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, propertyID)
		log.Printf("Unscheduled property %s", propertyID)
	}
}

// TriggerSync manually triggers an immediate refresh for a property.
func (s *Scheduler) TriggerSync(propertyID string) {
	go func() {
		ctx := context.Background()
		p, err := s.propertyRepo.GetByID(ctx, propertyID)
		if err != nil || p == nil {
			log.Printf("Property not found for sync: %s", propertyID)
			return
		}
		s.syncProperty(p.ID, p.Name)
	}()
}

// syncProperty performs the actual refresh.
func (s *Scheduler) syncProperty(propertyID, propertyName string) {
	ctx := context.Background()

	result, err := s.syncService.SyncProperty(ctx, propertyID)
	if err != nil {
		log.Printf("Feed refresh failed for %s (%s): %v", propertyID, propertyName, err)
		return
	}

	log.Printf("Feed refresh completed for %s (%s): %d busy intervals",
		propertyID, propertyName, result.IntervalsFound)
}

// refreshSchedules reloads property schedules from the database.
func (s *Scheduler) refreshSchedules(ctx context.Context) {
	properties, err := s.propertyRepo.ListEnabled(ctx)
	if err != nil {
		log.Printf("Failed to refresh property schedules: %v", err)
		return
	}

	currentIDs := make(map[string]bool)
	for _, p := range properties {
		currentIDs[p.ID] = true
		s.ScheduleProperty(p)
	}

	s.jobsMu.Lock()
	for id := range s.jobs {
		if !currentIDs[id] {
			s.cron.Remove(s.jobs[id])
			delete(s.jobs, id)
			log.Printf("Removed schedule for property %s (no longer enabled)", id)
		}
	}
	s.jobsMu.Unlock()
}

// GetScheduledProperties returns the currently scheduled property IDs.
func (s *Scheduler) GetScheduledProperties() []string {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}
