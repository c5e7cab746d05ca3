package calendar

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/media-tracker/backend/internal/storage"
	"github.com/media-tracker/backend/internal/storage/models"
)

// Service refreshes property booking feeds into the cache and records sync
// status on the property record.
type Service struct {
	propertyRepo *storage.PropertyRepository
	fetcher      *Fetcher
	cache        FeedCache
}

// NewService creates a feed refresh service.
func NewService(propertyRepo *storage.PropertyRepository, cache FeedCache) *Service {
	return &Service{
		propertyRepo: propertyRepo,
		fetcher:      NewFetcher(cache),
		cache:        cache,
	}
}

// Fetcher returns the fetcher the service warms, for callers that need
// intervals directly (availability and conflict checks share its cache).
func (s *Service) Fetcher() *Fetcher {
	return s.fetcher
}

// SyncProperty refreshes a single property's feed and returns the result.
func (s *Service) SyncProperty(ctx context.Context, propertyID string) (*models.FeedSyncResult, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("getting property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property not found: %s", propertyID)
	}

	result := &models.FeedSyncResult{
		PropertyID:   property.ID,
		PropertyName: property.Name,
		SyncedAt:     time.Now().UTC(),
	}

	if property.ICalURL == nil || *property.ICalURL == "" {
		// Nothing to refresh; not an error.
		return result, nil
	}

	if err := s.propertyRepo.UpdateSyncStatus(ctx, propertyID, models.SyncStatusSyncing, nil); err != nil {
		log.Printf("Failed to update sync status: %v", err)
	}

	body, err := s.fetcher.feedBody(ctx, *property.ICalURL)
	if err != nil {
		errMsg := err.Error()
		s.propertyRepo.UpdateSyncStatus(ctx, propertyID, models.SyncStatusError, &errMsg)
		result.Error = err
		return result, err
	}

	intervals := s.fetcher.parser.Parse(strings.NewReader(body))
	result.IntervalsFound = len(intervals)

	if err := s.propertyRepo.UpdateSyncStatus(ctx, propertyID, models.SyncStatusSuccess, nil); err != nil {
		log.Printf("Failed to update sync status: %v", err)
	}

	return result, nil
}

// SyncAllEnabled refreshes every enabled property's feed.
func (s *Service) SyncAllEnabled(ctx context.Context) ([]models.FeedSyncResult, error) {
	properties, err := s.propertyRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing enabled properties: %w", err)
	}

	var results []models.FeedSyncResult
	for _, p := range properties {
		result, err := s.SyncProperty(ctx, p.ID)
		if err != nil {
			log.Printf("Error syncing property %s: %v", p.ID, err)
			if result == nil {
				result = &models.FeedSyncResult{
					PropertyID:   p.ID,
					PropertyName: p.Name,
					Error:        err,
					SyncedAt:     time.Now().UTC(),
				}
			}
		}
		results = append(results, *result)
	}

	return results, nil
}
