package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/storage"
	"github.com/avrm/opsdash/internal/upstream"
)

// PropertyService manages the per-listing include-in-metrics settings.
type PropertyService struct {
	store    storage.PropertySettingsStore
	upstream upstream.PropertyLister
	now      func() time.Time
}

func NewPropertyService(store storage.PropertySettingsStore, lister upstream.PropertyLister) *PropertyService {
	return &PropertyService{store: store, upstream: lister, now: time.Now}
}

// Properties lists upstream listings joined with their settings. Listings
// without a setting row are included.
func (s *PropertyService) Properties(ctx context.Context) ([]core.PropertyView, error) {
	listings, err := s.upstream.Properties(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.ListPropertySettings(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]core.PropertySetting, len(settings))
	for _, st := range settings {
		byID[st.ID] = st
	}

	views := make([]core.PropertyView, 0, len(listings))
	for _, l := range listings {
		view := core.PropertyView{
			ID:               l.Key(),
			Name:             l.DisplayName(),
			IsActive:         bool(l.IsActive),
			IncludeInMetrics: true,
		}
		if st, ok := byID[view.ID]; ok {
			view.IncludeInMetrics = st.IncludeInMetrics
		}
		views = append(views, view)
	}
	return views, nil
}

// SetIncluded stores the include flag for one listing.
func (s *PropertyService) SetIncluded(ctx context.Context, propertyID string, include bool) (core.PropertySetting, error) {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return core.PropertySetting{}, core.NewValidationError("propertyId is required")
	}
	return s.store.UpsertPropertySetting(ctx, propertyID, "", include)
}

// Sync pulls every upstream listing into the settings table and returns
// how many rows were written. Existing include flags are preserved.
func (s *PropertyService) Sync(ctx context.Context) (int, error) {
	listings, err := s.upstream.Properties(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch properties: %w", err)
	}
	return s.store.SyncProperties(ctx, listings, s.now())
}
