/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package managers

import (
	"context"
	"time"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/query"
)

// SiteCaptains manages site check-in entries.
type SiteCaptains struct {
	*fieldstore.Repository[models.SiteCaptain]
	now func() time.Time
}

// Capture records a check-in, filling in the id and capture time when unset.
func (m *SiteCaptains) Capture(ctx context.Context, entry models.SiteCaptain) (models.SiteCaptain, error) {
	if entry.ID == "" {
		id, err := m.NewID(ctx)
		if err != nil {
			return models.SiteCaptain{}, err
		}
		entry.ID = id
	}
	if entry.TimeOfCapture.IsZero() {
		entry.TimeOfCapture = m.now()
	}
	if err := m.Create(ctx, entry); err != nil {
		return models.SiteCaptain{}, err
	}
	return entry, nil
}

// ListForSite lists check-ins at a site.
func (m *SiteCaptains) ListForSite(ctx context.Context, siteID string, opts ...query.Option) ([]models.SiteCaptain, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.SiteCaptainSiteID, siteID)}, opts...)...)
}

// ListForUser lists the check-ins of a user.
func (m *SiteCaptains) ListForUser(ctx context.Context, userID string, opts ...query.Option) ([]models.SiteCaptain, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.SiteCaptainUserID, userID)}, opts...)...)
}

// LatestForSite returns the most recent check-in at a site, or a
// NotFoundError when there is none.
func (m *SiteCaptains) LatestForSite(ctx context.Context, siteID string) (models.SiteCaptain, error) {
	return m.First(ctx, query.Equal(models.SiteCaptainSiteID, siteID), query.Descending(true))
}
