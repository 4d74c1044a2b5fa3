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

// SupplyRequests manages restocking requests.
type SupplyRequests struct {
	*fieldstore.Repository[models.SupplyRequest]
	now func() time.Time
}

// Submit stores a new request, filling in its id and creation date when unset.
func (m *SupplyRequests) Submit(ctx context.Context, req models.SupplyRequest) (models.SupplyRequest, error) {
	if req.ID == "" {
		id, err := m.NewID(ctx)
		if err != nil {
			return models.SupplyRequest{}, err
		}
		req.ID = id
	}
	if req.DateCreated.IsZero() {
		req.DateCreated = m.now()
	}
	if err := m.Create(ctx, req); err != nil {
		return models.SupplyRequest{}, err
	}
	return req, nil
}

// ListForSite lists the requests made for a site.
func (m *SupplyRequests) ListForSite(ctx context.Context, siteID string, opts ...query.Option) ([]models.SupplyRequest, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.SupplyRequestSiteID, siteID)}, opts...)...)
}

// ListOpen lists requests not yet fulfilled.
func (m *SupplyRequests) ListOpen(ctx context.Context, opts ...query.Option) ([]models.SupplyRequest, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.SupplyRequestFulfilled, false)}, opts...)...)
}

// Fulfill marks one request fulfilled.
func (m *SupplyRequests) Fulfill(ctx context.Context, id string) error {
	req, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	req.Fulfilled = true
	return m.Update(ctx, req)
}

// FulfillMany marks several requests fulfilled in one atomic update. A
// missing id fails the call before anything is written.
func (m *SupplyRequests) FulfillMany(ctx context.Context, ids []string) error {
	reqs := make([]models.SupplyRequest, 0, len(ids))
	for _, id := range ids {
		req, err := m.Get(ctx, id)
		if err != nil {
			return err
		}
		req.Fulfilled = true
		reqs = append(reqs, req)
	}
	return m.UpdateMany(ctx, reqs)
}
