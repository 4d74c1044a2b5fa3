/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package managers

import (
	"context"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/query"
)

// Sites manages computing sites.
type Sites struct {
	*fieldstore.Repository[models.Site]
}

// ListForBuilding lists the sites in a building, by name unless opts say
// otherwise.
func (m *Sites) ListForBuilding(ctx context.Context, buildingID string, opts ...query.Option) ([]models.Site, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.SiteBuildingID, buildingID)}, opts...)...)
}

// AnyInBuilding reports whether a building has at least one site.
func (m *Sites) AnyInBuilding(ctx context.Context, buildingID string) (bool, error) {
	return m.Exists(ctx, query.Equal(models.SiteBuildingID, buildingID))
}

// ListByType lists sites of one type.
func (m *Sites) ListByType(ctx context.Context, siteType string, opts ...query.Option) ([]models.Site, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.SiteType, siteType)}, opts...)...)
}

// Buildings manages campus buildings.
type Buildings struct {
	*fieldstore.Repository[models.Building]
}

// ListByName returns every building, sorted by name.
func (m *Buildings) ListByName(ctx context.Context, descending bool) ([]models.Building, error) {
	return m.GetAll(ctx, query.Descending(descending))
}

// Libraries lists the library buildings by name.
func (m *Buildings) Libraries(ctx context.Context) ([]models.Building, error) {
	return m.GetAll(ctx, query.Equal(models.BuildingIsLibrary, true), query.Ascending())
}

// InventorySites manages supply rooms.
type InventorySites struct {
	*fieldstore.Repository[models.InventorySite]
}

// ListForBuilding lists the supply rooms of a building.
func (m *InventorySites) ListForBuilding(ctx context.Context, buildingID string, opts ...query.Option) ([]models.InventorySite, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.InventorySiteBuildingID, buildingID)}, opts...)...)
}
