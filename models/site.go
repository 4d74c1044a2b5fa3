/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
)

// Site fields
const (
	SiteName               schema.Field = "name"
	SiteBuildingID         schema.Field = "buildingId"
	SiteType               schema.Field = "siteType"
	SiteNearestInventoryID schema.Field = "nearestInventoryId"
	SiteChairCount         schema.Field = "chairCount"
	SiteHasPrinter         schema.Field = "hasPrinter"
	SiteCreatedAt          schema.Field = "createdAt"
)

// Site is a computing site inside a building.
type Site struct {
	ID                 string
	Name               string
	BuildingID         string
	SiteType           string
	NearestInventoryID string
	ChairCount         int64
	HasPrinter         bool
	CreatedAt          time.Time
}

var SiteSchema = &schema.Schema{
	Collection: CollectionSites,
	Fields: []schema.FieldSpec{
		{Name: SiteName, Kind: schema.KindString},
		{Name: SiteBuildingID, Kind: schema.KindString},
		{Name: SiteType, Kind: schema.KindString},
		{Name: SiteNearestInventoryID, Kind: schema.KindString},
		{Name: SiteChairCount, Kind: schema.KindInt},
		{Name: SiteHasPrinter, Kind: schema.KindBool},
		{Name: SiteCreatedAt, Kind: schema.KindTime},
	},
	TimeField: SiteCreatedAt,
	SortField: SiteName,
}

var SiteCodec = schema.NewCodec(SiteSchema,
	func(s Site) string { return s.ID },
	func(s Site, p schema.Payload) error {
		if err := required(SiteName, s.Name); err != nil {
			return err
		}
		if s.ChairCount < 0 {
			return errors.NewValidationError(string(SiteChairCount), "must not be negative")
		}
		p.Set(SiteName, s.Name).
			Set(SiteBuildingID, s.BuildingID).
			Set(SiteType, s.SiteType).
			Set(SiteNearestInventoryID, s.NearestInventoryID).
			Set(SiteChairCount, s.ChairCount).
			Set(SiteHasPrinter, s.HasPrinter)
		setTime(p, SiteCreatedAt, s.CreatedAt)
		return nil
	},
	func(r *schema.Reader) Site {
		return Site{
			ID:                 r.ID(),
			Name:               r.String(SiteName),
			BuildingID:         r.OptString(SiteBuildingID),
			SiteType:           r.OptString(SiteType),
			NearestInventoryID: r.OptString(SiteNearestInventoryID),
			ChairCount:         r.OptInt(SiteChairCount),
			HasPrinter:         r.OptBool(SiteHasPrinter),
			CreatedAt:          r.OptTime(SiteCreatedAt),
		}
	})
