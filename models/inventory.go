/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/schema"
)

// InventorySite fields
const (
	InventorySiteName             schema.Field = "name"
	InventorySiteBuildingID       schema.Field = "buildingId"
	InventorySiteInventoryTypeIDs schema.Field = "inventoryTypeIds"
	InventorySiteCreatedAt        schema.Field = "createdAt"
)

// InventorySite is a supply room that stocks one or more inventory types.
type InventorySite struct {
	ID               string
	Name             string
	BuildingID       string
	InventoryTypeIDs []string
	CreatedAt        time.Time
}

var InventorySiteSchema = &schema.Schema{
	Collection: CollectionInventorySites,
	Fields: []schema.FieldSpec{
		{Name: InventorySiteName, Kind: schema.KindString},
		{Name: InventorySiteBuildingID, Kind: schema.KindString},
		{Name: InventorySiteInventoryTypeIDs, Kind: schema.KindStrings},
		{Name: InventorySiteCreatedAt, Kind: schema.KindTime},
	},
	TimeField: InventorySiteCreatedAt,
	SortField: InventorySiteName,
}

var InventorySiteCodec = schema.NewCodec(InventorySiteSchema,
	func(s InventorySite) string { return s.ID },
	func(s InventorySite, p schema.Payload) error {
		if err := required(InventorySiteName, s.Name); err != nil {
			return err
		}
		p.Set(InventorySiteName, s.Name).Set(InventorySiteBuildingID, s.BuildingID)
		setStrings(p, InventorySiteInventoryTypeIDs, s.InventoryTypeIDs)
		setTime(p, InventorySiteCreatedAt, s.CreatedAt)
		return nil
	},
	func(r *schema.Reader) InventorySite {
		return InventorySite{
			ID:               r.ID(),
			Name:             r.String(InventorySiteName),
			BuildingID:       r.OptString(InventorySiteBuildingID),
			InventoryTypeIDs: r.Strings(InventorySiteInventoryTypeIDs),
			CreatedAt:        r.OptTime(InventorySiteCreatedAt),
		}
	})
