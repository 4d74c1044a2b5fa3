/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/schema"
)

// Building fields
const (
	BuildingName      schema.Field = "name"
	BuildingAddress   schema.Field = "address"
	BuildingLatitude  schema.Field = "latitude"
	BuildingLongitude schema.Field = "longitude"
	BuildingIsLibrary schema.Field = "isLibrary"
	BuildingCreatedAt schema.Field = "createdAt"
)

type Building struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	IsLibrary bool
	CreatedAt time.Time
}

var BuildingSchema = &schema.Schema{
	Collection: CollectionBuildings,
	Fields: []schema.FieldSpec{
		{Name: BuildingName, Kind: schema.KindString},
		{Name: BuildingAddress, Kind: schema.KindString},
		{Name: BuildingLatitude, Kind: schema.KindFloat},
		{Name: BuildingLongitude, Kind: schema.KindFloat},
		{Name: BuildingIsLibrary, Kind: schema.KindBool},
		{Name: BuildingCreatedAt, Kind: schema.KindTime},
	},
	TimeField: BuildingCreatedAt,
	SortField: BuildingName,
}

var BuildingCodec = schema.NewCodec(BuildingSchema,
	func(b Building) string { return b.ID },
	func(b Building, p schema.Payload) error {
		if err := required(BuildingName, b.Name); err != nil {
			return err
		}
		if err := finite(BuildingLatitude, b.Latitude); err != nil {
			return err
		}
		if err := finite(BuildingLongitude, b.Longitude); err != nil {
			return err
		}
		p.Set(BuildingName, b.Name).
			Set(BuildingAddress, b.Address).
			Set(BuildingLatitude, b.Latitude).
			Set(BuildingLongitude, b.Longitude).
			Set(BuildingIsLibrary, b.IsLibrary)
		setTime(p, BuildingCreatedAt, b.CreatedAt)
		return nil
	},
	func(r *schema.Reader) Building {
		return Building{
			ID:        r.ID(),
			Name:      r.String(BuildingName),
			Address:   r.OptString(BuildingAddress),
			Latitude:  r.OptFloat(BuildingLatitude),
			Longitude: r.OptFloat(BuildingLongitude),
			IsLibrary: r.OptBool(BuildingIsLibrary),
			CreatedAt: r.OptTime(BuildingCreatedAt),
		}
	})
