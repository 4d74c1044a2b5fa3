/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
)

// SupplyRequest fields
const (
	SupplyRequestSiteID          schema.Field = "siteId"
	SupplyRequestInventorySiteID schema.Field = "inventorySiteId"
	SupplyRequestRequesterID     schema.Field = "requesterId"
	SupplyRequestSupplyType      schema.Field = "supplyType"
	SupplyRequestQuantity        schema.Field = "quantity"
	SupplyRequestNotes           schema.Field = "notes"
	SupplyRequestFulfilled       schema.Field = "fulfilled"
	SupplyRequestDateCreated     schema.Field = "dateCreated"
)

// SupplyRequest asks an inventory site to restock a computing site.
type SupplyRequest struct {
	ID              string
	SiteID          string
	InventorySiteID string
	RequesterID     string
	SupplyType      string
	Quantity        int64
	Notes           string
	Fulfilled       bool
	DateCreated     time.Time
}

var SupplyRequestSchema = &schema.Schema{
	Collection: CollectionSupplyRequests,
	Fields: []schema.FieldSpec{
		{Name: SupplyRequestSiteID, Kind: schema.KindString},
		{Name: SupplyRequestInventorySiteID, Kind: schema.KindString},
		{Name: SupplyRequestRequesterID, Kind: schema.KindString},
		{Name: SupplyRequestSupplyType, Kind: schema.KindString},
		{Name: SupplyRequestQuantity, Kind: schema.KindInt},
		{Name: SupplyRequestNotes, Kind: schema.KindString},
		{Name: SupplyRequestFulfilled, Kind: schema.KindBool},
		{Name: SupplyRequestDateCreated, Kind: schema.KindTime},
	},
	TimeField: SupplyRequestDateCreated,
	SortField: SupplyRequestDateCreated,
}

var SupplyRequestCodec = schema.NewCodec(SupplyRequestSchema,
	func(s SupplyRequest) string { return s.ID },
	func(s SupplyRequest, p schema.Payload) error {
		if err := required(SupplyRequestSiteID, s.SiteID); err != nil {
			return err
		}
		if s.Quantity < 0 {
			return errors.NewValidationError(string(SupplyRequestQuantity), "must not be negative")
		}
		p.Set(SupplyRequestSiteID, s.SiteID).
			Set(SupplyRequestInventorySiteID, s.InventorySiteID).
			Set(SupplyRequestRequesterID, s.RequesterID).
			Set(SupplyRequestSupplyType, s.SupplyType).
			Set(SupplyRequestQuantity, s.Quantity).
			Set(SupplyRequestNotes, s.Notes).
			Set(SupplyRequestFulfilled, s.Fulfilled)
		setTime(p, SupplyRequestDateCreated, s.DateCreated)
		return nil
	},
	func(r *schema.Reader) SupplyRequest {
		return SupplyRequest{
			ID:              r.ID(),
			SiteID:          r.String(SupplyRequestSiteID),
			InventorySiteID: r.OptString(SupplyRequestInventorySiteID),
			RequesterID:     r.OptString(SupplyRequestRequesterID),
			SupplyType:      r.OptString(SupplyRequestSupplyType),
			Quantity:        r.OptInt(SupplyRequestQuantity),
			Notes:           r.OptString(SupplyRequestNotes),
			Fulfilled:       r.OptBool(SupplyRequestFulfilled),
			DateCreated:     r.OptTime(SupplyRequestDateCreated),
		}
	})
