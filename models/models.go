/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package models declares the field operations entities, their collection
// schemas and codecs. Every codec is registered with the registry package
// on import.
package models

import (
	"fmt"
	"math"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/registry"
	"github.com/suparena/fieldstore/schema"
)

// Collection names
const (
	CollectionIssues              = "issues"
	CollectionSites               = "sites"
	CollectionBuildings           = "buildings"
	CollectionKeySets             = "key_sets"
	CollectionKeys                = "keys"
	CollectionInventorySites      = "inventory_sites"
	CollectionSupplyRequests      = "supply_requests"
	CollectionSiteCaptains        = "site_captain_entries"
	CollectionUsers               = "users"
	CollectionAuthenticatedEmails = "authenticated_emails"
)

func init() {
	registry.RegisterCodec(IssueCodec)
	registry.RegisterCodec(SiteCodec)
	registry.RegisterCodec(BuildingCodec)
	registry.RegisterCodec(KeySetCodec)
	registry.RegisterCodec(KeyCodec)
	registry.RegisterCodec(InventorySiteCodec)
	registry.RegisterCodec(SupplyRequestCodec)
	registry.RegisterCodec(SiteCaptainCodec)
	registry.RegisterCodec(UserCodec)
	registry.RegisterCodec(AuthenticatedEmailCodec)
}

// setTime stores t unless it is the zero time. Unset timestamps stay out of
// the payload so ordered queries skip them.
func setTime(p schema.Payload, f schema.Field, t time.Time) {
	if !t.IsZero() {
		p.Set(f, t)
	}
}

func setStrings(p schema.Payload, f schema.Field, v []string) {
	if v == nil {
		v = []string{}
	}
	p.Set(f, v)
}

func required(f schema.Field, v string) error {
	if v == "" {
		return errors.NewValidationError(string(f), "is required")
	}
	return nil
}

func validEmail(f schema.Field, v string) error {
	if !strfmt.IsEmail(v) {
		return errors.NewValidationError(string(f), fmt.Sprintf("%q is not a valid email address", v))
	}
	return nil
}

func finite(f schema.Field, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewValidationError(string(f), "must be a finite number")
	}
	return nil
}
