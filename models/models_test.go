/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"math"
	"testing"
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/registry"
)

func TestRegistered(t *testing.T) {
	want := []string{
		CollectionAuthenticatedEmails, CollectionBuildings, CollectionInventorySites,
		CollectionIssues, CollectionKeySets, CollectionKeys, CollectionSiteCaptains,
		CollectionSites, CollectionSupplyRequests, CollectionUsers,
	}
	for _, c := range want {
		if _, err := registry.Lookup(c); err != nil {
			t.Errorf("collection %s not registered: %v", c, err)
		}
	}
}

func TestIssueRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 4, 15, 30, 0, 0, time.FixedZone("EST", -5*3600))
	in := Issue{
		ID:           "I1",
		SiteID:       "S1",
		Description:  "printer jammed",
		IssueType:    "printer",
		ReporterID:   "U1",
		TicketNumber: "T-100",
		Timestamp:    at,
	}
	p, err := IssueCodec.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if p["id"] != "I1" || p["resolved"] != false {
		t.Fatalf("unexpected payload %v", p)
	}
	if ts := p["timestamp"].(time.Time); ts.Location() != time.UTC {
		t.Fatalf("timestamp not normalized to UTC: %v", ts)
	}

	out, err := IssueCodec.Decode("I1", p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !out.Timestamp.Equal(at) || out.SiteID != "S1" || out.TicketNumber != "T-100" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestTimestampWireString(t *testing.T) {
	out, err := SupplyRequestCodec.Decode("R1", map[string]any{
		"siteId":      "S1",
		"quantity":    float64(4),
		"dateCreated": "2024-05-01T16:00:00.000000000Z",
	})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Quantity != 4 || out.DateCreated.Hour() != 16 {
		t.Fatalf("unexpected request %+v", out)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		encode func() error
	}{
		{"user email", func() error {
			_, err := UserCodec.Encode(User{ID: "U1", Email: "not-an-email"})
			return err
		}},
		{"authenticated email", func() error {
			_, err := AuthenticatedEmailCodec.Encode(AuthenticatedEmail{ID: "E1", Email: "@example.edu"})
			return err
		}},
		{"building latitude", func() error {
			_, err := BuildingCodec.Encode(Building{ID: "B1", Name: "Library", Latitude: math.NaN()})
			return err
		}},
		{"building longitude", func() error {
			_, err := BuildingCodec.Encode(Building{ID: "B1", Name: "Library", Longitude: math.Inf(1)})
			return err
		}},
		{"negative quantity", func() error {
			_, err := SupplyRequestCodec.Encode(SupplyRequest{ID: "R1", SiteID: "S1", Quantity: -1})
			return err
		}},
		{"missing site", func() error {
			_, err := IssueCodec.Encode(Issue{ID: "I1"})
			return err
		}},
		{"missing key code", func() error {
			_, err := KeyCodec.Encode(Key{ID: "K1", KeySetID: "KS1"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.encode(); !errors.IsEncodingError(err) {
				t.Fatalf("expected encoding error, got %v", err)
			}
		})
	}
}

func TestEmailNormalized(t *testing.T) {
	p, err := UserCodec.Encode(User{ID: "U1", Email: "  Clark.Kent@Example.EDU "})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if p["email"] != "clark.kent@example.edu" {
		t.Fatalf("email not normalized: %v", p["email"])
	}
}

func TestArrayFields(t *testing.T) {
	p, err := SiteCaptainCodec.Encode(SiteCaptain{ID: "C1", SiteID: "S1", UserID: "U1"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if ids, ok := p["issueIds"].([]any); !ok || len(ids) != 0 {
		t.Fatalf("nil slice should encode as empty array, got %#v", p["issueIds"])
	}

	inv, err := InventorySiteCodec.Decode("V1", map[string]any{
		"name":             "Basement",
		"inventoryTypeIds": []any{"paper", "toner"},
	})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(inv.InventoryTypeIDs) != 2 || inv.InventoryTypeIDs[1] != "toner" {
		t.Fatalf("unexpected ids %v", inv.InventoryTypeIDs)
	}
}

func TestDecodeMismatch(t *testing.T) {
	_, err := SiteCodec.Decode("S1", map[string]any{"name": "Clark", "chairCount": "many"})
	if !errors.IsDecodingError(err) {
		t.Fatalf("expected decoding error, got %v", err)
	}
}
