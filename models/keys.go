/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/schema"
)

// KeySet fields
const (
	KeySetName      schema.Field = "name"
	KeySetNotes     schema.Field = "notes"
	KeySetCreatedAt schema.Field = "createdAt"
)

// KeySet groups the physical keys handed out together.
type KeySet struct {
	ID        string
	Name      string
	Notes     string
	CreatedAt time.Time
}

var KeySetSchema = &schema.Schema{
	Collection: CollectionKeySets,
	Fields: []schema.FieldSpec{
		{Name: KeySetName, Kind: schema.KindString},
		{Name: KeySetNotes, Kind: schema.KindString},
		{Name: KeySetCreatedAt, Kind: schema.KindTime},
	},
	TimeField: KeySetCreatedAt,
	SortField: KeySetName,
}

var KeySetCodec = schema.NewCodec(KeySetSchema,
	func(k KeySet) string { return k.ID },
	func(k KeySet, p schema.Payload) error {
		if err := required(KeySetName, k.Name); err != nil {
			return err
		}
		p.Set(KeySetName, k.Name).Set(KeySetNotes, k.Notes)
		setTime(p, KeySetCreatedAt, k.CreatedAt)
		return nil
	},
	func(r *schema.Reader) KeySet {
		return KeySet{
			ID:        r.ID(),
			Name:      r.String(KeySetName),
			Notes:     r.OptString(KeySetNotes),
			CreatedAt: r.OptTime(KeySetCreatedAt),
		}
	})

// Key fields
const (
	KeyKeySetID   schema.Field = "keySetId"
	KeyCode       schema.Field = "keyCode"
	KeyNickname   schema.Field = "nickname"
	KeyLocationID schema.Field = "locationId"
	KeyCreatedAt  schema.Field = "createdAt"
)

// Key is one physical key. LocationID is the site or building it opens.
type Key struct {
	ID         string
	KeySetID   string
	KeyCode    string
	Nickname   string
	LocationID string
	CreatedAt  time.Time
}

var KeySchema = &schema.Schema{
	Collection: CollectionKeys,
	Fields: []schema.FieldSpec{
		{Name: KeyKeySetID, Kind: schema.KindString},
		{Name: KeyCode, Kind: schema.KindString},
		{Name: KeyNickname, Kind: schema.KindString},
		{Name: KeyLocationID, Kind: schema.KindString},
		{Name: KeyCreatedAt, Kind: schema.KindTime},
	},
	TimeField: KeyCreatedAt,
	SortField: KeyCode,
}

var KeyCodec = schema.NewCodec(KeySchema,
	func(k Key) string { return k.ID },
	func(k Key, p schema.Payload) error {
		if err := required(KeyKeySetID, k.KeySetID); err != nil {
			return err
		}
		if err := required(KeyCode, k.KeyCode); err != nil {
			return err
		}
		p.Set(KeyKeySetID, k.KeySetID).
			Set(KeyCode, k.KeyCode).
			Set(KeyNickname, k.Nickname).
			Set(KeyLocationID, k.LocationID)
		setTime(p, KeyCreatedAt, k.CreatedAt)
		return nil
	},
	func(r *schema.Reader) Key {
		return Key{
			ID:         r.ID(),
			KeySetID:   r.String(KeyKeySetID),
			KeyCode:    r.String(KeyCode),
			Nickname:   r.OptString(KeyNickname),
			LocationID: r.OptString(KeyLocationID),
			CreatedAt:  r.OptTime(KeyCreatedAt),
		}
	})
