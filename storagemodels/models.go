/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"strings"

	"github.com/suparena/fieldstore/errors"
)

// DocumentRef addresses one record in the remote store. It is created on
// access and never persisted on its own.
type DocumentRef struct {
	Collection string
	ID         string
}

// Ref is shorthand for DocumentRef{Collection: collection, ID: id}.
func Ref(collection, id string) DocumentRef {
	return DocumentRef{Collection: collection, ID: id}
}

// String renders the reference as "collection/id".
func (r DocumentRef) String() string {
	return r.Collection + "/" + r.ID
}

// Validate rejects empty parts and path separators inside parts.
func (r DocumentRef) Validate() error {
	if err := ValidateCollection(r.Collection); err != nil {
		return err
	}
	if r.ID == "" {
		return errors.NewValidationError("id", "document id is required")
	}
	if strings.Contains(r.ID, "/") {
		return errors.NewValidationError("id", "document id must not contain '/'")
	}
	return nil
}

// ValidateCollection checks a collection name.
func ValidateCollection(collection string) error {
	if collection == "" {
		return errors.NewValidationError("collection", "collection name is required")
	}
	if strings.Contains(collection, "/") {
		return errors.NewValidationError("collection", "collection name must not contain '/'")
	}
	return nil
}

// Document is one record as returned by a store: its reference plus the
// payload in the canonical value domain (see schema.Normalize).
type Document struct {
	Ref  DocumentRef
	Data map[string]any
}

// Write is one entry of an atomic commit. Delete writes ignore Payload and
// Overwrite.
type Write struct {
	Ref       DocumentRef
	Payload   map[string]any
	Overwrite bool
	Delete    bool
}

// SetWrite builds a create-or-overwrite write.
func SetWrite(ref DocumentRef, payload map[string]any, overwrite bool) Write {
	return Write{Ref: ref, Payload: payload, Overwrite: overwrite}
}

// DeleteWrite builds a delete write.
func DeleteWrite(ref DocumentRef) Write {
	return Write{Ref: ref, Delete: true}
}

// ValidateWrites checks every ref and rejects a commit that touches the same
// document twice.
func ValidateWrites(writes []Write) error {
	seen := make(map[DocumentRef]struct{}, len(writes))
	for _, w := range writes {
		if err := w.Ref.Validate(); err != nil {
			return err
		}
		if _, dup := seen[w.Ref]; dup {
			return errors.NewValidationError("writes", "document "+w.Ref.String()+" is written more than once")
		}
		seen[w.Ref] = struct{}{}
	}
	return nil
}
