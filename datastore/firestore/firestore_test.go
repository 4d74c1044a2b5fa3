/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firestore_test

import (
	"context"
	"os"
	"testing"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/datastore/firestore"
	"github.com/suparena/fieldstore/datastore/storetest"
	"github.com/suparena/fieldstore/errors"
)

// Start the emulator with `gcloud emulators firestore start` and export
// FIRESTORE_EMULATOR_HOST to run these tests.
func TestFirestoreConformance(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	store, err := firestore.Open(context.Background(), firestore.Config{ProjectID: "fieldstore-test"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	storetest.Run(t, func(t *testing.T) datastore.DocumentStore { return store })
}

func TestFirestoreOpenRequiresProject(t *testing.T) {
	if _, err := firestore.Open(context.Background(), firestore.Config{}); !errors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
