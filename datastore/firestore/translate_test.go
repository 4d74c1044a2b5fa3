/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firestore

import (
	stderrors "errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

func TestTranslate(t *testing.T) {
	ref := storagemodels.Ref("sites", "s1")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", status.Error(codes.NotFound, "missing"), errors.IsNotFound},
		{"already exists", status.Error(codes.AlreadyExists, "dup"), errors.IsAlreadyExists},
		{"unavailable", status.Error(codes.Unavailable, "down"), errors.IsStoreError},
		{"plain error", stderrors.New("boom"), errors.IsStoreError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("get", ref, tt.err)
			if !tt.check(got) {
				t.Errorf("translate(%v) = %v", tt.err, got)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		if err := translate("get", ref, nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}
