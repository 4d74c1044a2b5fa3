/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/suparena/fieldstore/query"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// whereFlags collects repeated -where field=value arguments.
type whereFlags []string

func (w *whereFlags) String() string { return strings.Join(*w, ",") }

func (w *whereFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected field=value, got %q", v)
	}
	*w = append(*w, v)
	return nil
}

func parseQuery(s *schema.Schema, cmd string, args []string) (*storagemodels.Query, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		desc  = fs.Bool("desc", false, "sort descending")
		asc   = fs.Bool("asc", false, "sort ascending")
		from  = fs.String("from", "", "range start (RFC3339)")
		to    = fs.String("to", "", "range end (RFC3339)")
		limit = fs.Int("limit", 0, "maximum number of results")
		where whereFlags
	)
	fs.Var(&where, "where", "equality filter field=value")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	if *desc && *asc {
		return nil, fmt.Errorf("-desc and -asc are exclusive")
	}

	var opts []query.Option
	for _, w := range where {
		field, raw, _ := strings.Cut(w, "=")
		v, err := parseValue(s, field, raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, query.Equal(schema.Field(field), v))
	}
	if *from != "" {
		t, err := time.Parse(time.RFC3339, *from)
		if err != nil {
			return nil, fmt.Errorf("invalid -from: %w", err)
		}
		opts = append(opts, query.Since(t))
	}
	if *to != "" {
		t, err := time.Parse(time.RFC3339, *to)
		if err != nil {
			return nil, fmt.Errorf("invalid -to: %w", err)
		}
		opts = append(opts, query.Until(t))
	}
	if *desc || *asc {
		opts = append(opts, query.Descending(*desc))
	}
	if *limit > 0 {
		opts = append(opts, query.WithLimit(*limit))
	}
	return query.FromOptions(s, opts...)
}

// parseValue converts a command line value to the kind of field. Unknown
// fields are passed through as strings and rejected by the query builder.
func parseValue(s *schema.Schema, field, raw string) (any, error) {
	spec, ok := s.Lookup(field)
	if !ok {
		return raw, nil
	}
	switch spec.Kind {
	case schema.KindBool:
		return strconv.ParseBool(raw)
	case schema.KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case schema.KindFloat:
		return strconv.ParseFloat(raw, 64)
	case schema.KindTime:
		return time.Parse(time.RFC3339, raw)
	}
	return raw, nil
}
