/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/config"
	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/datastore/backend"
	"github.com/suparena/fieldstore/datastore/metrics"
	"github.com/suparena/fieldstore/registry"
	"github.com/suparena/fieldstore/storagemodels"

	_ "github.com/suparena/fieldstore/models"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "", "Path to a YAML config file")
	metricsFlag = flag.Bool("metrics", false, "Print store metrics to stderr on exit")
)

const usage = `usage: fieldstore [flags] <command> [args]

commands:
  collections                     list known collections
  get <collection> <id>           print one document
  list <collection> [filters]     print matching documents
  count <collection> [filters]    count matching documents
  delete <collection> <id>        delete one document
  new-id <collection>             allocate a document id

filters:
  -desc | -asc                    sort on the collection sort field (time field with a range)
  -from RFC3339 -to RFC3339       date range on the collection time field
  -where field=value              equality filter, repeatable
  -limit n                        cap the number of results
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nflags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag || *vFlag {
		info := fieldstore.GetVersionInfo()
		fmt.Printf("fieldstore version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *metricsFlag {
		cfg.Metrics = true
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if args[0] == "collections" {
		return writeJSON(out, registry.Collections())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var collector *metrics.Collector
	if cfg.Metrics {
		collector = metrics.NewCollector("fieldstore")
		defer collector.WriteText(os.Stderr)
	}

	store, err := backend.Open(ctx, cfg, logger, collector)
	if err != nil {
		return err
	}
	defer store.Close()

	return dispatch(ctx, store, args, out)
}

func dispatch(ctx context.Context, store datastore.DocumentStore, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "get":
		entry, id, err := collectionAndID(rest)
		if err != nil {
			return err
		}
		doc, err := store.Get(ctx, storagemodels.Ref(entry.Schema.Collection, id))
		if err != nil {
			return err
		}
		if _, err := entry.Decode(doc.Ref.ID, doc.Data); err != nil {
			return err
		}
		return writeJSON(out, doc.Data)

	case "list", "count":
		if len(rest) == 0 {
			return fmt.Errorf("%s requires a collection", cmd)
		}
		entry, err := registry.Lookup(rest[0])
		if err != nil {
			return err
		}
		q, err := parseQuery(entry.Schema, cmd, rest[1:])
		if err != nil {
			return err
		}
		if cmd == "count" {
			n, err := store.Count(ctx, q)
			if err != nil {
				return err
			}
			return writeJSON(out, map[string]int64{"count": n})
		}
		docs, err := store.Query(ctx, q)
		if err != nil {
			return err
		}
		payloads := make([]map[string]any, 0, len(docs))
		for _, doc := range docs {
			if _, err := entry.Decode(doc.Ref.ID, doc.Data); err != nil {
				return err
			}
			payloads = append(payloads, doc.Data)
		}
		return writeJSON(out, payloads)

	case "delete":
		entry, id, err := collectionAndID(rest)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, storagemodels.Ref(entry.Schema.Collection, id)); err != nil {
			return err
		}
		return writeJSON(out, map[string]string{"deleted": id})

	case "new-id":
		if len(rest) != 1 {
			return fmt.Errorf("new-id requires a collection")
		}
		entry, err := registry.Lookup(rest[0])
		if err != nil {
			return err
		}
		id, err := store.AllocateID(ctx, entry.Schema.Collection)
		if err != nil {
			return err
		}
		return writeJSON(out, map[string]string{"id": id})
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func collectionAndID(args []string) (registry.Entry, string, error) {
	if len(args) != 2 {
		return registry.Entry{}, "", fmt.Errorf("expected <collection> <id>")
	}
	entry, err := registry.Lookup(args[0])
	if err != nil {
		return registry.Entry{}, "", err
	}
	return entry, args[1], nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
