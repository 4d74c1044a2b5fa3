/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics decorates a DocumentStore with Prometheus counters and
// latency histograms.
package metrics

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

// Collector owns the store metrics and the registry they live in.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	documents  *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of document store operations",
		}, []string{"backend", "operation", "collection", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of document store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_documents_read_total",
			Help:      "Total number of documents returned by queries",
		}, []string{"backend", "collection"}),
	}
	reg.MustRegister(c.operations, c.duration, c.documents)
	return c
}

// Registry returns the Prometheus registry
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteText writes every gathered metric family in the text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Status classifies an error for the status label.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.IsNotFound(err):
		return "not_found"
	case errors.IsAlreadyExists(err):
		return "already_exists"
	case errors.IsEncodingError(err):
		return "encoding_error"
	case errors.IsDecodingError(err):
		return "decoding_error"
	case errors.IsValidationError(err):
		return "invalid"
	}
	return "store_error"
}

func (c *Collector) observe(backend, op, collection string, start time.Time, err error) {
	c.operations.WithLabelValues(backend, op, collection, Status(err)).Inc()
	c.duration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

// Wrap returns a DocumentStore that records every call on store.
func (c *Collector) Wrap(store datastore.DocumentStore, backend string) datastore.DocumentStore {
	return &instrumented{next: store, backend: backend, c: c}
}

type instrumented struct {
	next    datastore.DocumentStore
	backend string
	c       *Collector
}

func (s *instrumented) Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error) {
	start := time.Now()
	doc, err := s.next.Get(ctx, ref)
	s.c.observe(s.backend, "get", ref.Collection, start, err)
	return doc, err
}

func (s *instrumented) Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error {
	start := time.Now()
	err := s.next.Set(ctx, ref, payload, overwrite)
	s.c.observe(s.backend, "set", ref.Collection, start, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, ref storagemodels.DocumentRef) error {
	start := time.Now()
	err := s.next.Delete(ctx, ref)
	s.c.observe(s.backend, "delete", ref.Collection, start, err)
	return err
}

func (s *instrumented) AllocateID(ctx context.Context, collection string) (string, error) {
	start := time.Now()
	id, err := s.next.AllocateID(ctx, collection)
	s.c.observe(s.backend, "allocate_id", collection, start, err)
	return id, err
}

func (s *instrumented) Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error) {
	start := time.Now()
	docs, err := s.next.Query(ctx, q)
	collection := ""
	if q != nil {
		collection = q.Collection
	}
	s.c.observe(s.backend, "query", collection, start, err)
	if err == nil {
		s.c.documents.WithLabelValues(s.backend, collection).Add(float64(len(docs)))
	}
	return docs, err
}

func (s *instrumented) Count(ctx context.Context, q *storagemodels.Query) (int64, error) {
	start := time.Now()
	n, err := s.next.Count(ctx, q)
	collection := ""
	if q != nil {
		collection = q.Collection
	}
	s.c.observe(s.backend, "count", collection, start, err)
	return n, err
}

func (s *instrumented) Commit(ctx context.Context, writes []storagemodels.Write) error {
	start := time.Now()
	err := s.next.Commit(ctx, writes)
	s.c.observe(s.backend, "commit", "", start, err)
	return err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}
