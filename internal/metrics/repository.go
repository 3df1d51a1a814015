package metrics

import (
	"context"
	"time"

	"github.com/arsw/blueprints/internal/blueprint"
)

// InstrumentedRepository records every call to the wrapped repository.
type InstrumentedRepository struct {
	next    blueprint.Repository
	metrics *Metrics
}

// InstrumentRepository wraps repo so its operations are counted and timed.
func InstrumentRepository(repo blueprint.Repository, m *Metrics) *InstrumentedRepository {
	return &InstrumentedRepository{next: repo, metrics: m}
}

func (r *InstrumentedRepository) observe(op string, start time.Time, err error) {
	r.metrics.RecordStoreOperation(op, err, time.Since(start))
}

func (r *InstrumentedRepository) Save(ctx context.Context, bp *blueprint.Blueprint) error {
	start := time.Now()
	err := r.next.Save(ctx, bp)
	r.observe("save", start, err)
	return err
}

func (r *InstrumentedRepository) Get(ctx context.Context, author, name string) (*blueprint.Blueprint, error) {
	start := time.Now()
	bp, err := r.next.Get(ctx, author, name)
	r.observe("get", start, err)
	return bp, err
}

func (r *InstrumentedRepository) GetByAuthor(ctx context.Context, author string) ([]blueprint.Blueprint, error) {
	start := time.Now()
	bps, err := r.next.GetByAuthor(ctx, author)
	r.observe("get_by_author", start, err)
	return bps, err
}

func (r *InstrumentedRepository) GetAll(ctx context.Context) ([]blueprint.Blueprint, error) {
	start := time.Now()
	bps, err := r.next.GetAll(ctx)
	r.observe("get_all", start, err)
	return bps, err
}

func (r *InstrumentedRepository) AppendPoint(ctx context.Context, author, name string, p blueprint.Point) error {
	start := time.Now()
	err := r.next.AppendPoint(ctx, author, name, p)
	r.observe("append_point", start, err)
	return err
}

// Ping forwards to the wrapped repository when it supports health checks.
func (r *InstrumentedRepository) Ping(ctx context.Context) error {
	if p, ok := r.next.(blueprint.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
