// Package scheduler runs the Build/FillLeafToRoot/Wrap/FillRootToLeaf
// pipeline over a batch of independent subgraphs concurrently. Subgraphs
// share no mutable state (spec.md §5), so the scheduler needs none of
// Kahn's-algorithm dependency tracking a general DAG processor would —
// only a bounded, fail-fast fan-out.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/hapgraph/rstcore/dag"
	"github.com/hapgraph/rstcore/rst"
)

var (
	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hap_rst_build_tasks_total",
		Help: "Subgraph builds by outcome",
	}, []string{"outcome"})

	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hap_rst_build_duration_seconds",
		Help:    "Per-subgraph build duration",
		Buckets: prometheus.DefBuckets,
	})

	tasksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hap_rst_build_tasks_in_flight",
		Help: "Subgraph builds currently running",
	})
)

// Task is one subgraph to build into a Region-Segment Tree.
type Task struct {
	Name   string
	Graph  *dag.Graph
	MinRes float64
}

// Result is the completed pipeline output for one Task.
type Result struct {
	Name string
	RT   *rst.RegionTable
	ST   *rst.SegmentTable
	Meta *rst.Meta
}

// TaskError wraps a pipeline failure with the subgraph it occurred in
// (spec.md §7, "each error includes the subgraph name").
type TaskError struct {
	Subgraph string
	Err      error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("subgraph %s: %v", e.Subgraph, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Run builds every task concurrently, bounded by concurrency (0 means
// unbounded). It fails fast: after the first task error, tasks that have
// not started yet return without building; builds already running are
// not interrupted, and their results are discarded. No partial results
// are returned (spec.md §7, "partial results MUST NOT be emitted").
func Run(ctx context.Context, tasks []Task, concurrency int, log logr.Logger) ([]Result, error) {
	results := make([]Result, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			tasksInFlight.Inc()
			start := time.Now()
			result, err := build(task)
			taskDuration.Observe(time.Since(start).Seconds())
			tasksInFlight.Dec()

			if err != nil {
				tasksTotal.WithLabelValues("error").Inc()
				log.Error(err, "subgraph build failed", "subgraph", task.Name)
				return &TaskError{Subgraph: task.Name, Err: err}
			}
			tasksTotal.WithLabelValues("success").Inc()
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func build(task Task) (Result, error) {
	rt, st, meta, ids, err := rst.Build(task.Graph, logr.Discard())
	if err != nil {
		return Result{}, fmt.Errorf("build: %w", err)
	}
	if err := rst.FillLeafToRoot(rt, st, ids); err != nil {
		return Result{}, fmt.Errorf("fill leaf-to-root: %w", err)
	}
	if err := rst.Wrap(rt, st, meta, task.MinRes, ids); err != nil {
		return Result{}, fmt.Errorf("wrap: %w", err)
	}
	if err := rst.FillRootToLeaf(rt, st, meta); err != nil {
		return Result{}, fmt.Errorf("fill root-to-leaf: %w", err)
	}
	meta.Name = task.Name
	return Result{Name: task.Name, RT: rt, ST: st, Meta: meta}, nil
}
