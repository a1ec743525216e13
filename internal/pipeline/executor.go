package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadqual/internal/model"
)

// outcome is the per-record result of one stage.
type outcome struct {
	rec      model.CandidateRecord
	rejected bool
	reasons  []string
	quality  float64
}

// stageFunc processes a single record. It operates on a private copy and
// must not touch shared state beyond the read-only configuration.
type stageFunc func(model.CandidateRecord) outcome

// stageExecutor abstracts how a stage maps over its input set. The
// sequential and worker-pool executors are behaviorally identical: both
// preserve input order in their output.
type stageExecutor interface {
	run(ctx context.Context, in []model.CandidateRecord, fn stageFunc) []outcome
}

// sequentialExecutor processes one record at a time.
type sequentialExecutor struct{}

func (sequentialExecutor) run(_ context.Context, in []model.CandidateRecord, fn stageFunc) []outcome {
	out := make([]outcome, 0, len(in))
	for _, rec := range in {
		out = append(out, fn(rec))
	}
	return out
}

// poolExecutor splits the input into fixed-size batches consumed by a
// bounded worker pool. Workers write to disjoint output slots that are
// concatenated at the join point, so no locking is needed and the result
// order matches the sequential executor exactly.
type poolExecutor struct {
	workers   int
	batchSize int
}

func (p poolExecutor) run(ctx context.Context, in []model.CandidateRecord, fn stageFunc) []outcome {
	if len(in) == 0 {
		return nil
	}

	size := p.batchSize
	if size < 1 {
		size = 1
	}
	nBatches := (len(in) + size - 1) / size
	slots := make([][]outcome, nBatches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for b := 0; b < nBatches; b++ {
		start := b * size
		end := start + size
		if end > len(in) {
			end = len(in)
		}
		batch := in[start:end]
		slot := b

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results := make([]outcome, 0, len(batch))
			for _, rec := range batch {
				results = append(results, fn(rec))
			}
			slots[slot] = results
			return nil
		})
	}
	_ = g.Wait()

	out := make([]outcome, 0, len(in))
	for _, slot := range slots {
		out = append(out, slot...)
	}
	return out
}
