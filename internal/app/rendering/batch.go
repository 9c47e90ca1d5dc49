package rendering

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

// DefaultConcurrency bounds Batch when no limit is given.
const DefaultConcurrency = 4

// BatchItem is one document of a batch. When Document is nil it is parsed
// from Path.
type BatchItem struct {
	Path     string
	Document *config.Document
}

// BatchResult is the outcome for one item, in input order.
type BatchResult struct {
	Path   string
	Result render.Result
	Err    error
}

// Batch renders every item with the same mode and feedback flag, at most
// limit at a time. Per-item failures are reported in the results; only
// context cancellation fails the batch.
func (s *Service) Batch(ctx context.Context, mode string, feedback bool, items []BatchItem, limit int) ([]BatchResult, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]BatchResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		i, item := i, item
		results[i].Path = item.Path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			doc := item.Document
			if doc == nil {
				parsed, err := config.ParseDocument(item.Path)
				if err != nil {
					results[i].Err = err
					return nil
				}
				doc = parsed
			}

			res, err := s.Render(gctx, Request{Mode: mode, Document: doc, Feedback: feedback})
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
