// Package pipeline implements the Pipeline Orchestrator: a generic
// sequential batch runner shared by the download, transcribe, and
// question-generation HTTP endpoints.
package pipeline

import "context"

// ItemResult is one item's outcome within a batch. Status is one of the
// per-operation enumerations named in spec.md §4.7 (e.g. "success",
// "duplicate", "failed"); Data carries the operation-specific payload.
type ItemResult[T any] struct {
	Item   string
	Status string
	Error  string
	Data   T
}

// BatchResult preserves input order and reports how many items were never
// attempted because the client disconnected mid-batch.
type BatchResult[T any] struct {
	Total     int
	Results   []ItemResult[T]
	Abandoned int
}

// ItemFunc performs the full component sequence for one item and returns
// its status label, payload, and any error for logging.
type ItemFunc[T any] func(ctx context.Context, item string) (status string, data T, err error)

// Run processes items strictly sequentially, in input order, per spec.md
// §5: "within a single request, batch items execute sequentially." If ctx
// is canceled (client disconnect) between items, remaining items are
// abandoned rather than started; items already in flight are not
// interrupted.
func Run[T any](ctx context.Context, items []string, fn ItemFunc[T]) BatchResult[T] {
	result := BatchResult[T]{Total: len(items)}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			result.Abandoned = len(items) - i
			break
		}

		status, data, err := fn(ctx, item)
		entry := ItemResult[T]{Item: item, Status: status, Data: data}
		if err != nil {
			entry.Error = err.Error()
		}
		result.Results = append(result.Results, entry)
	}

	return result
}
