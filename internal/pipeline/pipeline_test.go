package pipeline

import (
	"context"
	"errors"
	"testing"
)

func TestRunPreservesInputOrder(t *testing.T) {
	items := []string{"c", "a", "b"}
	var seen []string

	result := Run(context.Background(), items, func(ctx context.Context, item string) (string, string, error) {
		seen = append(seen, item)
		return StatusSuccess, item, nil
	})

	if len(result.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result.Results))
	}
	for i, item := range items {
		if result.Results[i].Item != item {
			t.Errorf("result[%d]: expected item %q, got %q", i, item, result.Results[i].Item)
		}
		if result.Results[i].Data != item {
			t.Errorf("result[%d]: expected data %q, got %q", i, item, result.Results[i].Data)
		}
	}
	if seen[0] != "c" || seen[1] != "a" || seen[2] != "b" {
		t.Errorf("expected items processed in input order, got %v", seen)
	}
}

func TestRunIsSequentialNotConcurrent(t *testing.T) {
	items := []string{"1", "2", "3", "4"}
	active := 0
	maxActive := 0

	Run(context.Background(), items, func(ctx context.Context, item string) (string, int, error) {
		active++
		if active > maxActive {
			maxActive = active
		}
		defer func() { active-- }()
		return StatusSuccess, 0, nil
	})

	if maxActive != 1 {
		t.Errorf("expected at most 1 concurrently active item, saw %d", maxActive)
	}
}

func TestRunCapturesPerItemStatusAndError(t *testing.T) {
	boom := errors.New("boom")
	items := []string{"ok", "bad"}

	result := Run(context.Background(), items, func(ctx context.Context, item string) (string, string, error) {
		if item == "bad" {
			return StatusFailed, "", boom
		}
		return StatusSuccess, "done", nil
	})

	if result.Results[0].Status != StatusSuccess || result.Results[0].Error != "" {
		t.Errorf("expected first item to succeed cleanly, got %+v", result.Results[0])
	}
	if result.Results[1].Status != StatusFailed || result.Results[1].Error != boom.Error() {
		t.Errorf("expected second item to fail with %q, got %+v", boom.Error(), result.Results[1])
	}
}

func TestRunAbandonsRemainingItemsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := []string{"a", "b", "c", "d"}
	processed := 0

	result := Run(ctx, items, func(ctx context.Context, item string) (string, string, error) {
		processed++
		if item == "b" {
			cancel()
		}
		return StatusSuccess, item, nil
	})

	if processed != 2 {
		t.Fatalf("expected exactly 2 items processed before cancellation observed, got %d", processed)
	}
	if len(result.Results) != 2 {
		t.Errorf("expected 2 completed results, got %d", len(result.Results))
	}
	if result.Abandoned != 2 {
		t.Errorf("expected 2 abandoned items, got %d", result.Abandoned)
	}
	if result.Total != 4 {
		t.Errorf("expected total 4, got %d", result.Total)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	result := Run(context.Background(), nil, func(ctx context.Context, item string) (string, string, error) {
		t.Fatal("fn should not be called for an empty batch")
		return "", "", nil
	})
	if result.Total != 0 || len(result.Results) != 0 || result.Abandoned != 0 {
		t.Errorf("expected an all-zero result for an empty batch, got %+v", result)
	}
}
