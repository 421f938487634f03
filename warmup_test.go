package asidecache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

// Warmup isolation: one failing task is recorded as false, the rest still
// run, nothing is raised.
func TestWarmupIsolation(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	cc := newTestCache(t, ms, nil)
	defer cc.Close(ctx)

	var calls atomic.Int32
	tasks := []WarmupTask[course]{
		{
			Category: "featured",
			Key:      MustKey("course", "list", "featured"),
			Load: func(context.Context) (course, error) {
				return course{}, errors.New("upstream 500")
			},
		},
		{
			Category: "catalog",
			Key:      MustKey("course", "list", "all"),
			Load:     staticLoader(course{Title: "All"}, &calls),
		},
	}

	got := cc.Warmup(ctx, tasks)
	if len(got) != 2 || got["featured"] || !got["catalog"] {
		t.Fatalf("Warmup = %v, want {featured:false catalog:true}", got)
	}

	// The successful task's result landed under its normal key.
	if _, ok, _ := ms.Get(ctx, "course:list:all"); !ok {
		t.Fatalf("warmup result missing from store")
	}
	// And a later read hits it without reloading.
	if _, err := cc.GetOrSet(ctx, MustKey("course", "list", "all"), staticLoader(course{}, &calls), 0); err != nil {
		t.Fatalf("GetOrSet after warmup: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("warmed entry should hit; %d loads", calls.Load())
	}
}

// A panicking task is contained and recorded as false.
func TestWarmupPanicContained(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemStore(), nil)
	defer cc.Close(ctx)

	got := cc.Warmup(ctx, []WarmupTask[course]{
		{
			Category: "boom",
			Key:      MustKey("course", "boom"),
			Load:     func(context.Context) (course, error) { panic("loader bug") },
		},
		{
			Category: "ok",
			Key:      MustKey("course", "ok"),
			Load:     staticLoader(course{}, nil),
		},
	})
	if got["boom"] || !got["ok"] {
		t.Fatalf("Warmup = %v, want {boom:false ok:true}", got)
	}
}

// Misconfigured tasks (no loader, zero key, empty category) fail soft.
func TestWarmupMisconfiguredTasks(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemStore(), nil)
	defer cc.Close(ctx)

	got := cc.Warmup(ctx, []WarmupTask[course]{
		{Category: "no-loader", Key: MustKey("a", "b")},
		{Category: "no-key", Load: staticLoader(course{}, nil)},
	})
	if got["no-loader"] || got["no-key"] {
		t.Fatalf("Warmup = %v, want all false", got)
	}
}

// Warmup always returns one entry per task, even with an empty slice.
func TestWarmupStatusComplete(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemStore(), nil)
	defer cc.Close(ctx)

	if got := cc.Warmup(ctx, nil); len(got) != 0 {
		t.Fatalf("Warmup(nil) = %v", got)
	}

	tasks := make([]WarmupTask[course], 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tasks = append(tasks, WarmupTask[course]{
			Category: id,
			Key:      MustKey("course", id),
			Load:     staticLoader(course{ID: id}, nil),
		})
	}
	got := cc.Warmup(ctx, tasks)
	if len(got) != 5 {
		t.Fatalf("status map has %d entries, want 5", len(got))
	}
	for cat, ok := range got {
		if !ok {
			t.Fatalf("task %q unexpectedly failed", cat)
		}
	}
}
