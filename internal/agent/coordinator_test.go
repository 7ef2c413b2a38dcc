package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

type executorFunc func(ctx context.Context, st schema.Subtask) (string, error)

func (f executorFunc) Execute(ctx context.Context, st schema.Subtask) (string, error) {
	return f(ctx, st)
}

func plan(descriptions ...string) []schema.Subtask {
	out := make([]schema.Subtask, len(descriptions))
	for i, d := range descriptions {
		out[i] = schema.NewSubtask(i, d)
	}
	return out
}

func TestCoordinator_PreservesOrder(t *testing.T) {
	for n := 2; n <= 4; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			descs := make([]string, n)
			for i := range descs {
				descs[i] = fmt.Sprintf("task-%d", i)
			}
			// Later subtasks finish first.
			exec := executorFunc(func(_ context.Context, st schema.Subtask) (string, error) {
				time.Sleep(time.Duration(n-st.ID()) * 15 * time.Millisecond)
				return "done " + st.Description(), nil
			})

			results := NewCoordinator(exec, CoordinatorOptions{}).RunAll(context.Background(), plan(descs...))
			require.Len(t, results, n)
			for i, r := range results {
				assert.Equal(t, i, r.Subtask.ID())
				assert.True(t, r.Outcome.OK())
				assert.Equal(t, "done "+descs[i], r.Outcome.Text())
			}
		})
	}
}

func TestCoordinator_RunsConcurrently(t *testing.T) {
	var running, peak atomic.Int32
	release := make(chan struct{})
	exec := executorFunc(func(context.Context, schema.Subtask) (string, error) {
		cur := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		<-release
		return "ok", nil
	})

	done := make(chan []schema.SubtaskResult)
	go func() {
		done <- NewCoordinator(exec, CoordinatorOptions{}).RunAll(context.Background(), plan("a", "b", "c"))
	}()

	require.Eventually(t, func() bool { return running.Load() == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	assert.Len(t, <-done, 3)
	assert.EqualValues(t, 3, peak.Load())
}

func TestCoordinator_MaxParallel(t *testing.T) {
	var running, peak atomic.Int32
	exec := executorFunc(func(context.Context, schema.Subtask) (string, error) {
		cur := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return "ok", nil
	})

	results := NewCoordinator(exec, CoordinatorOptions{MaxParallel: 2}).RunAll(context.Background(), plan("a", "b", "c", "d"))
	assert.Len(t, results, 4)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestCoordinator_FailureIsolation(t *testing.T) {
	exec := executorFunc(func(_ context.Context, st schema.Subtask) (string, error) {
		if st.ID() == 1 {
			return "", errors.New("llm call: rate limit")
		}
		return "result " + st.Description(), nil
	})

	results := NewCoordinator(exec, CoordinatorOptions{}).RunAll(context.Background(), plan("a", "b", "c"))
	require.Len(t, results, 3)

	assert.True(t, results[0].Outcome.OK())
	assert.Equal(t, "result a", results[0].Outcome.Text())
	assert.False(t, results[1].Outcome.OK())
	assert.Equal(t, "Error: llm call: rate limit", results[1].Outcome.Text())
	assert.True(t, results[2].Outcome.OK())
	assert.Equal(t, "result c", results[2].Outcome.Text())
}

func TestCoordinator_Panic(t *testing.T) {
	exec := executorFunc(func(_ context.Context, st schema.Subtask) (string, error) {
		if st.ID() == 0 {
			panic("boom")
		}
		return "fine", nil
	})

	results := NewCoordinator(exec, CoordinatorOptions{}).RunAll(context.Background(), plan("a", "b"))
	assert.Equal(t, "Error: worker panicked: boom", results[0].Outcome.Text())
	assert.Equal(t, "fine", results[1].Outcome.Text())
}

func TestCoordinator_SubtaskTimeout(t *testing.T) {
	exec := executorFunc(func(ctx context.Context, st schema.Subtask) (string, error) {
		if st.ID() == 0 {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "quick", nil
	})

	start := time.Now()
	results := NewCoordinator(exec, CoordinatorOptions{SubtaskTimeout: 30 * time.Millisecond}).
		RunAll(context.Background(), plan("slow", "fast"))

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "Error: "+context.DeadlineExceeded.Error(), results[0].Outcome.Text())
	assert.Equal(t, "quick", results[1].Outcome.Text())
}

func TestCoordinator_MarkerSubtask(t *testing.T) {
	var called atomic.Bool
	exec := executorFunc(func(context.Context, schema.Subtask) (string, error) {
		called.Store(true)
		return "", nil
	})

	results := NewCoordinator(exec, CoordinatorOptions{}).RunAll(context.Background(), []schema.Subtask{schema.NewErrorSubtask()})
	require.Len(t, results, 1)
	assert.Equal(t, "Error", results[0].Subtask.Description())
	assert.Equal(t, FailedToProcessSubtasks, results[0].Outcome.Text())
	assert.False(t, results[0].Outcome.OK())
	assert.False(t, called.Load())
}

func TestCoordinator_Hooks(t *testing.T) {
	var mu sync.Mutex
	started := map[int]bool{}
	finished := map[int]bool{}
	opts := CoordinatorOptions{
		OnStart: func(st schema.Subtask) {
			mu.Lock()
			defer mu.Unlock()
			started[st.ID()] = true
		},
		OnFinish: func(r schema.SubtaskResult) {
			mu.Lock()
			defer mu.Unlock()
			finished[r.Subtask.ID()] = r.Outcome.OK()
		},
	}
	exec := executorFunc(func(context.Context, schema.Subtask) (string, error) { return "ok", nil })

	NewCoordinator(exec, opts).RunAll(context.Background(), plan("a", "b"))
	assert.Equal(t, map[int]bool{0: true, 1: true}, started)
	assert.Equal(t, map[int]bool{0: true, 1: true}, finished)
}

func TestCoordinator_Empty(t *testing.T) {
	results := NewCoordinator(nil, CoordinatorOptions{}).RunAll(context.Background(), nil)
	assert.Empty(t, results)
}
