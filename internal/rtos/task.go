package rtos

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TaskFunc is the body of a task. It runs until ctx is cancelled or the task
// decides to stop.
type TaskFunc func(ctx context.Context) error

// Task is a named, prioritized unit of work. Lower Priority values are more
// urgent; tasks are started in priority order.
type Task struct {
	Name     string
	Priority int
	Run      TaskFunc
}

// RunTasks starts every task in its own goroutine and waits for all of them.
// A task returning an error other than a context cancellation or deadline
// cancels the rest and that error is returned.
func RunTasks(ctx context.Context, log zerolog.Logger, tasks ...Task) error {
	ordered := make([]Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range ordered {
		log.Debug().Str("task", t.Name).Int("priority", t.Priority).Msg("task created")
		g.Go(func() error {
			err := t.Run(gctx)
			if err != nil && !isStop(err) {
				log.Error().Err(err).Str("task", t.Name).Msg("task failed")
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func isStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func yield() {
	runtime.Gosched()
}
