package client

import (
	"context"
	"time"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// PollUntilComplete repeatedly fetches taskID at interval, returning the
// task as soon as it reaches a terminal state. maxAttempts = 0 means
// unlimited; exhausting a positive maxAttempts yields a Timeout error.
// Cancelling ctx while waiting between polls returns ctx.Err() wrapped as a
// Timeout error; a cancellation that interrupts an in-flight GetTask returns
// that call's error instead.
func (cl *Client) PollUntilComplete(ctx context.Context, taskID string, interval time.Duration, maxAttempts int) (a2a.Task, error) {
	for attempt := 1; maxAttempts == 0 || attempt <= maxAttempts; attempt++ {
		task, err := cl.GetTask(ctx, taskID)
		if err != nil {
			return a2a.Task{}, err
		}
		if task.IsTerminal() {
			return task, nil
		}

		if maxAttempts != 0 && attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return a2a.Task{}, a2a.Wrap(a2a.KindTimeout, ctx.Err())
		}
	}

	return a2a.Task{}, a2a.NewError(a2a.KindTimeout, "poll-until-complete exhausted its attempts")
}
