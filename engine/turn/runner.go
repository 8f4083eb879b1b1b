package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
)

const (
	defaultPollInterval = time.Second
	defaultMaxWait      = 2 * time.Minute
)

// PollPolicy bounds the wait for a submitted turn. MaxWait makes the bound
// explicit so a stuck run fails closed instead of hanging.
type PollPolicy struct {
	// Interval between polls. Defaults to 1s.
	Interval time.Duration
	// Multiplier > 1 grows the interval after each poll (capped by
	// MaxInterval). Zero or 1 keeps the interval fixed.
	Multiplier float64
	// MaxInterval caps a growing interval. Ignored when Multiplier <= 1.
	MaxInterval time.Duration
	// MaxWait is the wall-clock deadline for the whole turn. Defaults to 2m.
	MaxWait time.Duration
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval: defaultPollInterval,
		MaxWait:  defaultMaxWait,
	}
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = defaultPollInterval
	}
	if p.MaxWait <= 0 {
		p.MaxWait = defaultMaxWait
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	return p
}

func (p PollPolicy) next(current time.Duration) time.Duration {
	if p.Multiplier <= 1 {
		return current
	}
	grown := time.Duration(float64(current) * p.Multiplier)
	if grown > p.MaxInterval {
		return p.MaxInterval
	}
	return grown
}

// Runner executes one conversational turn: submit, poll to a terminal state,
// extract the reply. Every turn runs in a fresh conversation scope.
type Runner struct {
	client contractx.ReasoningClient
	policy PollPolicy

	now func() time.Time
}

var _ contractx.TurnRunner = (*Runner)(nil)

func NewRunner(client contractx.ReasoningClient, policy PollPolicy) (*Runner, error) {
	if client == nil {
		return nil, errors.New("reasoning client is required")
	}
	return &Runner{
		client: client,
		policy: policy.withDefaults(),
		now:    time.Now,
	}, nil
}

func (r *Runner) RunTurn(ctx context.Context, agentHandle string, userText string) (string, error) {
	handle := strings.TrimSpace(agentHandle)
	if handle == "" {
		return "", fmt.Errorf("%w: agent handle is empty", contractx.ErrValidation)
	}
	text := strings.TrimSpace(userText)
	if text == "" {
		return "", fmt.Errorf("%w: user text is empty", contractx.ErrValidation)
	}

	job, err := r.client.SubmitTurn(ctx, handle, text)
	if err != nil {
		return "", fmt.Errorf("submit turn: %w", err)
	}

	deadline := r.now().Add(r.policy.MaxWait)
	interval := r.policy.Interval

	for {
		status, err := r.client.PollJob(ctx, job)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("%w: %v", contractx.ErrTurnTimeout, ctxErr)
			}
			return "", fmt.Errorf("poll turn: %w", err)
		}

		switch status.State {
		case contractx.JobCompleted:
			return r.fetchReply(ctx, job)
		case contractx.JobFailed:
			reason := status.Reason
			if reason == "" {
				reason = "unspecified failure"
			}
			return "", fmt.Errorf("%w: %s", contractx.ErrTurnExecution, reason)
		case contractx.JobExpired:
			return "", fmt.Errorf("%w: run expired service-side", contractx.ErrTurnTimeout)
		}

		if r.now().Add(interval).After(deadline) {
			return "", fmt.Errorf("%w: no terminal state within %s", contractx.ErrTurnTimeout, r.policy.MaxWait)
		}
		if err := sleep(ctx, interval); err != nil {
			return "", fmt.Errorf("%w: %v", contractx.ErrTurnTimeout, err)
		}
		interval = r.policy.next(interval)
	}
}

func (r *Runner) fetchReply(ctx context.Context, job contractx.JobHandle) (string, error) {
	reply, err := r.client.FetchReply(ctx, job)
	if err != nil {
		return "", fmt.Errorf("fetch reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: scope=%s run=%s", contractx.ErrEmptyReply, job.Scope, job.Run)
	}
	return reply, nil
}

// sleep parks until the interval elapses or ctx is done. Never busy-spins.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
