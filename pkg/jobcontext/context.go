package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyJobType      KeyContext = "job_type"
	keyRetryAttempt KeyContext = "retry_attempt"
	keyJobStartTime KeyContext = "job_start_time"
)

// ErrTimeout is returned by Retry when the deadline ran out before the call succeeded
var ErrTimeout = errors.New("operation timed out")

// JobMetadata holds metadata for a job execution
type JobMetadata struct {
	JobID        uuid.UUID
	JobType      string
	RetryAttempt int
	StartTime    time.Time
}

// Begin starts a processing job for a request.
// The returned context keeps the parent's values but not its cancellation, so a
// client that disconnects does not abort calls already in flight. timeout bounds
// the whole job; zero means no bound.
func Begin(parent context.Context, jobType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	ctx = context.WithValue(ctx, keyJobID, uuid.New())
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// Policy bounds a single outbound call
type Policy struct {
	// Timeout covers every attempt together
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first
	MaxRetries uint64
	// InitialInterval is the first backoff delay (default 1s)
	InitialInterval time.Duration
	// MaxInterval caps a single backoff delay (default 10s)
	MaxInterval time.Duration
}

// Retry runs op with exponential backoff until it succeeds, fails permanently,
// exhausts MaxRetries or runs out of time. Running out of time yields an error
// wrapping ErrTimeout.
func Retry(ctx context.Context, p Policy, op func(context.Context) error) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	bo.MaxInterval = 10 * time.Second
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}
	// bounded by the context and MaxRetries instead
	bo.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() (err error) {
		attemptCtx := SetRetryAttempt(ctx, attempt)
		attempt++

		defer func() {
			if r := recover(); r != nil {
				err = backoff.Permanent(fmt.Errorf("panic recovered: %v", r))
			}
		}()

		if err = op(attemptCtx); err == nil {
			return nil
		}
		if ctx.Err() == nil && !IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, p.MaxRetries), ctx))

	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %d attempt(s): %v", ErrTimeout, attempt, err)
	}
	return err
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetJobType extracts job type from context
func GetJobType(ctx context.Context) (string, bool) {
	jobType, ok := ctx.Value(keyJobType).(string)
	return jobType, ok
}

// GetRetryAttempt extracts current retry attempt from context
func GetRetryAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyRetryAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// SetRetryAttempt stores the attempt number in the context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobDuration returns how long the job has been running
func GetJobDuration(ctx context.Context) time.Duration {
	startTime, ok := GetJobStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(startTime)
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	jobType, _ := GetJobType(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		JobID:        jobID,
		JobType:      jobType,
		RetryAttempt: GetRetryAttempt(ctx),
		StartTime:    startTime,
	}
}

// IsRetryableError checks if an error is worth another attempt
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "eof") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// SMTP transient replies
	if strings.Contains(errStr, "421 ") ||
		strings.Contains(errStr, "450 ") ||
		strings.Contains(errStr, "451 ") {
		return true
	}

	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
