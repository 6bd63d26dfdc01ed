package processor

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// run tracks the statuses of one pipeline invocation.
type run struct {
	id       string
	report   *Report
	onStatus StatusFunc
}

func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func (p *implProcessor) startRun(ctx context.Context, onStatus StatusFunc) (context.Context, *run) {
	id := newRunID()
	return logger.WithRunID(ctx, id), &run{
		id:       id,
		report:   &Report{RunID: id},
		onStatus: onStatus,
	}
}

// finish records the outcome of a stage: log line, metrics, report entry and
// status callback.
func (p *implProcessor) finish(ctx context.Context, r *run, stage Stage, start time.Time, err error, okMessage string) {
	st := Status{RunID: r.id, Stage: stage, OK: err == nil, Message: okMessage}
	if err != nil {
		st.Message = fmt.Sprintf("%s failed: %s", stage, failureMessage(err))
		p.logger.Error(ctx, "Stage %s failed [%s]: %v", stage, apperr.CodeOf(err), err)
	} else {
		p.logger.Info(ctx, "[%s] %s", stage, okMessage)
	}

	p.metrics.ObserveStage(string(stage), err == nil, time.Since(start))
	r.report.Statuses = append(r.report.Statuses, st)
	if r.onStatus != nil {
		r.onStatus(st)
	}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	default:
		return apperr.UserMessage(err)
	}
}
