package audit

import (
	"context"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

// Sink is what the business services write to. A failed audit write never
// rolls back the business mutation; it is logged and counted instead.
type Sink interface {
	Record(ctx context.Context, entry Entry)
}

type Recorder struct {
	repo Repository
	feed *Feed
}

func NewRecorder(repo Repository, feed *Feed) *Recorder {
	return &Recorder{repo: repo, feed: feed}
}

func (r *Recorder) Record(ctx context.Context, entry Entry) {
	saved, err := r.repo.Insert(ctx, entry)
	if err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		logger.Error("audit write failed",
			"action", entry.Action,
			"target_type", entry.TargetType,
			"target_id", entry.TargetID,
			"error", err,
		)
		return
	}

	if r.feed == nil {
		return
	}
	if err := r.feed.Publish(ctx, *saved); err != nil {
		logger.Error("audit feed publish failed", "action", saved.Action, "error", err)
	}
}
