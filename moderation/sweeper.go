package moderation

import (
	"context"
	"log/slog"
	"social-lab/domain"
)

// MessageFlagger is the part of the message store a sweep needs.
type MessageFlagger interface {
	GetAll(ctx context.Context) ([]domain.Message, error)
	Flag(ctx context.Context, id string) error
}

// Sweeper flags stored messages that contain censored words. Nothing is
// flagged implicitly on save; a sweep is always an explicit call.
type Sweeper struct {
	store     MessageFlagger
	moderator *Moderator
	log       *slog.Logger
}

type SweepReport struct {
	Scanned        int
	AlreadyFlagged int
	Flagged        []string
}

func NewSweeper(store MessageFlagger, moderator *Moderator, log *slog.Logger) *Sweeper {
	return &Sweeper{store: store, moderator: moderator, log: log}
}

// Sweep stops at the first failing flag call and returns what was done so far.
func (s *Sweeper) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	messages, err := s.store.GetAll(ctx)
	if err != nil {
		return report, err
	}

	for _, m := range messages {
		report.Scanned++
		if m.Flag {
			report.AlreadyFlagged++
			continue
		}
		if !s.moderator.Detect(m.Message) {
			continue
		}
		if err := s.store.Flag(ctx, m.ID); err != nil {
			return report, err
		}
		report.Flagged = append(report.Flagged, m.ID)
		s.log.Info("Message flagged by sweep", "id", m.ID)
	}
	s.log.Debug("Sweep done", "scanned", report.Scanned, "flagged", len(report.Flagged))
	return report, nil
}
