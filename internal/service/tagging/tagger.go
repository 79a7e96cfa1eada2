package tagging

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/tag"

	"go.uber.org/zap"
)

type TagWriter interface {
	Create(ctx context.Context, t *tag.Tag) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, customerID int64, action string) (*activity.Entry, error)
}

// Tagger applies keyword rules to messages and writes a tag plus a timeline
// entry for every rule that fires. Tags are not deduplicated across calls.
type Tagger struct {
	rules    []Rule
	tags     TagWriter
	activity ActivityRecorder
	logger   *zap.Logger
}

func NewTagger(tags TagWriter, activity ActivityRecorder, logger *zap.Logger) *Tagger {
	return &Tagger{rules: DefaultRules, tags: tags, activity: activity, logger: logger}
}

// Apply tags customerID from text and returns the tags written.
func (t *Tagger) Apply(ctx context.Context, customerID int64, text string) ([]tag.Tag, error) {
	written := []tag.Tag{}
	for _, label := range Match(t.rules, text) {
		tg := tag.Tag{CustomerID: customerID, Tag: label}
		if err := t.tags.Create(ctx, &tg); err != nil {
			return written, fmt.Errorf("failed to add tag %q: %w", label, err)
		}
		written = append(written, tg)

		if _, err := t.activity.Record(ctx, customerID, activity.AutoTagged(label)); err != nil {
			return written, err
		}

		t.logger.Info("customer auto-tagged",
			zap.Int64("customer_id", customerID),
			zap.String("tag", label),
		)
	}
	return written, nil
}
