package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/domain/ai"
	"crm-service/internal/domain/message"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/llm"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	kindReply   = "reply"
	kindSummary = "summary"
)

type CustomerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ReplyStore interface {
	FindReply(ctx context.Context, customerID int64, msg string) (*ai.ReplyCacheEntry, error)
	SaveReply(ctx context.Context, e *ai.ReplyCacheEntry) error
}

type SummaryStore interface {
	LatestSummary(ctx context.Context, customerID int64) (*ai.Summary, error)
	SaveSummary(ctx context.Context, s *ai.Summary) error
}

type MessageReader interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]message.Message, error)
	LatestAt(ctx context.Context, customerID int64) (time.Time, error)
}

// QuotaLimiter guards outbound completion calls. A refusal is handled like a
// provider rate limit.
type QuotaLimiter interface {
	Allow(ctx context.Context) (bool, error)
}

type Recorder interface {
	CacheLookup(kind string, hit bool)
	AICall(kind, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool) {}
func (nopRecorder) AICall(string, string)    {}

// AIService generates replies and summaries with cache-aside over the stores.
// Failed completions are never cached.
type AIService struct {
	completer llm.Completer
	customers CustomerChecker
	replies   ReplyStore
	summaries SummaryStore
	messages  MessageReader
	limiter   QuotaLimiter
	recorder  Recorder
	cfg       config.AIConfig
	inflight  singleflight.Group
	logger    *zap.Logger
}

// NewAIService wires the gateway. limiter and recorder may be nil.
func NewAIService(
	completer llm.Completer,
	customers CustomerChecker,
	replies ReplyStore,
	summaries SummaryStore,
	messages MessageReader,
	limiter QuotaLimiter,
	recorder Recorder,
	cfg config.AIConfig,
	logger *zap.Logger,
) *AIService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AIService{
		completer: completer,
		customers: customers,
		replies:   replies,
		summaries: summaries,
		messages:  messages,
		limiter:   limiter,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateReply returns the cached reply for (customerID, message) or asks the model for one.
// Rate limits and provider failures yield a degraded result, not an error.
func (s *AIService) GenerateReply(ctx context.Context, customerID int64, req *ai.ReplyRequest) (*ai.ReplyResult, error) {
	if customerID <= 0 {
		return nil, xerrors.Invalid("customer_id is required")
	}
	// The cache is keyed on the text exactly as sent; trimming only decides emptiness.
	msg := req.Message
	if strings.TrimSpace(msg) == "" {
		return nil, xerrors.Invalid("message is required")
	}
	tone := ai.ParseTone(req.Tone)

	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	cached, err := s.lookupReply(ctx, customerID, msg)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return &ai.ReplyResult{Reply: cached.Reply, Tone: cached.Tone, Cached: true}, nil
	}

	key := fmt.Sprintf("%d\x00%s", customerID, msg)
	v, err, shared := s.inflight.Do(key, func() (interface{}, error) {
		return s.generateReply(ctx, customerID, msg, tone)
	})
	if err != nil {
		return nil, err
	}

	result := *v.(*ai.ReplyResult)
	if shared {
		s.logger.Debug("reply shared with concurrent request", zap.Int64("customer_id", customerID))
	}
	return &result, nil
}

func (s *AIService) lookupReply(ctx context.Context, customerID int64, msg string) (*ai.ReplyCacheEntry, error) {
	e, err := s.replies.FindReply(ctx, customerID, msg)
	switch {
	case err == nil:
		s.recorder.CacheLookup(kindReply, true)
		return e, nil
	case errors.Is(err, xerrors.ErrNotFound):
		s.recorder.CacheLookup(kindReply, false)
		return nil, nil
	default:
		return nil, fmt.Errorf("failed to read reply cache: %w", err)
	}
}

func (s *AIService) generateReply(ctx context.Context, customerID int64, msg string, tone ai.Tone) (*ai.ReplyResult, error) {
	text, err := s.complete(ctx, kindReply, ai.ReplyPrompt(tone, msg), s.cfg.ReplyMaxTokens)
	if err != nil {
		kind, detail := classify(err)
		s.logger.Warn("AI reply failed",
			zap.Int64("customer_id", customerID),
			zap.String("failure", string(kind)),
			zap.Error(err),
		)

		result := &ai.ReplyResult{Tone: tone, Degraded: true, Failure: kind}
		if kind == ai.FailureRateLimited {
			result.Reply = ai.RateLimitedReply
		} else {
			result.Reply = ai.ProviderErrorReply(detail)
		}
		return result, nil
	}

	entry := &ai.ReplyCacheEntry{CustomerID: customerID, Message: msg, Tone: tone, Reply: text}
	if err := s.replies.SaveReply(ctx, entry); err != nil {
		// returned uncached
		s.logger.Error("failed to cache AI reply", zap.Int64("customer_id", customerID), zap.Error(err))
		return &ai.ReplyResult{Reply: text, Tone: tone}, nil
	}

	s.logger.Info("AI reply generated",
		zap.Int64("customer_id", customerID),
		zap.String("tone", string(tone)),
	)
	return &ai.ReplyResult{Reply: entry.Reply, Tone: entry.Tone}, nil
}

// GenerateSummary summarises the customer's conversation. Rate limits surface as
// ErrAIRateLimited and provider failures as ErrAIProvider.
func (s *AIService) GenerateSummary(ctx context.Context, customerID int64) (*ai.SummaryResult, error) {
	if !s.cfg.SummaryEnabled {
		return nil, ai.ErrAIDisabled
	}
	if customerID <= 0 {
		return nil, xerrors.Invalid("customer_id is required")
	}

	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	existing, err := s.summaries.LatestSummary(ctx, customerID)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}
	if existing != nil {
		fresh, err := s.summaryIsFresh(ctx, existing)
		if err != nil {
			return nil, err
		}
		if fresh {
			s.recorder.CacheLookup(kindSummary, true)
			return &ai.SummaryResult{Summary: existing.SummaryText, Cached: true, GeneratedAt: existing.Timestamp}, nil
		}
	}
	s.recorder.CacheLookup(kindSummary, false)

	msgs, err := s.messages.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = m.MessageText
	}

	text, err := s.complete(ctx, kindSummary, ai.SummaryPrompt(strings.Join(lines, "\n")), s.cfg.SummaryMaxTokens)
	if err != nil {
		kind, detail := classify(err)
		s.logger.Warn("AI summary failed",
			zap.Int64("customer_id", customerID),
			zap.String("failure", string(kind)),
			zap.Error(err),
		)
		if kind == ai.FailureRateLimited {
			return nil, ai.ErrAIRateLimited
		}
		return nil, fmt.Errorf("%w: %s", ai.ErrAIProvider, detail)
	}

	summary := &ai.Summary{CustomerID: customerID, SummaryText: text}
	if err := s.summaries.SaveSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	s.logger.Info("AI summary generated",
		zap.Int64("customer_id", customerID),
		zap.Int("messages", len(msgs)),
	)
	return &ai.SummaryResult{Summary: summary.SummaryText, GeneratedAt: summary.Timestamp}, nil
}

func (s *AIService) ensureCustomer(ctx context.Context, customerID int64) error {
	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: customer %d", xerrors.ErrNotFound, customerID)
	}
	return nil
}

// LatestSummary returns the stored summary without generating one.
func (s *AIService) LatestSummary(ctx context.Context, customerID int64) (*ai.Summary, error) {
	return s.summaries.LatestSummary(ctx, customerID)
}

// summaryIsFresh applies the configured mode. In refresh mode a message newer
// than the summary invalidates it.
func (s *AIService) summaryIsFresh(ctx context.Context, existing *ai.Summary) (bool, error) {
	if s.cfg.SummaryMode != config.SummaryModeRefresh {
		return true, nil
	}
	latest, err := s.messages.LatestAt(ctx, existing.CustomerID)
	if err != nil {
		return false, fmt.Errorf("failed to read latest message: %w", err)
	}
	return !latest.After(existing.Timestamp), nil
}

// complete makes a single attempt, consulting the local quota first.
func (s *AIService) complete(ctx context.Context, kind, prompt string, maxTokens int) (string, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx)
		if err != nil {
			s.logger.Warn("AI quota check failed, allowing call", zap.Error(err))
		} else if !ok {
			s.recorder.AICall(kind, string(ai.FailureRateLimited))
			return "", &llm.RateLimitError{Status: 429}
		}
	}

	text, err := s.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		failure, _ := classify(err)
		s.recorder.AICall(kind, string(failure))
		return "", err
	}
	s.recorder.AICall(kind, "ok")
	return text, nil
}

func classify(err error) (ai.FailureKind, string) {
	if llm.IsRateLimit(err) {
		return ai.FailureRateLimited, err.Error()
	}
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		return ai.FailureProvider, pe.Message
	}
	return ai.FailureProvider, err.Error()
}
