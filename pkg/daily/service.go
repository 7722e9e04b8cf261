// Package daily orchestrates generation of one persisted wellness entity per
// (user, category, day): storage read-through, cache, named lock, score
// computation, model call with retry, repair, upsert.
package daily

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitalia-app/vitalia/pkg/aiclient"
	"github.com/vitalia-app/vitalia/pkg/cache"
	"github.com/vitalia-app/vitalia/pkg/insights"
	"github.com/vitalia-app/vitalia/pkg/lock"
	"github.com/vitalia-app/vitalia/pkg/retry"
	"github.com/vitalia-app/vitalia/pkg/score"
	"github.com/vitalia-app/vitalia/pkg/signals"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

const lockOperation = "generate"

// Status tells the caller which path produced (or withheld) the entity.
type Status string

const (
	// StatusGenerated means a fresh entity was computed and persisted.
	StatusGenerated Status = "generated"
	// StatusPersisted means today's row already existed in storage.
	StatusPersisted Status = "persisted"
	// StatusCached means the entity came straight from the TTL cache.
	StatusCached Status = "cached"
	// StatusInProgress means another caller is generating the same entity;
	// poll again shortly. Not an error.
	StatusInProgress Status = "in_progress"
	// StatusInsufficientData means fewer signals than the coverage gate
	// requires were recorded today. Not an error either.
	StatusInsufficientData Status = "insufficient_data"
)

// Result is what callers render. Entity is nil for the in-progress and
// insufficient-data statuses; Missing lists the absent signal categories
// when data was insufficient.
type Result struct {
	Status  Status               `json:"status"`
	Entity  *storage.DailyEntity `json:"entity,omitempty"`
	Missing []score.Category     `json:"missing_categories,omitempty"`
}

// Gateway is the persistence surface the service needs.
type Gateway interface {
	GetByDate(ctx context.Context, userID, category, day string) (*storage.DailyEntity, error)
	Upsert(ctx context.Context, e *storage.DailyEntity) error
}

// Generator is the text-generation surface.
type Generator interface {
	Generate(ctx context.Context, req aiclient.Request) (aiclient.Response, error)
}

// Logger lets callers plug in logrus or anything compatible.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config tunes the service. Zero values fall back to sane defaults.
type Config struct {
	Score       score.Config
	Retry       retry.Policy
	CacheTTL    time.Duration
	LockTimeout time.Duration
}

// Deps carries the explicitly constructed collaborators. Gateway, Generator
// and Signals are required; the rest default when nil/zero.
type Deps struct {
	Gateway   Gateway
	Generator Generator
	Signals   signals.Provider
	Cache     *cache.Cache[*storage.DailyEntity]
	Locks     *lock.Registry
	Config    Config
	Log       Logger
}

// Service generates and serves daily entities.
type Service struct {
	gateway   Gateway
	generator Generator
	signals   signals.Provider
	cache     *cache.Cache[*storage.DailyEntity]
	locks     *lock.Registry
	cfg       Config
	log       Logger
}

func New(deps Deps) *Service {
	cfg := deps.Config
	if cfg.Score.Weights == nil {
		cfg.Score = score.DefaultConfig()
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 30 * time.Second
	}

	c := deps.Cache
	if c == nil {
		c = cache.New[*storage.DailyEntity]()
	}
	locks := deps.Locks
	if locks == nil {
		locks = lock.NewRegistry()
	}
	logger := deps.Log
	if logger == nil {
		logger = nopLogger{}
	}

	return &Service{
		gateway:   deps.Gateway,
		generator: deps.Generator,
		signals:   deps.Signals,
		cache:     c,
		locks:     locks,
		cfg:       cfg,
		log:       logger,
	}
}

// GetOrGenerate returns today's entity for (user, category), generating and
// persisting it when needed. For a given key at most one generation runs at
// a time; concurrent callers get StatusInProgress instead of blocking.
func (s *Service) GetOrGenerate(ctx context.Context, userID string, category insights.Category, day time.Time) (Result, error) {
	dayKey := storage.Day(day)
	cacheKey := cacheKey(userID, category, dayKey)
	lockEntity := userID + ":" + string(category)

	// A persisted row for today always wins.
	existing, err := s.gateway.GetByDate(ctx, userID, string(category), dayKey)
	if err != nil {
		return Result{}, fmt.Errorf("read daily entry: %w", err)
	}
	if existing != nil {
		s.cache.Set(cacheKey, existing, s.cfg.CacheTTL)
		return Result{Status: StatusPersisted, Entity: existing}, nil
	}

	if cached, ok := s.cache.Get(cacheKey); ok {
		return Result{Status: StatusCached, Entity: cached}, nil
	}

	if !s.locks.TryAcquire(lockOperation, lockEntity, s.cfg.LockTimeout) {
		s.log.Debugf("generation already in flight for %s/%s", userID, category)
		return Result{Status: StatusInProgress}, nil
	}
	defer s.locks.Release(lockOperation, lockEntity)

	return s.generate(ctx, userID, category, dayKey, cacheKey)
}

func (s *Service) generate(ctx context.Context, userID string, category insights.Category, dayKey, cacheKey string) (Result, error) {
	sig, err := s.signals.Collect(ctx, userID, mustParseDay(dayKey))
	if err != nil {
		return Result{}, fmt.Errorf("collect signals: %w", err)
	}

	scored := score.Compute(sig, s.cfg.Score)
	if scored.Score == nil {
		s.log.Infof("insufficient data for %s/%s: %d of %d signals present",
			userID, category, len(scored.Included), s.cfg.Score.MinCoverage)
		return Result{Status: StatusInsufficientData, Missing: scored.Missing}, nil
	}

	entity := &storage.DailyEntity{
		UserID:   userID,
		Category: string(category),
		Day:      dayKey,
		Score:    scored,
	}

	text, genErr := s.callGenerator(ctx, userID, category, dayKey, scored)
	if genErr != nil {
		// Degrade rather than fail: the score is real, the advice comes
		// from the curated catalog.
		s.log.Warnf("generation failed for %s/%s, serving fallback: %v", userID, category, genErr)
		entity.Recommendations = insights.Parse("", category)
		entity.Fallback = true
	} else {
		entity.Recommendations = insights.Parse(text, category)
	}
	entity.Summary = buildSummary(scored, entity.Recommendations)

	if err := s.gateway.Upsert(ctx, entity); err != nil {
		return Result{}, fmt.Errorf("persist daily entry: %w", err)
	}
	s.cache.Set(cacheKey, entity, s.cfg.CacheTTL)

	s.log.Infof("generated daily entry for %s/%s (score %d, %d recommendations)",
		userID, category, *scored.Score, len(entity.Recommendations))
	return Result{Status: StatusGenerated, Entity: entity}, nil
}

func (s *Service) callGenerator(ctx context.Context, userID string, category insights.Category, dayKey string, scored score.Result) (string, error) {
	req := aiclient.Request{
		Prompt:    buildPrompt(category, scored),
		SessionID: fmt.Sprintf("daily-%s-%s", userID, dayKey),
		UserContext: map[string]any{
			"score":              *scored.Score,
			"includedCategories": scored.Included,
			"missingCategories":  scored.Missing,
		},
	}

	var text string
	err := s.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		resp, err := s.generator.Generate(ctx, req)
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	}, aiclient.IsRetryable)
	return text, err
}

// buildPrompt asks for machine-readable output; the repair chain copes when
// the model ignores that.
func buildPrompt(category insights.Category, scored score.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's composite wellness score is %d/100.\n", *scored.Score)
	fmt.Fprintf(&b, "Signals present: %s.\n", joinCategories(scored.Included))
	if len(scored.Missing) > 0 {
		fmt.Fprintf(&b, "Signals missing: %s.\n", joinCategories(scored.Missing))
	}
	fmt.Fprintf(&b, "Reply with JSON only: {\"recommendations\":[{\"title\",\"description\",\"priority\",\"category\",\"estimatedTime\"}]} ")
	fmt.Fprintf(&b, "with 3 %s-focused, specific, actionable suggestions.", category)
	return b.String()
}

func buildSummary(scored score.Result, recs []insights.Recommendation) string {
	top := ""
	if len(recs) > 0 {
		top = " Top suggestion: " + recs[0].Action + "."
	}
	return fmt.Sprintf("Score %d from %d signals.%s", *scored.Score, len(scored.Included), top)
}

func joinCategories(cats []score.Category) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func cacheKey(userID string, category insights.Category, day string) string {
	return "daily:" + userID + ":" + string(category) + ":" + day
}

// InvalidateUser drops every cached entity for the user, e.g. after their
// goals change.
func (s *Service) InvalidateUser(userID string) {
	s.cache.InvalidatePrefix("daily:" + userID + ":")
}

func mustParseDay(day string) time.Time {
	t, err := time.Parse(storage.DayFormat, day)
	if err != nil {
		return time.Now()
	}
	return t
}
