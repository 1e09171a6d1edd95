package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"quizroom-service/internal/domain"
)

// CatalogProvider lists catalog questions matching the filters.
type CatalogProvider interface {
	Questions(ctx context.Context, filters domain.Filters) ([]domain.Question, error)
}

// AIProvider generates questions from an external model. Failures are
// recoverable: the selector treats them as zero results.
type AIProvider interface {
	Generate(ctx context.Context, filters domain.Filters, count int) ([]domain.Question, error)
}

// TemplateGenerator produces a synthetic question. It never fails, falling
// back to a generic open-ended prompt when no template matches the chapter.
type TemplateGenerator interface {
	Generate(filters domain.Filters) domain.Question
}

// defaultAITimeout bounds the generative provider call.
const defaultAITimeout = 25 * time.Second

// Selector combines the three question tiers behind the QuestionSource
// contract: AI first when requested, then a shuffled catalog prefix, then
// synthetic templates for any shortfall.
type Selector struct {
	catalog   CatalogProvider
	ai        AIProvider // nil disables the AI tier
	synth     TemplateGenerator
	aiTimeout time.Duration

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewSelector(catalog CatalogProvider, ai AIProvider, synth TemplateGenerator) *Selector {
	return &Selector{
		catalog:   catalog,
		ai:        ai,
		synth:     synth,
		aiTimeout: defaultAITimeout,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand is test-only for deterministic shuffles.
func (s *Selector) WithRand(rnd *rand.Rand) *Selector {
	s.rnd = rnd
	return s
}

// Fetch returns up to count questions with ids disjoint from excludeIDs and
// from each other. It degrades to a short or empty result rather than failing;
// the caller decides whether that is fatal.
func (s *Selector) Fetch(ctx context.Context, filters domain.Filters, count int, excludeIDs map[string]struct{}) []domain.Question {
	if count <= 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(excludeIDs)+count)
	for id := range excludeIDs {
		seen[id] = struct{}{}
	}
	out := make([]domain.Question, 0, count)

	take := func(q domain.Question) bool {
		if _, dup := seen[q.ID]; dup {
			return false
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
		return true
	}

	if filters.UseAI && s.ai != nil {
		aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
		generated, err := s.ai.Generate(aiCtx, filters, count)
		cancel()
		if err != nil {
			// Provider failures are non-fatal; the lower tiers fill the gap.
			log.Printf("ai question provider failed: %v", err)
		}
		for _, q := range generated {
			if err := q.Validate(); err != nil {
				log.Printf("discarding generated question: %v", err)
				continue
			}
			if take(q); len(out) == count {
				return out
			}
		}
	}

	if len(out) < count {
		candidates, err := s.catalog.Questions(ctx, filters)
		if err != nil {
			log.Printf("catalog lookup failed: %v", err)
		}
		s.mu.Lock()
		s.rnd.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		s.mu.Unlock()
		for _, q := range candidates {
			if take(q); len(out) == count {
				return out
			}
		}
	}

	// Synthetic tier: retry id collisions within a bounded budget and return
	// short rather than ever emitting a duplicate.
	for attempts := count * 10; len(out) < count && attempts > 0; attempts-- {
		take(s.synth.Generate(filters))
	}
	return out
}
