package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"quizroom-service/internal/app"
	"quizroom-service/internal/domain"
)

type stubCatalog struct {
	questions []domain.Question
	err       error
}

func (s *stubCatalog) Questions(_ context.Context, filters domain.Filters) ([]domain.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	matched := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if filters.Matches(q) {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

type stubAI struct {
	questions []domain.Question
	err       error
	calls     int
}

func (s *stubAI) Generate(_ context.Context, _ domain.Filters, _ int) ([]domain.Question, error) {
	s.calls++
	return s.questions, s.err
}

// seqSynth emits questions with sequential ids; fixedSynth always collides.
type seqSynth struct{ n int }

func (s *seqSynth) Generate(filters domain.Filters) domain.Question {
	s.n++
	return domain.Question{
		ID: fmt.Sprintf("synth-%d", s.n), Grade: filters.Grade, Subject: filters.Subject,
		Chapter: filters.Chapter, Type: domain.TypeShort,
		Question: "generated", Answer: "generated", Source: "synthetic",
	}
}

type fixedSynth struct{}

func (fixedSynth) Generate(domain.Filters) domain.Question {
	return domain.Question{
		ID: "synth-same", Type: domain.TypeShort,
		Question: "generated", Answer: "generated", Source: "synthetic",
	}
}

func assertUniqueIDs(t *testing.T, questions []domain.Question, exclude map[string]struct{}) {
	t.Helper()
	seen := make(map[string]struct{})
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			t.Fatalf("duplicate id %s in result", q.ID)
		}
		if _, excluded := exclude[q.ID]; excluded {
			t.Fatalf("excluded id %s in result", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
}

func TestFetchRespectsExclusionsAndUniqueness(t *testing.T) {
	catalog := &stubCatalog{questions: questionsFixture("q1", "q2", "q3", "q4")}
	selector := app.NewSelector(catalog, nil, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	exclude := map[string]struct{}{"q1": {}, "q3": {}}
	got := selector.Fetch(context.Background(), domain.Filters{}, 4, exclude)

	if len(got) != 4 {
		t.Fatalf("expected 4 questions (2 catalog + 2 synthetic), got %d", len(got))
	}
	assertUniqueIDs(t, got, exclude)
}

func TestFetchShuffleIsSeedDeterministic(t *testing.T) {
	catalog := &stubCatalog{questions: questionsFixture("q1", "q2", "q3", "q4", "q5", "q6")}

	order := func(seed int64) []string {
		selector := app.NewSelector(catalog, nil, &seqSynth{}).WithRand(rand.New(rand.NewSource(seed)))
		got := selector.Fetch(context.Background(), domain.Filters{}, 6, nil)
		ids := make([]string, len(got))
		for i, q := range got {
			ids[i] = q.ID
		}
		return ids
	}

	first, second := order(42), order(42)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", first, second)
		}
	}

	different := order(43)
	same := true
	for i := range first {
		if first[i] != different[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("expected another seed to permute differently (6 elements), got %v twice", first)
	}
}

func TestFetchFiltersCatalog(t *testing.T) {
	questions := questionsFixture("q1", "q2")
	questions[1].Subject = "Mathematics"
	catalog := &stubCatalog{questions: questions}
	selector := app.NewSelector(catalog, nil, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	got := selector.Fetch(context.Background(), domain.Filters{Subject: "Science"}, 1, nil)
	if len(got) != 1 || got[0].ID != "q1" {
		t.Fatalf("expected only the Science question, got %+v", got)
	}
}

func TestFetchAIFailureIsNonFatal(t *testing.T) {
	catalog := &stubCatalog{questions: questionsFixture("q1", "q2")}
	provider := &stubAI{err: errors.New("model timeout")}
	selector := app.NewSelector(catalog, provider, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	got := selector.Fetch(context.Background(), domain.Filters{UseAI: true}, 2, nil)
	if provider.calls != 1 {
		t.Fatalf("expected AI attempt, got %d calls", provider.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected catalog to cover the AI shortfall, got %d", len(got))
	}
	assertUniqueIDs(t, got, nil)
}

func TestFetchPrefersAIResults(t *testing.T) {
	catalog := &stubCatalog{questions: questionsFixture("q1")}
	provider := &stubAI{questions: questionsFixture("ai1", "ai2")}
	selector := app.NewSelector(catalog, provider, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	got := selector.Fetch(context.Background(), domain.Filters{UseAI: true}, 2, nil)
	if len(got) != 2 || got[0].ID != "ai1" || got[1].ID != "ai2" {
		t.Fatalf("expected the AI batch first, got %+v", got)
	}
}

func TestFetchSkipsAIWhenNotRequested(t *testing.T) {
	catalog := &stubCatalog{questions: questionsFixture("q1")}
	provider := &stubAI{questions: questionsFixture("ai1")}
	selector := app.NewSelector(catalog, provider, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	selector.Fetch(context.Background(), domain.Filters{}, 1, nil)
	if provider.calls != 0 {
		t.Fatalf("AI must not be called without useAi, got %d calls", provider.calls)
	}
}

func TestFetchDiscardsInvalidAIQuestions(t *testing.T) {
	invalid := domain.Question{ID: "ai-bad", Type: domain.TypeMCQ, Question: "broken", Options: []string{"a", "b"}, CorrectOption: 1}
	provider := &stubAI{questions: []domain.Question{invalid}}
	catalog := &stubCatalog{questions: questionsFixture("q1")}
	selector := app.NewSelector(catalog, provider, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	got := selector.Fetch(context.Background(), domain.Filters{UseAI: true}, 1, nil)
	if len(got) != 1 || got[0].ID != "q1" {
		t.Fatalf("expected the invalid AI question dropped, got %+v", got)
	}
}

func TestFetchReturnsShortOverDuplicates(t *testing.T) {
	selector := app.NewSelector(&stubCatalog{}, nil, fixedSynth{}).WithRand(rand.New(rand.NewSource(1)))

	got := selector.Fetch(context.Background(), domain.Filters{}, 3, nil)
	if len(got) != 1 {
		t.Fatalf("colliding generator should yield a short result, got %d", len(got))
	}

	exclude := map[string]struct{}{"synth-same": {}}
	got = selector.Fetch(context.Background(), domain.Filters{}, 3, exclude)
	if len(got) != 0 {
		t.Fatalf("fully excluded generator should yield nothing, got %+v", got)
	}
}

func TestFetchCatalogErrorDegradesToSynthetic(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("store down")}
	selector := app.NewSelector(catalog, nil, &seqSynth{}).WithRand(rand.New(rand.NewSource(1)))

	got := selector.Fetch(context.Background(), domain.Filters{}, 2, nil)
	if len(got) != 2 {
		t.Fatalf("expected synthetic fill despite catalog error, got %d", len(got))
	}
	for _, q := range got {
		if q.Source != "synthetic" {
			t.Fatalf("expected synthetic questions, got %+v", q)
		}
	}
}
