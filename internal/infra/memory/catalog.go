package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizroom-service/internal/domain"
)

// QuestionLoader fetches catalog questions from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, filters domain.Filters) ([]domain.Question, error)
}

// CatalogCache caches filtered catalog lookups with TTL to avoid repeated
// store hits while rooms are being created and replenished.
type CatalogCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex // guards rnd
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCatalogCache(loader QuestionLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

// Questions implements app.CatalogProvider. Results are copied so callers may
// shuffle them freely.
func (c *CatalogCache) Questions(ctx context.Context, filters domain.Filters) ([]domain.Question, error) {
	key := FilterKey(filters)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return copyQuestions(entry.questions), nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.LoadQuestions(ctx, filters)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedQuestions{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// FilterKey is a stable cache key for a filter combination.
func FilterKey(f domain.Filters) string {
	return fmt.Sprintf("%d/%s/%s/%s", f.Grade, f.Subject, f.Chapter, f.Type)
}

func copyQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out
}

// StaticBank is a loader backed by an in-memory question slice (the embedded
// default catalog, or fixtures in tests).
type StaticBank struct {
	questions []domain.Question
}

func NewStaticBank(questions []domain.Question) *StaticBank {
	return &StaticBank{questions: questions}
}

func (b *StaticBank) LoadQuestions(_ context.Context, filters domain.Filters) ([]domain.Question, error) {
	matched := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		if filters.Matches(q) {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

// Describe implements app.CatalogDescriber over the in-memory bank.
func (b *StaticBank) Describe(_ context.Context) (domain.Catalog, error) {
	gradeSet := make(map[int]struct{})
	subjectSets := make(map[int]map[string]struct{})
	chapterSets := make(map[string]map[string]struct{})

	for _, q := range b.questions {
		gradeSet[q.Grade] = struct{}{}
		if subjectSets[q.Grade] == nil {
			subjectSets[q.Grade] = make(map[string]struct{})
		}
		subjectSets[q.Grade][q.Subject] = struct{}{}
		key := fmt.Sprintf("%d/%s", q.Grade, q.Subject)
		if chapterSets[key] == nil {
			chapterSets[key] = make(map[string]struct{})
		}
		chapterSets[key][q.Chapter] = struct{}{}
	}

	catalog := domain.Catalog{
		Grades:   make([]int, 0, len(gradeSet)),
		Subjects: make(map[int][]string, len(subjectSets)),
		Chapters: make(map[string][]string, len(chapterSets)),
	}
	for grade := range gradeSet {
		catalog.Grades = append(catalog.Grades, grade)
	}
	sort.Ints(catalog.Grades)
	for grade, set := range subjectSets {
		catalog.Subjects[grade] = sortedKeys(set)
	}
	for key, set := range chapterSets {
		catalog.Chapters[key] = sortedKeys(set)
	}
	return catalog, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
