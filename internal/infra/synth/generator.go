package synth

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quizroom-service/internal/domain"
)

// template is a fill-in question pattern for a chapter.
type template struct {
	question string
	answer   string
	keywords []string
	qType    domain.QuestionType
}

// chapterTemplates holds specialized patterns. Anything else falls back to
// the generic open-ended prompt, so generation never fails.
var chapterTemplates = map[string][]template{
	"Motion": {
		{
			question: "A body moves %d m in %d seconds at constant speed. Calculate its speed.",
			answer:   "Speed = distance / time.",
			keywords: []string{"speed", "distance", "time"},
			qType:    domain.TypeNumerical,
		},
		{
			question: "Sketch and describe the distance-time graph of a body moving with uniform speed.",
			answer:   "The graph is a straight line inclined to the time axis; its slope gives the speed.",
			keywords: []string{"distance-time graph", "straight line", "slope", "uniform"},
			qType:    domain.TypeShort,
		},
	},
	"Heat": {
		{
			question: "Explain why the handle of a cooking pan is made of plastic or wood.",
			answer:   "Plastic and wood are poor conductors of heat, so the handle stays cool enough to hold.",
			keywords: []string{"poor conductor", "insulator", "heat"},
			qType:    domain.TypeShort,
		},
	},
	"Light": {
		{
			question: "State the laws of reflection of light.",
			answer:   "The angle of incidence equals the angle of reflection, and the incident ray, reflected ray and normal lie in the same plane.",
			keywords: []string{"angle of incidence", "angle of reflection", "normal", "same plane"},
			qType:    domain.TypeShort,
		},
	},
	"Linear Equations": {
		{
			question: "Solve for x: %dx + %d = %d.",
			answer:   "Transpose the constant and divide by the coefficient of x.",
			keywords: []string{"linear equation", "transpose", "solve"},
			qType:    domain.TypeNumerical,
		},
	},
}

// Generator produces synthetic questions from chapter templates.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	seq int
}

func NewGenerator() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewGeneratorWithRand is test-only for deterministic output.
func NewGeneratorWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Generate implements app.TemplateGenerator. It always returns a question:
// a specialized template when one matches the chapter, otherwise a generic
// open-ended prompt on the requested topic.
func (g *Generator) Generate(filters domain.Filters) domain.Question {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	id := fmt.Sprintf("synth-%06x-%d", g.rnd.Intn(1<<24), g.seq)

	if templates, ok := chapterTemplates[filters.Chapter]; ok {
		t := templates[g.rnd.Intn(len(templates))]
		q := domain.Question{
			ID:       id,
			Grade:    filters.Grade,
			Subject:  filters.Subject,
			Chapter:  filters.Chapter,
			Type:     t.qType,
			Question: g.fillLocked(t.question),
			Answer:   t.answer,
			Keywords: t.keywords,
			Source:   "synthetic",
		}
		if filters.Type == "" || filters.Type == q.Type {
			return q
		}
	}

	topic := filters.Chapter
	if topic == "" {
		topic = filters.Subject
	}
	if topic == "" {
		topic = "your recent lessons"
	}
	return domain.Question{
		ID:       id,
		Grade:    filters.Grade,
		Subject:  filters.Subject,
		Chapter:  filters.Chapter,
		Type:     domain.TypeLong,
		Question: fmt.Sprintf("Write everything you know about %s. Cover the key definitions and one worked example.", topic),
		Answer:   fmt.Sprintf("An open-ended revision answer on %s covering its main definitions and an example.", topic),
		Keywords: []string{"definition", "example", topic},
		Source:   "synthetic",
	}
}

// fillLocked substitutes small random operands into numeric templates.
func (g *Generator) fillLocked(pattern string) string {
	args := make([]any, 0, 3)
	for i := 0; i < countVerbs(pattern); i++ {
		args = append(args, 2+g.rnd.Intn(48))
	}
	if len(args) == 0 {
		return pattern
	}
	return fmt.Sprintf(pattern, args...)
}

func countVerbs(pattern string) int {
	count := 0
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] == '%' && pattern[i+1] == 'd' {
			count++
		}
	}
	return count
}
