package domain

import "fmt"

// QuestionType discriminates the question variants.
type QuestionType string

const (
	TypeLong      QuestionType = "long"
	TypeShort     QuestionType = "short"
	TypeMCQ       QuestionType = "mcq"
	TypeNumerical QuestionType = "numerical"
)

// Question is a single quiz question. Immutable once produced.
// MCQ questions carry Options and CorrectOption; other types leave them zero.
type Question struct {
	ID            string       `json:"id"`
	Grade         int          `json:"grade"`
	Subject       string       `json:"subject"`
	Chapter       string       `json:"chapter"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Answer        string       `json:"answer"`
	Keywords      []string     `json:"keywords"`
	Options       []string     `json:"options,omitempty"`
	CorrectOption int          `json:"correctOption,omitempty"` // 1-based index into Options
	Diagram       string       `json:"diagram,omitempty"`
	Source        string       `json:"source"`
}

// NewMCQQuestion builds an MCQ question, enforcing exactly 4 options and
// CorrectOption in [1,4] at construction time.
func NewMCQQuestion(id string, grade int, subject, chapter, text, answer string, keywords []string, options []string, correctOption int, source string) (Question, error) {
	if len(options) != 4 {
		return Question{}, fmt.Errorf("mcq question %s: expected 4 options, got %d", id, len(options))
	}
	if correctOption < 1 || correctOption > 4 {
		return Question{}, fmt.Errorf("mcq question %s: correct option %d out of range", id, correctOption)
	}
	return Question{
		ID:            id,
		Grade:         grade,
		Subject:       subject,
		Chapter:       chapter,
		Type:          TypeMCQ,
		Question:      text,
		Answer:        answer,
		Keywords:      keywords,
		Options:       options,
		CorrectOption: correctOption,
		Source:        source,
	}, nil
}

// Validate checks the per-type shape of questions arriving from
// untrusted producers (the AI provider, external stores).
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question without id")
	}
	if q.Question == "" {
		return fmt.Errorf("question %s: empty text", q.ID)
	}
	switch q.Type {
	case TypeLong, TypeShort, TypeNumerical:
		if len(q.Options) != 0 || q.CorrectOption != 0 {
			return fmt.Errorf("question %s: options on non-mcq type %s", q.ID, q.Type)
		}
	case TypeMCQ:
		if len(q.Options) != 4 {
			return fmt.Errorf("mcq question %s: expected 4 options, got %d", q.ID, len(q.Options))
		}
		if q.CorrectOption < 1 || q.CorrectOption > 4 {
			return fmt.Errorf("mcq question %s: correct option %d out of range", q.ID, q.CorrectOption)
		}
	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// PublicQuestion is the broadcast view of a question while a round is live.
// It never carries Answer, Keywords, or CorrectOption.
type PublicQuestion struct {
	ID       string       `json:"id"`
	Grade    int          `json:"grade"`
	Subject  string       `json:"subject"`
	Chapter  string       `json:"chapter"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Diagram  string       `json:"diagram,omitempty"`
	Source   string       `json:"source"`
}

// Public strips the solution fields for the in-question broadcast.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:       q.ID,
		Grade:    q.Grade,
		Subject:  q.Subject,
		Chapter:  q.Chapter,
		Type:     q.Type,
		Question: q.Question,
		Options:  q.Options,
		Diagram:  q.Diagram,
		Source:   q.Source,
	}
}

// Filters selects questions from a source. Zero-valued fields match anything.
type Filters struct {
	Grade   int          `json:"grade,omitempty"`
	Subject string       `json:"subject,omitempty"`
	Chapter string       `json:"chapter,omitempty"`
	Type    QuestionType `json:"type,omitempty"`
	UseAI   bool         `json:"useAi,omitempty"`
}

// Matches reports whether the question satisfies all non-empty filter fields.
func (f Filters) Matches(q Question) bool {
	if f.Grade != 0 && q.Grade != f.Grade {
		return false
	}
	if f.Subject != "" && q.Subject != f.Subject {
		return false
	}
	if f.Chapter != "" && q.Chapter != f.Chapter {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	return true
}

// Player is a joined participant keyed by connection id.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerResult is a per-player line in the answer reveal: elapsed time since
// round start and, for mcq, the submitted option and its correctness.
type PlayerResult struct {
	Name      string `json:"name"`
	ElapsedMs int64  `json:"elapsedMs"`
	Answer    int    `json:"answer,omitempty"`
	Correct   *bool  `json:"correct,omitempty"`
}

// Catalog describes what the static question bank can offer.
type Catalog struct {
	Grades   []int               `json:"grades"`
	Subjects map[int][]string    `json:"subjects"`
	Chapters map[string][]string `json:"chapters"` // keyed "{grade}/{subject}"
}
