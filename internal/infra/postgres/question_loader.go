package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizroom-service/internal/domain"
)

// QuestionLoader loads catalog questions stored as JSONB rows in Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

// LoadQuestions implements memory.QuestionLoader with exact-match filtering
// pushed into SQL.
func (l *QuestionLoader) LoadQuestions(ctx context.Context, filters domain.Filters) ([]domain.Question, error) {
	query := `SELECT data FROM questions`
	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filters.Grade != 0 {
		args = append(args, filters.Grade)
		clauses = append(clauses, `(data->>'grade')::int = $`+strconv.Itoa(len(args)))
	}
	if filters.Subject != "" {
		args = append(args, filters.Subject)
		clauses = append(clauses, `data->>'subject' = $`+strconv.Itoa(len(args)))
	}
	if filters.Chapter != "" {
		args = append(args, filters.Chapter)
		clauses = append(clauses, `data->>'chapter' = $`+strconv.Itoa(len(args)))
	}
	if filters.Type != "" {
		args = append(args, string(filters.Type))
		clauses = append(clauses, `data->>'type' = $`+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Describe implements app.CatalogDescriber over the stored questions.
func (l *QuestionLoader) Describe(ctx context.Context) (domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT DISTINCT (data->>'grade')::int, data->>'subject', data->>'chapter' FROM questions ORDER BY 1, 2, 3`)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("describe catalog: %w", err)
	}
	defer rows.Close()

	catalog := domain.Catalog{
		Subjects: make(map[int][]string),
		Chapters: make(map[string][]string),
	}
	seenGrades := make(map[int]struct{})
	seenSubjects := make(map[string]struct{})

	for rows.Next() {
		var grade int
		var subject, chapter string
		if err := rows.Scan(&grade, &subject, &chapter); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan catalog row: %w", err)
		}
		if _, ok := seenGrades[grade]; !ok {
			seenGrades[grade] = struct{}{}
			catalog.Grades = append(catalog.Grades, grade)
		}
		subjectKey := fmt.Sprintf("%d/%s", grade, subject)
		if _, ok := seenSubjects[subjectKey]; !ok {
			seenSubjects[subjectKey] = struct{}{}
			catalog.Subjects[grade] = append(catalog.Subjects[grade], subject)
		}
		catalog.Chapters[subjectKey] = append(catalog.Chapters[subjectKey], chapter)
	}
	return catalog, rows.Err()
}
