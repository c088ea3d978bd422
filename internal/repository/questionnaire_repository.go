package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/pkg/database"
)

// PostgresQuestionnaireRepository implements domain.QuestionnaireRepository using PostgreSQL
type PostgresQuestionnaireRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresQuestionnaireRepository creates a new questionnaire repository
func NewPostgresQuestionnaireRepository(db *sql.DB, logger *slog.Logger) *PostgresQuestionnaireRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresQuestionnaireRepository{db: db, logger: logger}
}

// Create stores a new questionnaire
func (r *PostgresQuestionnaireRepository) Create(q *domain.Questionnaire) error {
	return database.InTx(context.Background(), r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO questionnaires (owner_id) VALUES ($1)`, q.OwnerID); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("failed to create questionnaire for %s: %w", q.OwnerID, domain.ErrAlreadyExists)
			}
			return fmt.Errorf("failed to create questionnaire: %w", err)
		}
		return insertAnswers(tx, q)
	})
}

// GetByOwner loads the questionnaire of a user
func (r *PostgresQuestionnaireRepository) GetByOwner(ownerID string) (*domain.Questionnaire, error) {
	var owner string
	err := r.db.QueryRow(`SELECT owner_id FROM questionnaires WHERE owner_id = $1`, ownerID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get questionnaire for %s: %w", ownerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	q := &domain.Questionnaire{OwnerID: owner}
	if err := r.loadAnswers(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Update replaces the answers of an existing questionnaire
func (r *PostgresQuestionnaireRepository) Update(q *domain.Questionnaire) error {
	return database.InTx(context.Background(), r.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM questionnaires WHERE owner_id = $1)`, q.OwnerID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check questionnaire: %w", err)
		}
		if !exists {
			return fmt.Errorf("questionnaire for %s: %w", q.OwnerID, domain.ErrNotFound)
		}
		if _, err := tx.Exec(`DELETE FROM questionnaire_answers WHERE owner_id = $1`, q.OwnerID); err != nil {
			return fmt.Errorf("failed to clear answers: %w", err)
		}
		return insertAnswers(tx, q)
	})
}

// Delete removes a questionnaire; answers cascade
func (r *PostgresQuestionnaireRepository) Delete(ownerID string) error {
	res, err := r.db.Exec(`DELETE FROM questionnaires WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", err)
	}
	return expectRow(res, fmt.Sprintf("questionnaire for %s", ownerID))
}

// List returns every questionnaire
func (r *PostgresQuestionnaireRepository) List() ([]*domain.Questionnaire, error) {
	rows, err := r.db.Query(`SELECT owner_id FROM questionnaires ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	var out []*domain.Questionnaire
	for rows.Next() {
		q := &domain.Questionnaire{}
		if err := rows.Scan(&q.OwnerID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan questionnaire: %w", err)
		}
		out = append(out, q)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}
	for _, q := range out {
		if err := r.loadAnswers(q); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresQuestionnaireRepository) loadAnswers(q *domain.Questionnaire) error {
	rows, err := r.db.Query(`
		SELECT question_id, question, answer_hash
		FROM questionnaire_answers
		WHERE owner_id = $1
		ORDER BY position
	`, q.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.QuestionID, &a.Question, &a.AnswerHash); err != nil {
			return fmt.Errorf("failed to scan answer: %w", err)
		}
		q.Answers = append(q.Answers, a)
	}
	return rows.Err()
}

func insertAnswers(tx *sql.Tx, q *domain.Questionnaire) error {
	for i, a := range q.Answers {
		_, err := tx.Exec(`
			INSERT INTO questionnaire_answers (owner_id, question_id, question, answer_hash, position)
			VALUES ($1, $2, $3, $4, $5)
		`, q.OwnerID, a.QuestionID, a.Question, a.AnswerHash, i)
		if err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}
	return nil
}
