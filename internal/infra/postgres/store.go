// Package postgres backs the repositories with pgx. The score upsert is a
// single INSERT .. ON CONFLICT .. DO UPDATE increment, so concurrent correct
// attempts on one (student, subject) pair serialize in the database and none
// is lost.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"campus-quiz-service/internal/domain"
)

// Store implements the app repositories on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) InsertYear(ctx context.Context, year domain.Year) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO years (id, value, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		year.ID, year.Value, year.OwnerID, year.CreatedAt)
	return err
}

func (s *Store) YearsByOwner(ctx context.Context, ownerID string) ([]domain.Year, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, value, owner_id, created_at FROM years WHERE owner_id = $1 ORDER BY created_at`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []domain.Year
	for rows.Next() {
		var y domain.Year
		if err := rows.Scan(&y.ID, &y.Value, &y.OwnerID, &y.CreatedAt); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func (s *Store) InsertSubject(ctx context.Context, subject domain.Subject) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subjects (id, name, year_id, owner_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		subject.ID, subject.Name, subject.YearID, subject.OwnerID, subject.CreatedAt)
	return err
}

func (s *Store) SubjectsByYear(ctx context.Context, ownerID, yearID string) ([]domain.Subject, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, year_id, owner_id, created_at FROM subjects
		 WHERE owner_id = $1 AND year_id = $2 ORDER BY created_at`,
		ownerID, yearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var sub domain.Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.YearID, &sub.OwnerID, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

func (s *Store) SubjectByID(ctx context.Context, id string) (domain.Subject, error) {
	var sub domain.Subject
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, year_id, owner_id, created_at FROM subjects WHERE id = $1`,
		id).Scan(&sub.ID, &sub.Name, &sub.YearID, &sub.OwnerID, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subject{}, domain.ErrNotFound
	}
	return sub, err
}

func (s *Store) InsertQuestion(ctx context.Context, question domain.Question) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO questions (id, title, number, marks, subject_id, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		question.ID, question.Title, question.Number, question.Marks,
		question.SubjectID, question.OwnerID, question.CreatedAt)
	return err
}

func (s *Store) QuestionByNumber(ctx context.Context, ownerID, subjectID string, number int) (domain.Question, error) {
	var q domain.Question
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, number, marks, subject_id, owner_id, created_at FROM questions
		 WHERE owner_id = $1 AND subject_id = $2 AND number = $3`,
		ownerID, subjectID, number).
		Scan(&q.ID, &q.Title, &q.Number, &q.Marks, &q.SubjectID, &q.OwnerID, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrNotFound
	}
	return q, err
}

func (s *Store) QuestionByID(ctx context.Context, id string) (domain.Question, error) {
	var q domain.Question
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, number, marks, subject_id, owner_id, created_at FROM questions WHERE id = $1`,
		id).Scan(&q.ID, &q.Title, &q.Number, &q.Marks, &q.SubjectID, &q.OwnerID, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrNotFound
	}
	return q, err
}

// InsertAnswers writes the batch one statement at a time and reports how many
// rows landed. A mid-batch failure returns the partial count with the error;
// the bulk write is not transactional.
func (s *Store) InsertAnswers(ctx context.Context, answers []domain.Answer) (int, error) {
	batch := &pgx.Batch{}
	for _, a := range answers {
		batch.Queue(
			`INSERT INTO answers (id, title, preferred, question_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.Title, a.Preferred, a.QuestionID, a.CreatedAt)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range answers {
		if _, err := results.Exec(); err != nil {
			return i, err
		}
	}
	return len(answers), nil
}

func (s *Store) AnswersByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, preferred, question_id, created_at FROM answers
		 WHERE question_id = $1 ORDER BY created_at`,
		questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.Title, &a.Preferred, &a.QuestionID, &a.CreatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *Store) AnswerByID(ctx context.Context, id string) (domain.Answer, error) {
	var a domain.Answer
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, preferred, question_id, created_at FROM answers WHERE id = $1`,
		id).Scan(&a.ID, &a.Title, &a.Preferred, &a.QuestionID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Answer{}, domain.ErrNotFound
	}
	return a, err
}

// SetPreferredAnswer promotes answerID and demotes its siblings in one
// statement, so no reader sees two preferred answers of the same question.
func (s *Store) SetPreferredAnswer(ctx context.Context, questionID, answerID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE answers SET preferred = (id = $2) WHERE question_id = $1`,
		questionID, answerID)
	return err
}

func (s *Store) ScoreBySubject(ctx context.Context, studentID, subjectID string) (*domain.ScoreRecord, error) {
	var r domain.ScoreRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, student_id, subject_id, total_marks, marks_obtained, created_at
		 FROM score_records WHERE student_id = $1 AND subject_id = $2`,
		studentID, subjectID).
		Scan(&r.ID, &r.StudentID, &r.SubjectID, &r.TotalMarks, &r.MarksObtained, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ApplyCorrectAttempt is the one write requiring store-side atomicity: the
// increment happens inside the upsert, never as read-modify-write in Go.
func (s *Store) ApplyCorrectAttempt(ctx context.Context, studentID, subjectID string, totalMarks int) (domain.ScoreRecord, error) {
	var r domain.ScoreRecord
	err := s.pool.QueryRow(ctx,
		`INSERT INTO score_records (id, student_id, subject_id, total_marks, marks_obtained, created_at)
		 VALUES (gen_random_uuid(), $1, $2, $3, 1, now())
		 ON CONFLICT (student_id, subject_id)
		 DO UPDATE SET marks_obtained = score_records.marks_obtained + 1,
		               total_marks = EXCLUDED.total_marks
		 RETURNING id, student_id, subject_id, total_marks, marks_obtained, created_at`,
		studentID, subjectID, totalMarks).
		Scan(&r.ID, &r.StudentID, &r.SubjectID, &r.TotalMarks, &r.MarksObtained, &r.CreatedAt)
	return r, err
}

func (s *Store) InsertAccount(ctx context.Context, acct domain.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, name, email, password_hash, role, enrollment_no, branch, year, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		acct.ID, acct.Name, acct.Email, acct.PasswordHash, string(acct.Role),
		acct.EnrollmentNo, acct.Branch, acct.Year, acct.CreatedAt)
	return err
}

func (s *Store) AccountByEmail(ctx context.Context, role domain.Role, email string) (domain.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, enrollment_no, branch, year, created_at
		 FROM accounts WHERE role = $1 AND email = $2`,
		string(role), email))
}

func (s *Store) AccountByEnrollmentNo(ctx context.Context, enrollmentNo string) (domain.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, enrollment_no, branch, year, created_at
		 FROM accounts WHERE role = 'student' AND enrollment_no = $1`,
		enrollmentNo))
}

func (s *Store) AccountByID(ctx context.Context, id string) (domain.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, enrollment_no, branch, year, created_at
		 FROM accounts WHERE id = $1`,
		id))
}

func (s *Store) scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	var role string
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role,
		&a.EnrollmentNo, &a.Branch, &a.Year, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	a.Role = domain.Role(role)
	return a, err
}
