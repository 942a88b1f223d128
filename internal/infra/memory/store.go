// Package memory backs the repositories with mutex-guarded maps. It serves
// unit tests and the no-database serve mode; the score increment happens
// under the store lock so the no-lost-update property holds here too.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"campus-quiz-service/internal/domain"
)

// Store implements the app repositories in memory.
type Store struct {
	mu        sync.RWMutex
	years     map[string]domain.Year
	subjects  map[string]domain.Subject
	questions map[string]domain.Question
	answers   map[string]domain.Answer
	scores    map[scoreKey]domain.ScoreRecord
	accounts  map[string]domain.Account
	now       func() time.Time
}

type scoreKey struct {
	studentID string
	subjectID string
}

func NewStore() *Store {
	return &Store{
		years:     make(map[string]domain.Year),
		subjects:  make(map[string]domain.Subject),
		questions: make(map[string]domain.Question),
		answers:   make(map[string]domain.Answer),
		scores:    make(map[scoreKey]domain.ScoreRecord),
		accounts:  make(map[string]domain.Account),
		now:       time.Now,
	}
}

func (s *Store) InsertYear(_ context.Context, year domain.Year) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[year.ID] = year
	return nil
}

func (s *Store) YearsByOwner(_ context.Context, ownerID string) ([]domain.Year, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var years []domain.Year
	for _, y := range s.years {
		if y.OwnerID == ownerID {
			years = append(years, y)
		}
	}
	return years, nil
}

func (s *Store) InsertSubject(_ context.Context, subject domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[subject.ID] = subject
	return nil
}

func (s *Store) SubjectsByYear(_ context.Context, ownerID, yearID string) ([]domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var subjects []domain.Subject
	for _, sub := range s.subjects {
		if sub.OwnerID == ownerID && sub.YearID == yearID {
			subjects = append(subjects, sub)
		}
	}
	return subjects, nil
}

func (s *Store) SubjectByID(_ context.Context, id string) (domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.subjects[id]
	if !ok {
		return domain.Subject{}, domain.ErrNotFound
	}
	return subject, nil
}

func (s *Store) InsertQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.ID] = question
	return nil
}

func (s *Store) QuestionByNumber(_ context.Context, ownerID, subjectID string, number int) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions {
		if q.OwnerID == ownerID && q.SubjectID == subjectID && q.Number == number {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrNotFound
}

func (s *Store) QuestionByID(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrNotFound
	}
	return question, nil
}

func (s *Store) InsertAnswers(_ context.Context, answers []domain.Answer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range answers {
		s.answers[a.ID] = a
	}
	return len(answers), nil
}

func (s *Store) AnswersByQuestion(_ context.Context, questionID string) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var answers []domain.Answer
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			answers = append(answers, a)
		}
	}
	return answers, nil
}

func (s *Store) AnswerByID(_ context.Context, id string) (domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.answers[id]
	if !ok {
		return domain.Answer{}, domain.ErrNotFound
	}
	return answer, nil
}

// SetPreferredAnswer flips the preferred flag for every answer of the
// question in one critical section, mirroring the single-statement update of
// the SQL store.
func (s *Store) SetPreferredAnswer(_ context.Context, questionID, answerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.answers {
		if a.QuestionID != questionID {
			continue
		}
		a.Preferred = id == answerID
		s.answers[id] = a
	}
	return nil
}

func (s *Store) ScoreBySubject(_ context.Context, studentID, subjectID string) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.scores[scoreKey{studentID, subjectID}]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// ApplyCorrectAttempt upserts and increments under the store lock, which is
// this store's equivalent of the SQL ON CONFLICT increment.
func (s *Store) ApplyCorrectAttempt(_ context.Context, studentID, subjectID string, totalMarks int) (domain.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scoreKey{studentID, subjectID}
	record, ok := s.scores[key]
	if !ok {
		record = domain.ScoreRecord{
			ID:        uuid.NewString(),
			StudentID: studentID,
			SubjectID: subjectID,
			CreatedAt: s.now(),
		}
	}
	record.TotalMarks = totalMarks
	record.MarksObtained++
	s.scores[key] = record
	return record, nil
}

func (s *Store) InsertAccount(_ context.Context, acct domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = acct
	return nil
}

func (s *Store) AccountByEmail(_ context.Context, role domain.Role, email string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Role == role && a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (s *Store) AccountByEnrollmentNo(_ context.Context, enrollmentNo string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Role == domain.RoleStudent && a.EnrollmentNo == enrollmentNo {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (s *Store) AccountByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return acct, nil
}
