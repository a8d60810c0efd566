package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jambprep/quizbot/internal/store"
)

var (
	// ErrEmptyBank means the question bank has no questions to serve.
	ErrEmptyBank = errors.New("question bank is empty")

	// ErrUnknownQuestion means an answer referenced a question id that is not
	// in the bank, typically a stale button from an older bank.
	ErrUnknownQuestion = errors.New("unknown question")
)

// milestoneEvery is how many answered-or-shown questions between running
// accuracy milestones.
const milestoneEvery = 50

// Result is the outcome of grading one answer.
type Result struct {
	Correct     bool
	Answer      string
	Explanation string
	Score       int
	Total       int

	// Milestone carries the running accuracy percentage (one decimal place)
	// when Total hits a multiple of milestoneEvery.
	Milestone   float64
	IsMilestone bool
}

// Service selects questions and grades answers against the bank, keeping
// per-user progress in the store. Within a round no question repeats; once a
// user has seen the whole bank the round resets, score included.
type Service struct {
	bank  *Bank
	store store.Store
	rng   *rand.Rand
}

func NewService(bank *Bank, st store.Store) *Service {
	return &Service{
		bank:  bank,
		store: st,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Question exposes a bank lookup so the transport layer can render options
// for a question id carried in a button payload.
func (s *Service) Question(id int) (Question, bool) {
	return s.bank.Get(id)
}

// BeginSession picks the next question for the user and returns it along with
// its 1-based display index. The question is counted as asked (and toward
// Total) as soon as it is handed out, whether or not it is ever answered.
func (s *Service) BeginSession(ctx context.Context, userID int64) (Question, int, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return Question{}, 0, err
	}

	available := make([]int, 0, s.bank.Len())
	for _, id := range s.bank.IDs() {
		if _, seen := p.Asked[id]; !seen {
			available = append(available, id)
		}
	}

	if len(available) == 0 {
		// Round complete: the asked set resets and so does the score.
		p = store.NewProgress(userID)
		available = s.bank.IDs()
	}

	id := available[s.rng.Intn(len(available))]
	q, ok := s.bank.Get(id)
	if !ok {
		return Question{}, 0, fmt.Errorf("question %d: %w", id, ErrUnknownQuestion)
	}

	p.Asked[id] = struct{}{}
	p.Total++
	if err := s.store.Put(ctx, p); err != nil {
		return Question{}, 0, err
	}
	return q, p.Total, nil
}

// GradeAnswer compares the chosen option value against the bank's answer for
// the given question and updates the user's score. Grading is self-contained
// per request: the question id comes from the button payload, so a stale
// button still grades against that question's authoritative answer.
func (s *Service) GradeAnswer(ctx context.Context, userID int64, questionID int, chosen string) (Result, error) {
	q, ok := s.bank.Get(questionID)
	if !ok {
		return Result{}, fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}

	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	correct := chosen == q.Answer
	if correct {
		p.Correct++
	}
	if err := s.store.Put(ctx, p); err != nil {
		return Result{}, err
	}

	res := Result{
		Correct:     correct,
		Answer:      q.Answer,
		Explanation: q.Explanation,
		Score:       p.Correct,
		Total:       p.Total,
	}
	if p.Total > 0 && p.Total%milestoneEvery == 0 {
		res.Milestone = math.Round(float64(p.Correct)/float64(p.Total)*1000) / 10
		res.IsMilestone = true
	}
	return res, nil
}
