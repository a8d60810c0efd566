package quiz

import "fmt"

// Question is one multiple-choice entry. Answer always equals one of the
// Options values; grading compares option values, not indexes.
type Question struct {
	ID          int      `json:"-"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Bank is the immutable question set loaded once at startup. Ids are the
// positions the questions were loaded in.
type Bank struct {
	questions []Question
}

// NewBank validates the questions, assigns ids from position and returns the
// bank. An empty or invalid set is a configuration error.
func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyBank
	}

	qs := make([]Question, len(questions))
	copy(qs, questions)

	for i := range qs {
		qs[i].ID = i
		if qs[i].Prompt == "" {
			return nil, fmt.Errorf("question %d: empty prompt", i)
		}
		if len(qs[i].Options) < 2 {
			return nil, fmt.Errorf("question %d: needs at least two options, got %d", i, len(qs[i].Options))
		}
		if !contains(qs[i].Options, qs[i].Answer) {
			return nil, fmt.Errorf("question %d: answer %q is not one of the options", i, qs[i].Answer)
		}
	}
	return &Bank{questions: qs}, nil
}

// Len reports the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Get looks up a question by id.
func (b *Bank) Get(id int) (Question, bool) {
	if id < 0 || id >= len(b.questions) {
		return Question{}, false
	}
	return b.questions[id], true
}

// IDs returns all question ids in load order.
func (b *Bank) IDs() []int {
	ids := make([]int, len(b.questions))
	for i := range b.questions {
		ids[i] = i
	}
	return ids
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
