package quiz

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadBank reads the question bank from a JSON file: an array of objects with
// "question", "options", "answer" and "explanation" fields. A missing or
// malformed file is fatal at startup, there is no default bank to fall back on.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}

	bank, err := NewBank(questions)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return bank, nil
}
