package qa

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrInvalidJSON means the model output is not JSON.
	ErrInvalidJSON = errors.New("AI returned invalid JSON format")
	// ErrNotList means the output is JSON but not an array of objects.
	ErrNotList = errors.New("AI returned invalid response format")
	// ErrEmptyResult means the output is an empty array.
	ErrEmptyResult = errors.New("no questions generated")
)

// Pair is one generated question with its answer.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Result is a validated model response.
type Result struct {
	// JSON is the cleaned response text, returned to clients verbatim.
	JSON  string
	Pairs []Pair
}

// CleanResponse strips markdown code fences and surrounding whitespace.
func CleanResponse(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ValidateResponse cleans raw and checks that it is a non-empty JSON array of
// objects.
func ValidateResponse(raw string) (*Result, error) {
	cleaned := CleanResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidJSON)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	items, ok := doc.([]interface{})
	if !ok {
		return nil, ErrNotList
	}
	if len(items) == 0 {
		return nil, ErrEmptyResult
	}

	pairs := make([]Pair, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrNotList, i)
		}
		q, _ := obj["question"].(string)
		a, _ := obj["answer"].(string)
		pairs = append(pairs, Pair{Question: q, Answer: a})
	}

	return &Result{JSON: cleaned, Pairs: pairs}, nil
}
