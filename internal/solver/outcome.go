package solver

import (
	"encoding/json"
	"errors"
	"math"
)

// Step is one line of derivation text.
type Step = string

// Result is the final answer of a successful solve. Value is set when the
// answer is a single finite real number; Infinity and NaN appear only in
// Text.
type Result struct {
	Text  string   `json:"text"`
	Value *float64 `json:"value,omitempty"`
}

// Outcome is the return value of every solving entry point. A failed
// outcome has exactly one step (the error's message) and a nil Result.
type Outcome struct {
	Steps  []Step
	Result *Result
	Err    error
}

// OK reports whether the outcome carries a result.
func (o Outcome) OK() bool { return o.Result != nil && o.Err == nil }

func success(steps []Step, text string) Outcome {
	return Outcome{Steps: steps, Result: &Result{Text: text}}
}

func numeric(steps []Step, text string, v float64) Outcome {
	out := success(steps, text)
	if !math.IsInf(v, 0) && !math.IsNaN(v) {
		out.Result.Value = &v
	}
	return out
}

func failure(err error) Outcome {
	msg := err.Error()
	var se *SolveError
	if errors.As(err, &se) && se.Msg != "" {
		msg = se.Msg
	}
	return Outcome{Steps: []Step{msg}, Err: err}
}

type outcomeJSON struct {
	Steps  []Step  `json:"steps"`
	Result *Result `json:"result"`
	Error  string  `json:"error,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{Steps: o.Steps, Result: o.Result, Error: Code(o.Err)})
}
