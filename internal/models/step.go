package models

import (
	"fmt"
	"time"
)

// Step is one progress message reported while an analysis runs.
type Step struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
	Index   int       `json:"index"`
}

// NewStep creates a step stamped with the current time.
func NewStep(index int, message string) Step {
	return Step{
		Index:   index,
		Message: message,
		At:      time.Now(),
	}
}

// String formats the step for progress output.
func (s Step) String() string {
	return fmt.Sprintf("[%d] %s", s.Index+1, s.Message)
}
