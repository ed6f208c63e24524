// Package uistate provides the Loading/Success/Failure envelope published by
// view-models and the observable container that holds it.
package uistate

import (
	"encoding/json"
	"fmt"
)

// Status tags the variant held by a State.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is one of Loading, Success(payload) or Failure. Only Success carries data.
type State[T any] struct {
	status Status
	data   T
}

// Loading returns the Loading variant.
func Loading[T any]() State[T] {
	return State[T]{status: StatusLoading}
}

// Success returns the Success variant holding v.
func Success[T any](v T) State[T] {
	return State[T]{status: StatusSuccess, data: v}
}

// Failure returns the Failure variant.
func Failure[T any]() State[T] {
	return State[T]{status: StatusFailure}
}

func (s State[T]) Status() Status { return s.status }

func (s State[T]) IsLoading() bool { return s.status == StatusLoading }

func (s State[T]) IsSuccess() bool { return s.status == StatusSuccess }

func (s State[T]) IsFailure() bool { return s.status == StatusFailure }

// Data returns the Success payload. ok is false for the other variants.
func (s State[T]) Data() (v T, ok bool) {
	if s.status != StatusSuccess {
		var zero T
		return zero, false
	}
	return s.data, true
}

type stateJSON struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// MarshalJSON encodes the variant as {"status":"success","data":...}.
func (s State[T]) MarshalJSON() ([]byte, error) {
	out := stateJSON{Status: s.status.String()}
	if s.status == StatusSuccess {
		out.Data = s.data
	}
	return json.Marshal(out)
}
