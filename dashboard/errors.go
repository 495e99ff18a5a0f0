package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when SelectTrend gets an item that is
	// not in the current list.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidCategory is returned for a category outside types.AllCategories.
	ErrInvalidCategory = errors.New("invalid category")
)

// FetchFailedError is the single failure signal for a slot: transport
// errors, bad status codes, malformed and empty payloads all end up here.
type FetchFailedError struct {
	Key TargetKey
	Err error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Key, e.Err)
}

func (e *FetchFailedError) Unwrap() error { return e.Err }
