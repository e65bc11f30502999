package core

import "errors"

// Dataset and map loading failures. Dataset errors are terminal for the load
// attempt; the map error is logged and the map stays unrendered.
var (
	ErrDataUnavailable        = errors.New("dataset unavailable")
	ErrEmptyDataset           = errors.New("dataset is empty")
	ErrNoValidRecords         = errors.New("dataset has no valid records")
	ErrMapResourceUnavailable = errors.New("map resource unavailable")
)

// ErrNotLoaded is returned by the store before the first load finishes.
var ErrNotLoaded = errors.New("dataset not loaded yet")

// ErrLoadInProgress is returned by Loader.Load when another attempt holds
// the load gate. The store is left untouched.
var ErrLoadInProgress = errors.New("dataset load already in progress")
