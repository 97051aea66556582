package pipeline

import "fmt"

// Stage is a point in the run's linear state machine.
type Stage int

const (
	StageStart Stage = iota
	StageRatesLoaded
	StageExtracted
	StageTransformed
	StagePersistedToFile
	StagePersistedToStore
	StageConnectionOpened
	StageQueriesRun
	StageClosed
)

var stageNames = [...]string{
	StageStart:            "start",
	StageRatesLoaded:      "rates_loaded",
	StageExtracted:        "extracted",
	StageTransformed:      "transformed",
	StagePersistedToFile:  "persisted_to_file",
	StagePersistedToStore: "persisted_to_store",
	StageConnectionOpened: "connection_opened",
	StageQueriesRun:       "queries_run",
	StageClosed:           "closed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError is returned when the run fails to reach Stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed before %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
