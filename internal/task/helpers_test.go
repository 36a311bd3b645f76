package task_test

import (
	"errors"
	"slices"

	"github.com/calvinalkan/todo/internal/task"
)

// recordingPersister keeps every snapshot it is handed and fails while err is set.
type recordingPersister struct {
	saves [][]task.Task
	err   error
}

func (p *recordingPersister) Save(tasks []task.Task) error {
	p.saves = append(p.saves, slices.Clone(tasks))

	return p.err
}

func (p *recordingPersister) last() []task.Task {
	if len(p.saves) == 0 {
		return nil
	}

	return p.saves[len(p.saves)-1]
}

var errDiskFull = errors.New("quota exceeded")

func validFields() task.Fields {
	return task.Fields{
		Title:       "Write report",
		Description: "Draft design doc",
		Executor:    "Alice",
		Deadline:    "2024-06-01",
	}
}

func newTestStore(p task.Persister) *task.Store {
	return task.NewStore(nil, task.StoreOptions{Persister: p, NewID: task.SequenceIDs("t")})
}
