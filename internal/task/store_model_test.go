package task_test

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/calvinalkan/todo/internal/task"
)

// model is the reference behavior of Store: a plain slice with the same
// validation rules, no write-through and no cleverness.
type model struct {
	tasks []task.Task
	next  int
}

func (m *model) index(id string) int {
	return slices.IndexFunc(m.tasks, func(t task.Task) bool { return t.ID == id })
}

// byteStream hands out fuzz bytes one at a time, then zeros.
type byteStream struct {
	data []byte
	pos  int
}

func (b *byteStream) more() bool { return b.pos < len(b.data) }

func (b *byteStream) next() int {
	if b.pos >= len(b.data) {
		return 0
	}

	v := int(b.data[b.pos])
	b.pos++

	return v
}

var fuzzValues = []string{"", "  ", "Write report", "Alice", "2024-06-01", "2024-13-01", "Задача", "x"}

func (b *byteStream) value() string { return fuzzValues[b.next()%len(fuzzValues)] }

func (b *byteStream) pickID(m *model) string {
	if len(m.tasks) == 0 || b.next()%5 == 0 {
		return []string{"missing", ""}[b.next()%2]
	}

	return m.tasks[b.next()%len(m.tasks)].ID
}

func FuzzStore_Matches_Model_When_Random_Ops_Applied(f *testing.F) {
	f.Add([]byte{0x00, 0x02, 0x02, 0x03, 0x04, 0x01})
	f.Add([]byte("todo-ops"))
	f.Add([]byte{0, 2, 2, 3, 4, 1, 1, 1, 0, 2, 2, 2, 4, 3, 5, 0, 6, 2})

	f.Fuzz(func(t *testing.T, fuzzBytes []byte) {
		p := &recordingPersister{}
		store := newTestStore(p)
		m := &model{}
		in := &byteStream{data: fuzzBytes}

		for step := 0; in.more() && step < 200; step++ {
			var (
				gotErr, wantErr bool
				op              string
			)

			switch in.next() % 6 {
			case 0, 1:
				op = "create"
				fields := task.Fields{Title: in.value(), Description: in.value(), Executor: in.value(), Deadline: in.value()}

				_, err := store.Create(fields)
				gotErr = err != nil

				wantErr = task.ValidateCreate(fields) != nil
				if !wantErr {
					m.next++
					m.tasks = append(m.tasks, task.Task{
						ID: fmt.Sprintf("t-%d", m.next), Title: fields.Title, Description: fields.Description,
						Executor: fields.Executor, Deadline: fields.Deadline, Status: task.StatusActive,
					})
				}
			case 2:
				op = "update"
				id, field, value := in.pickID(m), task.EditableFields[in.next()%len(task.EditableFields)], in.value()

				_, err := store.Update(id, field, value)
				gotErr = err != nil

				idx := m.index(id)

				wantErr = idx < 0 || task.ValidateUpdate(field, value) != nil
				if !wantErr {
					switch field {
					case task.FieldTitle:
						m.tasks[idx].Title = value
					case task.FieldDescription:
						m.tasks[idx].Description = value
					case task.FieldExecutor:
						m.tasks[idx].Executor = value
					case task.FieldDeadline:
						m.tasks[idx].Deadline = strings.TrimSpace(value)
					}
				}
			case 3:
				op = "status"
				id, status := in.pickID(m), task.Status(in.next()%5)

				_, err := store.SetStatus(id, status)
				gotErr = err != nil

				idx := m.index(id)

				wantErr = idx < 0 || !status.Valid()
				if !wantErr {
					m.tasks[idx].Status = status
				}
			case 4:
				op = "delete"
				id := in.pickID(m)

				err := store.Delete(id)
				gotErr = err != nil

				var nerr *task.NotFoundError
				if gotErr && !errors.As(err, &nerr) {
					t.Fatalf("step %d: delete returned %v, want NotFoundError", step, err)
				}

				idx := m.index(id)

				wantErr = idx < 0
				if !wantErr {
					m.tasks = slices.Delete(m.tasks, idx, idx+1)
				}
			case 5:
				if in.next()%4 != 0 {
					continue
				}

				op = "clear"

				gotErr = store.Clear() != nil
				m.tasks = nil
			}

			if gotErr != wantErr {
				t.Fatalf("step %d %s: got error=%v, want error=%v", step, op, gotErr, wantErr)
			}

			want := slices.Clone(m.tasks)
			if want == nil {
				want = []task.Task{}
			}

			if diff := cmp.Diff(want, store.List()); diff != "" {
				t.Fatalf("step %d %s: store diverged from model (-model +store):\n%s", step, op, diff)
			}

			if !gotErr {
				if diff := cmp.Diff(store.List(), p.last(), cmpopts.EquateEmpty()); diff != "" {
					t.Fatalf("step %d %s: persisted snapshot stale (-store +persisted):\n%s", step, op, diff)
				}
			}
		}
	})
}
