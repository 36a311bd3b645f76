package task_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/todo/internal/task"
)

// Any collection the store can reach survives export followed by import.
func Test_Import_Export_Round_Trips_Reachable_States(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	store := newTestStore(nil)

	for step := range 120 {
		switch op := rng.IntN(10); {
		case op < 5 || store.Len() == 0:
			fields := validFields()
			fields.Title = fmt.Sprintf("task %d \"quoted\" <b> & ü", step)
			fields.Description = "line one\nline two"

			_, err := store.Create(fields)
			require.NoError(t, err)
		case op < 7:
			target := store.List()[rng.IntN(store.Len())]

			_, err := store.SetStatus(target.ID, task.Statuses[rng.IntN(len(task.Statuses))])
			require.NoError(t, err)
		case op < 8:
			target := store.List()[rng.IntN(store.Len())]

			_, err := store.Update(target.ID, task.FieldDeadline, "")
			require.NoError(t, err)
		default:
			target := store.List()[rng.IntN(store.Len())]
			require.NoError(t, store.Delete(target.ID))
		}

		for _, format := range []task.Format{task.FormatJSON, task.FormatYAML} {
			data, err := task.Export(store.List(), format)
			require.NoError(t, err)

			got, err := task.Import(data, format)
			require.NoError(t, err, "step %d %s:\n%s", step, format, data)

			if diff := cmp.Diff(store.List(), got); diff != "" {
				t.Fatalf("step %d %s: round trip mismatch (-want +got):\n%s", step, format, diff)
			}
		}
	}
}

func Test_Export_Writes_Indented_JSON_With_Wire_Tokens(t *testing.T) {
	t.Parallel()

	data, err := task.Export([]task.Task{{
		ID:          "t-1",
		Title:       "Write report",
		Description: "Draft design doc",
		Executor:    "Alice",
		Deadline:    "2024-06-01",
		Status:      task.StatusCompleted,
	}}, task.FormatJSON)
	require.NoError(t, err)

	want := `[
  {
    "id": "t-1",
    "title": "Write report",
    "description": "Draft design doc",
    "executor": "Alice",
    "deadline": "2024-06-01",
    "status": "completed"
  }
]
`
	assert.Equal(t, want, string(data))
}

func Test_Export_Writes_Empty_List_When_No_Tasks(t *testing.T) {
	t.Parallel()

	data, err := task.Export(nil, task.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	got, err := task.Import(data, task.FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func Test_Export_Returns_InvalidEnumError_When_Status_Not_A_Member(t *testing.T) {
	t.Parallel()

	_, err := task.Export([]task.Task{{ID: "x"}}, task.FormatJSON)

	var eerr *task.InvalidEnumError
	require.ErrorAs(t, err, &eerr)
}

func Test_Import_Returns_FormatError_When_Payload_Is_Not_A_List(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		format task.Format
		data   string
		index  int
	}{
		{"json object", task.FormatJSON, `{"id":"1","title":"x"}`, -1},
		{"json null", task.FormatJSON, `null`, -1},
		{"json empty", task.FormatJSON, ``, -1},
		{"json garbage", task.FormatJSON, `[{"id":`, -1},
		{"json scalar element", task.FormatJSON, `[{"id":"1"}, 42]`, 1},
		{"json wrong field type", task.FormatJSON, `[{"id":"1","title":7}]`, 0},
		{"yaml mapping", task.FormatYAML, "id: 1\ntitle: x\n", -1},
		{"yaml scalar element", task.FormatYAML, "- id: 1\n- just text\n", 1},
		{"yaml nested id", task.FormatYAML, "- id: [1, 2]\n", 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := task.Import([]byte(tt.data), tt.format)

			var ferr *task.FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.index, ferr.Index)
		})
	}
}

func Test_Import_Accepts_Loose_Records(t *testing.T) {
	t.Parallel()

	data := `[
  // hand-edited backup
  {"id": 17, "title": "numeric id", "status": "Task completed"},
  {"title": "no id or status", "deadline": "someday"},
  {"id": null, "title": "null id", "status": "Задача отменена",},
]`

	got, err := task.Import([]byte(data), task.FormatJSON)
	require.NoError(t, err)

	want := []task.Task{
		{ID: "17", Title: "numeric id", Status: task.StatusCompleted},
		{Title: "no id or status", Deadline: "someday", Status: task.StatusActive},
		{Title: "null id", Status: task.StatusCancelled},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}
}

func Test_Import_Accepts_YAML_With_Numeric_IDs(t *testing.T) {
	t.Parallel()

	data := `
- id: 3
  title: from yaml
  executor: Bob
  status: cancelled
- title: second
`

	got, err := task.Import([]byte(data), task.FormatYAML)
	require.NoError(t, err)

	want := []task.Task{
		{ID: "3", Title: "from yaml", Executor: "Bob", Status: task.StatusCancelled},
		{Title: "second", Status: task.StatusActive},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}
}

func Test_Import_Returns_FormatError_Wrapping_InvalidEnumError_When_Status_Unknown(t *testing.T) {
	t.Parallel()

	_, err := task.Import([]byte(`[{"id":"1","status":"active"},{"id":"2","status":"archived"}]`), task.FormatJSON)

	var ferr *task.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Index)

	var eerr *task.InvalidEnumError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "archived", eerr.Value)
}

func Test_Import_Returns_FormatError_When_IDs_Repeat(t *testing.T) {
	t.Parallel()

	_, err := task.Import([]byte(`[{"id":"1"},{"id":2},{"id":"1"}]`), task.FormatJSON)

	var ferr *task.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 2, ferr.Index)
	assert.Contains(t, err.Error(), "duplicate id")
}

func Test_Import_Failure_Leaves_Store_Unchanged(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	store := newTestStore(p)

	_, err := store.Create(validFields())
	require.NoError(t, err)

	before := store.List()

	imported, err := task.Import([]byte(`{"tasks": []}`), task.FormatJSON)
	if err == nil {
		err = store.ReplaceAll(imported)
	}

	var ferr *task.FormatError
	require.ErrorAs(t, err, &ferr)

	if diff := cmp.Diff(before, store.List()); diff != "" {
		t.Fatalf("store changed (-before +after):\n%s", diff)
	}

	assert.Len(t, p.saves, 1)
}

func Test_ParseFormat_Accepts_Yaml_Aliases(t *testing.T) {
	t.Parallel()

	got, err := task.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, task.FormatYAML, got)

	_, err = task.ParseFormat("csv")
	require.Error(t, err)

	assert.Equal(t, task.FormatYAML, task.FormatFromPath("backup.yaml"))
	assert.Equal(t, task.FormatJSON, task.FormatFromPath("todo-tasks-backup.json"))
	assert.Equal(t, task.FormatJSON, task.FormatFromPath("notes"))
}
