// Package task implements the task list: the record model, the owning store,
// filtered views, the export/import codec and the write-through persistence
// adapter.
package task

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar date format of deadlines.
const DateLayout = "2006-01-02"

// Task is a single record of the task list.
type Task struct {
	ID          string
	Title       string
	Description string
	Executor    string
	Deadline    string
	Status      Status
}

// Fields are the candidate values for [Store.Create].
// A zero Status means [StatusActive].
type Fields struct {
	Title       string
	Description string
	Executor    string
	Deadline    string
	Status      Status
}

// Field names an editable free-text attribute of a task.
type Field string

// Editable fields in validation order.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldExecutor    Field = "executor"
	FieldDeadline    Field = "deadline"
	FieldStatus      Field = "status"
	FieldID          Field = "id"
)

// EditableFields lists the fields accepted by [Store.Update].
var EditableFields = []Field{FieldTitle, FieldDescription, FieldExecutor, FieldDeadline}

// ParseField maps a field name to an editable Field.
func ParseField(s string) (Field, error) {
	name := Field(strings.ToLower(strings.TrimSpace(s)))

	for _, field := range EditableFields {
		if name == field {
			return field, nil
		}
	}

	return "", &ValidationError{
		Field:  name,
		Reason: "not an editable field (want title|description|executor|deadline)",
	}
}

// Value returns the current value of field.
func (t Task) Value(field Field) string {
	switch field {
	case FieldTitle:
		return t.Title
	case FieldDescription:
		return t.Description
	case FieldExecutor:
		return t.Executor
	case FieldDeadline:
		return t.Deadline
	case FieldStatus:
		return t.Status.String()
	case FieldID:
		return t.ID
	default:
		panic(fmt.Sprintf("unknown field %q", field))
	}
}

func (t *Task) set(field Field, value string) {
	switch field {
	case FieldTitle:
		t.Title = value
	case FieldDescription:
		t.Description = value
	case FieldExecutor:
		t.Executor = value
	case FieldDeadline:
		t.Deadline = value
	default:
		panic(fmt.Sprintf("field %q is not editable", field))
	}
}
