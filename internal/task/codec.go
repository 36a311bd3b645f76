package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format is a transfer encoding.
type Format string

// Transfer encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var errUnknownFormat = errors.New("unknown format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (want json|yaml)", errUnknownFormat, s)
	}
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// record is the wire shape of a task.
type record struct {
	ID          wireID `json:"id"          yaml:"id"`
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Executor    string `json:"executor"    yaml:"executor"`
	Deadline    string `json:"deadline"    yaml:"deadline"`
	Status      string `json:"status"      yaml:"status"`
}

// wireID accepts string and numeric ids; numbers are kept as their decimal text.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*id = wireID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}

		*id = wireID(n.String())
	}

	return nil
}

func (id *wireID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", node.Line)
	}

	if node.Tag == "!!null" {
		*id = ""

		return nil
	}

	*id = wireID(node.Value)

	return nil
}

func toRecords(tasks []Task) ([]record, error) {
	records := make([]record, 0, len(tasks))

	for _, t := range tasks {
		status, err := t.Status.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}

		records = append(records, record{
			ID:          wireID(t.ID),
			Title:       t.Title,
			Description: t.Description,
			Executor:    t.Executor,
			Deadline:    t.Deadline,
			Status:      string(status),
		})
	}

	return records, nil
}

// Export encodes the whole collection, in order, in the given format. JSON
// output is indented for reading.
func Export(tasks []Task, format Format) ([]byte, error) {
	records, err := toRecords(tasks)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return buf.Bytes(), nil
	case FormatJSON, "":
		return encodeJSON(records, "  ")
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func encodeJSON(records []record, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return buf.Bytes(), nil
}

// Import decodes a payload produced by [Export] (or written by hand). JSON
// input may contain comments and trailing commas.
//
// The payload must be a sequence of objects; anything else is a
// [*FormatError]. Numeric ids are accepted, a missing status means active,
// and an unknown status or a duplicate id is a [*FormatError]. Titles,
// descriptions, executors and deadlines are taken as they are.
func Import(data []byte, format Format) ([]Task, error) {
	var (
		records []record
		err     error
	)

	switch format {
	case FormatYAML:
		records, err = decodeYAML(data)
	case FormatJSON, "":
		records, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	if err != nil {
		return nil, err
	}

	return fromRecords(records)
}

func decodeJSON(data []byte) ([]record, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, &FormatError{Index: -1, Err: err}
	}

	trimmed := bytes.TrimSpace(standardized)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &FormatError{Index: -1, Err: errors.New("expected a list of tasks")}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, &FormatError{Index: -1, Err: err}
	}

	records := make([]record, 0, len(raws))

	for i, raw := range raws {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, &FormatError{Index: i, Err: errors.New("expected an object")}
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &FormatError{Index: i, Err: err}
		}

		records = append(records, rec)
	}

	return records, nil
}

func decodeYAML(data []byte) ([]record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Index: -1, Err: err}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, &FormatError{Index: -1, Err: errors.New("expected a list of tasks")}
	}

	items := doc.Content[0].Content
	records := make([]record, 0, len(items))

	for i, item := range items {
		if item.Kind != yaml.MappingNode {
			return nil, &FormatError{Index: i, Err: errors.New("expected a mapping")}
		}

		var rec record
		if err := item.Decode(&rec); err != nil {
			return nil, &FormatError{Index: i, Err: err}
		}

		records = append(records, rec)
	}

	return records, nil
}

func fromRecords(records []record) ([]Task, error) {
	tasks := make([]Task, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		status := StatusActive

		if strings.TrimSpace(rec.Status) != "" {
			parsed, err := ParseStatus(rec.Status)
			if err != nil {
				return nil, &FormatError{Index: i, Err: err}
			}

			status = parsed
		}

		id := string(rec.ID)
		if id != "" {
			if prev, dup := seen[id]; dup {
				return nil, &FormatError{Index: i, Err: fmt.Errorf("duplicate id %q (also record %d)", id, prev)}
			}

			seen[id] = i
		}

		tasks = append(tasks, Task{
			ID:          id,
			Title:       rec.Title,
			Description: rec.Description,
			Executor:    rec.Executor,
			Deadline:    rec.Deadline,
			Status:      status,
		})
	}

	return tasks, nil
}
