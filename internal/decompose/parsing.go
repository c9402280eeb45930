package decompose

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zxfpro/primalstep/internal/errors"
)

// StepRecord is one planned unit of work as declared by the model.
type StepRecord struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies"`
	Instructions []string `json:"instructions"`
}

// ParseSteps decodes and validates a raw model response.
//
// It returns a MalformedError when raw is not syntactically valid JSON and a
// SchemaError naming the offending index/field when the content violates the
// step schema: the top level must be an object with a "steps" array, each
// entry must carry a non-empty string id and a string description,
// dependencies and instructions must be string arrays when present, ids must
// be unique, every dependency must reference a declared id, and no step may
// depend on itself. Parsing is all-or-nothing; no partial result is returned.
func ParseSteps(raw string) ([]StepRecord, error) {
	// A literal null is valid JSON but unmarshals into maps and slices as a
	// silent no-op, so it has to be rejected before decoding.
	if isJSONNull(json.RawMessage(raw)) {
		return nil, errors.NewSchemaError("top-level value is not an object")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		// Valid JSON of the wrong shape is a schema problem, not a syntax one.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errors.NewSchemaError("top-level value is not an object")
		}
		return nil, errors.NewMalformedError(err)
	}

	stepsRaw, ok := top["steps"]
	if !ok {
		return nil, errors.NewSchemaError(`missing "steps" key`)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(stepsRaw, &entries); err != nil || isJSONNull(stepsRaw) {
		return nil, errors.NewSchemaError(`"steps" is not an array`)
	}

	records := make([]StepRecord, 0, len(entries))
	seen := make(map[string]int, len(entries))

	for i, entry := range entries {
		record, err := parseStep(i, entry)
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[record.ID]; dup {
			return nil, &errors.SchemaError{
				Index:   i,
				StepID:  record.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicates the id of steps[%d]", prev),
			}
		}
		seen[record.ID] = i

		records = append(records, record)
	}

	// Dependency references are resolved only after the full id set is
	// known, so forward references are legal.
	for i, record := range records {
		for _, dep := range record.Dependencies {
			if dep == record.ID {
				return nil, &errors.SchemaError{
					Index:   i,
					StepID:  record.ID,
					Field:   "dependencies",
					Message: "step lists itself as a dependency",
				}
			}
			if _, known := seen[dep]; !known {
				return nil, &errors.SchemaError{
					Index:   i,
					StepID:  record.ID,
					Field:   "dependencies",
					Message: fmt.Sprintf("unknown dependency %q", dep),
				}
			}
		}
	}

	return records, nil
}

// parseStep validates a single steps[] entry field by field so every
// violation reports the offending index and field.
func parseStep(index int, entry json.RawMessage) (StepRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil || isJSONNull(entry) {
		return StepRecord{}, &errors.SchemaError{
			Index:   index,
			Message: "step entry is not an object",
		}
	}

	record := StepRecord{
		Dependencies: []string{},
		Instructions: []string{},
	}

	idRaw, ok := fields["id"]
	if !ok {
		return StepRecord{}, &errors.SchemaError{Index: index, Field: "id", Message: "missing"}
	}
	if err := json.Unmarshal(idRaw, &record.ID); err != nil || record.ID == "" {
		return StepRecord{}, &errors.SchemaError{Index: index, Field: "id", Message: "must be a non-empty string"}
	}

	descRaw, ok := fields["description"]
	if !ok {
		return StepRecord{}, &errors.SchemaError{Index: index, StepID: record.ID, Field: "description", Message: "missing"}
	}
	if err := json.Unmarshal(descRaw, &record.Description); err != nil || isJSONNull(descRaw) {
		return StepRecord{}, &errors.SchemaError{Index: index, StepID: record.ID, Field: "description", Message: "must be a string"}
	}

	if depsRaw, ok := fields["dependencies"]; ok {
		if err := json.Unmarshal(depsRaw, &record.Dependencies); err != nil || isJSONNull(depsRaw) {
			return StepRecord{}, &errors.SchemaError{Index: index, StepID: record.ID, Field: "dependencies", Message: "must be an array of strings"}
		}
	}

	if instrRaw, ok := fields["instructions"]; ok {
		if err := json.Unmarshal(instrRaw, &record.Instructions); err != nil || isJSONNull(instrRaw) {
			return StepRecord{}, &errors.SchemaError{Index: index, StepID: record.ID, Field: "instructions", Message: "must be an array of strings"}
		}
	}

	return record, nil
}

// isJSONNull reports whether raw is the JSON literal null, which
// encoding/json accepts for any target type without touching it.
func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
