package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// storedActivity mirrors model.Activity but keeps the fields whose shape
// changed over time undecoded. Status is always re-derived, so an unknown
// label in storage is not an error.
type storedActivity struct {
	model.Activity
	Status   json.RawMessage `json:"status"`
	Comments json.RawMessage `json:"comments"`
	Progress json.RawMessage `json:"progress"`
}

// record is one persisted activity as it was read: its exact bytes, its
// top-level fields, the normalized view those fields decode to and the
// fields migration has rewritten but not yet persisted.
type record struct {
	raw     json.RawMessage
	fields  map[string]json.RawMessage
	view    map[string]json.RawMessage
	patched []string
}

// DecodeActivities parses the persisted "activities" document and normalizes
// every record. needsWrite reports whether any record was in a legacy shape.
func DecodeActivities(data []byte) (bool, []model.Activity, error) {
	needsWrite, activities, _, err := decodeDocument(data)
	return needsWrite, activities, err
}

// Normalize brings legacy records to the current shape: comments become a
// sequence and progress a number. All records are scanned before the caller
// learns whether a write-back is due; records already in shape keep their
// values. Status is re-derived from progress for every record.
func Normalize(records []json.RawMessage) (bool, []model.Activity, error) {
	needsWrite, activities, _, err := normalizeRecords(records)
	return needsWrite, activities, err
}

func decodeDocument(data []byte) (bool, []model.Activity, []record, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return false, nil, nil, err
	}
	return normalizeRecords(records)
}

func normalizeRecords(raws []json.RawMessage) (bool, []model.Activity, []record, error) {
	needsWrite := false
	activities := make([]model.Activity, 0, len(raws))
	records := make([]record, 0, len(raws))

	for i, raw := range raws {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return false, nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		var rec storedActivity
		if err := json.Unmarshal(raw, &rec); err != nil {
			return false, nil, nil, fmt.Errorf("record %d: %w", i, err)
		}

		activity, patched, err := normalizeRecord(rec)
		if err != nil {
			return false, nil, nil, fmt.Errorf("record %d (%s): %w", i, rec.ID, err)
		}
		view, err := fieldsOf(activity)
		if err != nil {
			return false, nil, nil, err
		}

		if len(patched) > 0 {
			needsWrite = true
		}
		activities = append(activities, activity)
		records = append(records, record{raw: raw, fields: fields, view: view, patched: patched})
	}

	return needsWrite, activities, records, nil
}

// normalizeRecord returns the current-shape activity and the JSON fields
// that differ from what is stored.
func normalizeRecord(rec storedActivity) (model.Activity, []string, error) {
	a := rec.Activity
	stored := decodeStatus(rec.Status)

	comments, commentsMigrated, err := normalizeComments(rec)
	if err != nil {
		return model.Activity{}, nil, err
	}

	progress, numeric, err := decodeProgress(rec.Progress)
	if err != nil {
		return model.Activity{}, nil, err
	}
	if !numeric {
		progress = model.MinProgress
		if stored == constants.StatusCompleted {
			progress = model.MaxProgress
		}
	}

	a.Comments = comments
	a.Progress = model.ClampProgress(progress)
	a.Status = model.DeriveStatus(a.Progress)

	var patched []string
	if commentsMigrated {
		patched = append(patched, "comments")
	}
	if !numeric {
		patched = append(patched, "progress")
	}
	if len(patched) > 0 {
		patched = append(patched, "status")
	}
	return a, patched, nil
}

// decodeStatus reads a stored status label, returning "" for anything it
// does not recognize.
func decodeStatus(raw json.RawMessage) constants.ActivityStatus {
	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return ""
	}
	status, err := constants.ParseActivityStatus(label)
	if err != nil {
		return ""
	}
	return status
}

func normalizeComments(rec storedActivity) ([]model.Comment, bool, error) {
	raw := bytes.TrimSpace(rec.Comments)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.Comment{}, false, nil
	}

	switch raw[0] {
	case '[':
		var comments []model.Comment
		if err := json.Unmarshal(raw, &comments); err != nil {
			return nil, false, fmt.Errorf("comments: %w", err)
		}
		return comments, false, nil
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, false, fmt.Errorf("comments: %w", err)
		}
		if text == "" {
			return []model.Comment{}, true, nil
		}
		return []model.Comment{{
			ID:     "migrated-" + rec.ID,
			UserID: constants.SystemUserID,
			Date:   rec.RegistrationDate,
			Text:   text,
		}}, true, nil
	default:
		return nil, false, fmt.Errorf("comments: unexpected JSON %s", raw)
	}
}

// decodeProgress returns numeric=false when progress is absent or not a
// JSON number.
func decodeProgress(raw json.RawMessage) (int, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, fmt.Errorf("progress: %w", err)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, false, nil
	}
	return int(math.Round(n)), true, nil
}

// encodeActivities writes the collection back. A record read earlier keeps
// its stored bytes unless a field changed, and then only the changed fields
// are replaced; fields this module does not know about survive either way.
func encodeActivities(activities []model.Activity, previous map[string]record) ([]byte, map[string]record, error) {
	next := make(map[string]record, len(activities))

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, a := range activities {
		view, err := fieldsOf(a)
		if err != nil {
			return nil, nil, err
		}

		rec, ok := previous[a.ID]
		if !ok {
			raw, err := json.Marshal(a)
			if err != nil {
				return nil, nil, err
			}
			rec = record{raw: raw, fields: view}
		} else if dirty := changedFields(rec, view); len(dirty) > 0 {
			fields := make(map[string]json.RawMessage, len(rec.fields)+len(dirty))
			for k, v := range rec.fields {
				fields[k] = v
			}
			for _, k := range dirty {
				if v, ok := view[k]; ok {
					fields[k] = v
				} else {
					delete(fields, k)
				}
			}
			raw, err := json.Marshal(fields)
			if err != nil {
				return nil, nil, err
			}
			rec = record{raw: raw, fields: fields}
		}
		rec.view = view
		rec.patched = nil
		next[a.ID] = rec

		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(rec.raw)
	}
	buf.WriteByte(']')

	return buf.Bytes(), next, nil
}

func changedFields(rec record, view map[string]json.RawMessage) []string {
	dirty := append([]string(nil), rec.patched...)
	seen := make(map[string]bool, len(dirty))
	for _, k := range dirty {
		seen[k] = true
	}

	mark := func(k string) {
		if !seen[k] && !bytes.Equal(rec.view[k], view[k]) {
			seen[k] = true
			dirty = append(dirty, k)
		}
	}
	for k := range view {
		mark(k)
	}
	for k := range rec.view {
		mark(k)
	}
	if seen["progress"] && !seen["status"] {
		dirty = append(dirty, "status")
	}
	return dirty
}

func fieldsOf(a model.Activity) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
