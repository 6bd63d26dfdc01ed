package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"
)

const (
	// DateLayout is MM/DD/YY, the format stored in class_data.json.
	DateLayout = "01/02/06"
	// FileDateLayout is MM-DD-YY, the format used in summary filenames.
	FileDateLayout = "01-02-06"

	defaultClass = "General"
)

// Resolve returns the metadata of class from the first candidate file that has
// it, or the default record.
func (r *implResolver) Resolve(ctx context.Context, class string) ClassMetadata {
	for _, path := range r.paths {
		data, ok := r.load(ctx, path)
		if !ok {
			continue
		}
		if meta, found := lookup(data, class); found {
			return r.fill(class, meta)
		}
	}
	return r.Default(class)
}

// ResolveSelected resolves the class named by current_classes.selected.
func (r *implResolver) ResolveSelected(ctx context.Context) ClassMetadata {
	return r.Resolve(ctx, r.SelectedClass(ctx))
}

// SelectedClass returns current_classes.selected from the first candidate that
// records one, or General.
func (r *implResolver) SelectedClass(ctx context.Context) string {
	for _, path := range r.paths {
		data, ok := r.load(ctx, path)
		if !ok {
			continue
		}
		if selected := selectedClass(data); selected != "" {
			return selected
		}
	}
	r.logger.Debug(ctx, "No selected class recorded, using %s", defaultClass)
	return defaultClass
}

// Default is the synthesized record for a class without stored metadata.
func (r *implResolver) Default(class string) ClassMetadata {
	return ClassMetadata{
		CourseName:   class,
		ClassCode:    class,
		LectureTitle: "",
		Date:         r.now().Format(DateLayout),
	}
}

func (r *implResolver) load(ctx context.Context, path string) (map[string]json.RawMessage, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn(ctx, "Error reading %s: %v", path, err)
		}
		return nil, false
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		r.logger.Warn(ctx, "Error parsing %s: %v", path, err)
		return nil, false
	}
	return data, true
}

func (r *implResolver) fill(class string, meta map[string]any) ClassMetadata {
	out := r.Default(class)
	if v := stringField(meta, "course_name"); v != "" {
		out.CourseName = v
	}
	if v := stringField(meta, "class_code"); v != "" {
		out.ClassCode = v
	}
	out.LectureTitle = stringField(meta, "lecture_title")
	if v := stringField(meta, "date"); v != "" {
		out.Date = v
	}
	return out
}

// lookup finds data["classes"][class], falling back to data[class].
func lookup(data map[string]json.RawMessage, class string) (map[string]any, bool) {
	if class == "" {
		return nil, false
	}
	if rawClasses, ok := data["classes"]; ok {
		var classes map[string]json.RawMessage
		if json.Unmarshal(rawClasses, &classes) == nil {
			if meta, ok := decodeObject(classes[class]); ok {
				return meta, true
			}
		}
	}
	return decodeObject(data[class])
}

func selectedClass(data map[string]json.RawMessage) string {
	var current struct {
		Selected string `json:"selected"`
	}
	raw, ok := data["current_classes"]
	if !ok || json.Unmarshal(raw, &current) != nil {
		return ""
	}
	return strings.TrimSpace(current.Selected)
}

func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func stringField(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

var pathReplacer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-")

// SummaryBaseName is the metadata-driven summary filename without extension:
// <course with spaces as underscores>_<MM-DD-YY of now>. A summary regenerated
// on the same day for the same course replaces the earlier one.
func SummaryBaseName(meta ClassMetadata, now time.Time) string {
	course := strings.TrimSpace(meta.CourseName)
	if course == "" {
		course = defaultClass
	}
	return pathReplacer.Replace(course) + "_" + now.Format(FileDateLayout)
}
