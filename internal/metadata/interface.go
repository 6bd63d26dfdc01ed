package metadata

import "context"

// ClassMetadata describes the course a class folder belongs to.
type ClassMetadata struct {
	CourseName   string `json:"course_name"`
	ClassCode    string `json:"class_code"`
	LectureTitle string `json:"lecture_title"`
	Date         string `json:"date"`
}

// Resolver looks up class metadata. It never fails: missing or unreadable data
// yields a synthesized default.
type Resolver interface {
	Resolve(ctx context.Context, class string) ClassMetadata
	ResolveSelected(ctx context.Context) ClassMetadata
	SelectedClass(ctx context.Context) string
}
