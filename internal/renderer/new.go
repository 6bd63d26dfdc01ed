package renderer

// DefaultCredit is printed in the footer when none is configured.
const DefaultCredit = "Generated by LectureFlow"

type implRenderer struct {
	credit   string
	compress bool
}

// New creates a Renderer whose footer carries credit.
func New(credit string) Renderer {
	if credit == "" {
		credit = DefaultCredit
	}
	return &implRenderer{
		credit:   credit,
		compress: true,
	}
}
