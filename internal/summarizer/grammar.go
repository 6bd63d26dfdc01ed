package summarizer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Canonical section labels, in output order.
const (
	SectionTitle        = "Title"
	SectionTLDR         = "TL;DR"
	SectionDiscussion   = "Discussion"
	SectionImplications = "Implications"
	SectionActions      = "Advice/Actions"
	SectionGlossary     = "Glossary"
)

const (
	maxTLDRWords         = 20
	maxDiscussionBullets = 8
)

var requiredSections = []string{SectionTitle, SectionTLDR, SectionDiscussion, SectionImplications, SectionActions}

// inlineSections carry their content on the label line.
var inlineSections = map[string]bool{SectionTitle: true, SectionTLDR: true}

var sectionSynonyms = map[string]string{
	"title":              SectionTitle,
	"tl;dr":              SectionTLDR,
	"tldr":               SectionTLDR,
	"tl dr":              SectionTLDR,
	"tl-dr":              SectionTLDR,
	"discussion":         SectionDiscussion,
	"evidence":           SectionDiscussion,
	"key points":         SectionDiscussion,
	"implications":       SectionImplications,
	"implication":        SectionImplications,
	"advice/actions":     SectionActions,
	"advice / actions":   SectionActions,
	"advice and actions": SectionActions,
	"advice":             SectionActions,
	"actions":            SectionActions,
	"action items":       SectionActions,
	"glossary":           SectionGlossary,
	"key terms":          SectionGlossary,
	"terms":              SectionGlossary,
}

var (
	reMarkdown   = regexp.MustCompile("(?m)(\\*\\*|__|`|^\\s{0,3}#{1,6}\\s|^\\s*\\*\\s|^\\s*\\d+[.)]\\s)")
	reLabelLine  = regexp.MustCompile(`^([A-Za-z][A-Za-z ;/\-]{1,30}?)\s*(?::|\s-\s)\s*(.*)$`)
	reAltBullet  = regexp.MustCompile(`^(?:[•*–·]\s*|-)`)
	reSpaceRuns  = regexp.MustCompile(`\s+`)
	markdownTool = goldmark.New()
)

// Validation describes how well a summary matches the structured grammar.
type Validation struct {
	Missing           []string
	TLDRWords         int
	DiscussionBullets int
	Markdown          bool
}

// Conforming reports whether the summary satisfies every grammar rule.
func (v Validation) Conforming() bool {
	return len(v.Issues()) == 0
}

// Issues lists the broken grammar rules in readable form.
func (v Validation) Issues() []string {
	var issues []string
	if len(v.Missing) > 0 {
		issues = append(issues, "missing sections: "+strings.Join(v.Missing, ", "))
	}
	if v.TLDRWords > maxTLDRWords {
		issues = append(issues, fmt.Sprintf("TL;DR has %d words", v.TLDRWords))
	}
	if v.DiscussionBullets > maxDiscussionBullets {
		issues = append(issues, fmt.Sprintf("Discussion has %d bullets", v.DiscussionBullets))
	}
	if v.Markdown {
		issues = append(issues, "contains markdown")
	}
	return issues
}

// Validate checks text against the grammar without changing it.
func Validate(summary string) Validation {
	v := Validation{Markdown: reMarkdown.MatchString(summary)}
	seen := map[string]bool{}
	current := ""

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, SectionTitle+":"):
			seen[SectionTitle] = true
			current = SectionTitle
		case strings.HasPrefix(line, SectionTLDR+":"):
			seen[SectionTLDR] = true
			current = SectionTLDR
			v.TLDRWords = len(strings.Fields(strings.TrimPrefix(line, SectionTLDR+":")))
		case strings.HasPrefix(line, "-"):
			if current == SectionDiscussion {
				v.DiscussionBullets++
			}
		case strings.HasSuffix(line, ":"):
			label := strings.TrimSuffix(line, ":")
			if isCanonical(label) {
				seen[label] = true
			}
			current = label
		}
	}

	for _, s := range requiredSections {
		if !seen[s] {
			v.Missing = append(v.Missing, s)
		}
	}
	return v
}

// Repair normalizes near-miss output into the grammar: markdown is stripped,
// section labels are canonicalized, bullets become "- " and Discussion is cut
// to its maximum length. Content is never invented; missing sections stay missing.
func Repair(summary string) (string, Validation) {
	src := strings.ReplaceAll(summary, "\r\n", "\n")
	if reMarkdown.MatchString(src) {
		src = stripMarkdown(src)
	}

	var out []string
	current := ""
	discussion := 0
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if loc := reAltBullet.FindStringIndex(line); loc != nil && !strings.HasPrefix(line, "- ") {
			if body := strings.TrimSpace(line[loc[1]:]); body != "" {
				line = "- " + body
			}
		}

		if strings.HasPrefix(line, "- ") {
			if current == SectionDiscussion {
				discussion++
				if discussion > maxDiscussionBullets {
					continue
				}
			}
			out = append(out, line)
			continue
		}

		if section, rest, ok := matchSection(line); ok {
			current = section
			if inlineSections[section] && rest != "" {
				line = section + ": " + rest
			} else {
				line = section + ":"
			}
		} else if strings.HasSuffix(line, ":") {
			current = strings.TrimSuffix(line, ":")
		}
		out = append(out, line)
	}

	repaired := strings.Join(out, "\n")
	return repaired, Validate(repaired)
}

// matchSection recognizes a section label line. Block sections match only when
// nothing follows the label.
func matchSection(line string) (string, string, bool) {
	if section, ok := sectionSynonyms[normalizeLabel(line)]; ok && !inlineSections[section] {
		return section, "", true
	}
	m := reLabelLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	section, ok := sectionSynonyms[normalizeLabel(m[1])]
	if !ok {
		return "", "", false
	}
	rest := strings.TrimSpace(m[2])
	if !inlineSections[section] && rest != "" {
		return "", "", false
	}
	return section, rest, true
}

func normalizeLabel(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	return reSpaceRuns.ReplaceAllString(strings.ToLower(s), " ")
}

func isCanonical(label string) bool {
	switch label {
	case SectionTitle, SectionTLDR, SectionDiscussion, SectionImplications, SectionActions, SectionGlossary:
		return true
	}
	return false
}

// stripMarkdown parses src as markdown and writes its text content back out
// one block per line, list items as "- " bullets.
func stripMarkdown(src string) string {
	source := []byte(src)
	doc := markdownTool.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	bullet := false
	newline := func() {
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	write := func(b []byte) {
		if bullet {
			buf.WriteString("- ")
			bullet = false
		}
		buf.Write(b)
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			newline()
		case *ast.ListItem:
			if entering {
				newline()
				bullet = true
			}
		case *ast.ThematicBreak, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				newline()
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					write(seg.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				write(node.Label(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}
