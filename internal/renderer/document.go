package renderer

import "strings"

type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockBullets
	BlockParagraph
)

// Block is one unit of body content. Items is set for BlockBullets, Text
// otherwise.
type Block struct {
	Kind  BlockKind
	Text  string
	Items []string
}

// Document is a structured summary broken into typed blocks. Title and TLDR are
// pulled out of the body; an absent field is empty.
type Document struct {
	Title  string
	TLDR   string
	Blocks []Block
}

const conclusionHeading = "Conclusion / TL;DR"

// Parse reads summary text line by line. Lines that match no rule become
// paragraphs, so any input produces a document.
func Parse(summary string) Document {
	var (
		doc     Document
		bullets []string
	)
	flush := func() {
		if len(bullets) > 0 {
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockBullets, Items: bullets})
			bullets = nil
		}
	}

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Title:"):
			doc.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "TL;DR:"):
			doc.TLDR = strings.TrimSpace(strings.TrimPrefix(line, "TL;DR:"))
		case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, "-"):
			flush()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockHeading, Text: strings.TrimSpace(line)})
		case strings.HasPrefix(line, "-"):
			bullets = append(bullets, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		default:
			flush()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockParagraph, Text: strings.TrimSpace(line)})
		}
	}
	flush()

	return doc
}
