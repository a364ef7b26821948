package doc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// maxDocumentXML caps the uncompressed size of word/document.xml.
const maxDocumentXML = 50 << 20

const maxHeadingLevel = 6

var (
	ErrNoDocumentXML = errors.New("word/document.xml not found in docx")

	// Style ids follow the UI language. Spanish Word writes "Ttulo1".
	reHeadingStyle = regexp.MustCompile(`(?i)^(?:heading|t[ií]?tulo)\s*(\d)?$`)
)

// ExtractText returns the visible text of a .docx archive as one line per
// paragraph. Heading paragraphs are prefixed with '#' per level and numbered
// or bulleted paragraphs with "- ", so the result segments like markdown.
// Table rows become one line with tab separated cells. Tracked deletions
// are skipped.
func ExtractText(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, ErrNoDocumentXML
	}
	if docFile.UncompressedSize64 > maxDocumentXML {
		return nil, fmt.Errorf("document.xml too large: %d bytes", docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	x := &extractor{}
	if err := x.run(xml.NewDecoder(io.LimitReader(rc, maxDocumentXML))); err != nil {
		return nil, err
	}
	return []byte(x.String()), nil
}

type paragraph struct {
	style string
	list  bool
	text  strings.Builder
}

type extractor struct {
	lines []string

	para     paragraph
	inRun    bool
	inText   bool
	delDepth int

	tblDepth int
	cell     []string
	row      []string
}

func (x *extractor) run(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			x.start(t)
		case xml.EndElement:
			x.end(t.Name.Local)
		case xml.CharData:
			if x.inText && x.delDepth == 0 {
				x.para.text.Write(t)
			}
		}
	}
}

func (x *extractor) start(t xml.StartElement) {
	switch t.Name.Local {
	case "del", "moveFrom":
		x.delDepth++
	case "p":
		x.para = paragraph{}
	case "pStyle":
		x.para.style = attr(t, "val")
	case "numPr":
		x.para.list = true
	case "r":
		x.inRun = true
	case "t":
		x.inText = true
	case "tab":
		// pPr also holds <w:tabs><w:tab/> stop definitions
		x.runeInRun('\t')
	case "br", "cr":
		x.runeInRun('\n')
	case "noBreakHyphen":
		x.runeInRun('-')
	case "tbl":
		x.tblDepth++
	case "tr":
		if x.tblDepth == 1 {
			x.row = x.row[:0]
		}
	case "tc":
		if x.tblDepth == 1 {
			x.cell = x.cell[:0]
		}
	}
}

func (x *extractor) end(name string) {
	switch name {
	case "del", "moveFrom":
		if x.delDepth > 0 {
			x.delDepth--
		}
	case "r":
		x.inRun = false
	case "t":
		x.inText = false
	case "p":
		x.endParagraph()
	case "tc":
		if x.tblDepth == 1 {
			x.row = append(x.row, strings.Join(x.cell, " "))
		}
	case "tr":
		if x.tblDepth == 1 {
			x.addLine(strings.TrimRight(strings.Join(x.row, "\t"), "\t"))
		}
	case "tbl":
		if x.tblDepth > 0 {
			x.tblDepth--
		}
	}
}

func (x *extractor) runeInRun(r rune) {
	if x.inRun && x.delDepth == 0 {
		x.para.text.WriteRune(r)
	}
}

func (x *extractor) endParagraph() {
	text := strings.TrimSpace(x.para.text.String())
	if text == "" {
		return
	}
	if x.tblDepth > 0 {
		x.cell = append(x.cell, strings.ReplaceAll(text, "\n", " "))
		return
	}

	prefix := ""
	if level := headingLevel(x.para.style); level > 0 {
		prefix = strings.Repeat("#", level) + " "
	} else if x.para.list {
		prefix = "- "
	}
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			line = prefix + line
		}
		x.addLine(line)
	}
}

func (x *extractor) addLine(line string) {
	if strings.TrimSpace(line) != "" {
		x.lines = append(x.lines, line)
	}
}

func (x *extractor) String() string {
	if len(x.lines) == 0 {
		return ""
	}
	return strings.Join(x.lines, "\n") + "\n"
}

// headingLevel maps a paragraph style id to a heading level, 0 for body
// styles. "Title" counts as level 1.
func headingLevel(style string) int {
	if strings.EqualFold(style, "title") {
		return 1
	}
	m := reHeadingStyle.FindStringSubmatch(style)
	if m == nil {
		return 0
	}
	if m[1] == "" {
		return 1
	}
	level, _ := strconv.Atoi(m[1])
	return min(max(level, 1), maxHeadingLevel)
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
