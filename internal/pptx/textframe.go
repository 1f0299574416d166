package pptx

import (
	"strings"

	"github.com/beevik/etree"
)

// TextFrame is an editable text container: the p:txBody of a shape or the
// a:txBody of a table cell.
type TextFrame struct {
	el *etree.Element
}

// RunFormat captures the font attributes of a text run. Nil pointer fields
// mean the run did not declare the attribute.
type RunFormat struct {
	Size   *int // hundredths of a point
	Face   string
	Bold   *bool
	Italic *bool
}

// Text returns the frame's plain text: runs joined within a paragraph,
// paragraphs joined with newlines, line breaks as newlines.
func (tf *TextFrame) Text() string {
	var paragraphs []string
	for _, p := range tf.el.SelectElements("a:p") {
		var b strings.Builder
		for _, child := range p.ChildElements() {
			switch child.Tag {
			case "r", "fld":
				if t := child.SelectElement("a:t"); t != nil {
					b.WriteString(t.Text())
				}
			case "br":
				b.WriteString("\n")
			}
		}
		paragraphs = append(paragraphs, b.String())
	}
	return strings.Join(paragraphs, "\n")
}

// FirstRunFormat captures the font attributes of the first run of the first
// paragraph, or nil when the frame has no runs to sample from.
func (tf *TextFrame) FirstRunFormat() *RunFormat {
	firstPara := tf.el.SelectElement("a:p")
	if firstPara == nil {
		return nil
	}
	firstRun := firstPara.SelectElement("a:r")
	if firstRun == nil {
		return nil
	}

	format := &RunFormat{}
	rPr := firstRun.SelectElement("a:rPr")
	if rPr != nil {
		if sz := rPr.SelectAttrValue("sz", ""); sz != "" {
			if v, err := parseInt(sz); err == nil {
				format.Size = &v
			}
		}
		if b := rPr.SelectAttrValue("b", ""); b != "" {
			v := b == "1" || b == "true"
			format.Bold = &v
		}
		if i := rPr.SelectAttrValue("i", ""); i != "" {
			v := i == "1" || i == "true"
			format.Italic = &v
		}
		if latin := rPr.SelectElement("a:latin"); latin != nil {
			format.Face = latin.SelectAttrValue("typeface", "")
		}
	}
	return format
}

// SetText clears the frame and inserts newText as a single paragraph with
// one run per line, separated by explicit line breaks.
func (tf *TextFrame) SetText(newText string) {
	tf.setText(newText, nil)
}

// SetTextPreserveFormat clears the frame and inserts newText as a single
// run carrying the font attributes captured from the first run of the first
// paragraph. Formatting of later runs is discarded. Frames with no run to
// sample from get plain text.
func (tf *TextFrame) SetTextPreserveFormat(newText string) {
	tf.setText(newText, tf.FirstRunFormat())
}

func (tf *TextFrame) setText(newText string, format *RunFormat) {
	for _, p := range tf.el.SelectElements("a:p") {
		tf.el.RemoveChild(p)
	}

	para := tf.el.CreateElement("a:p")
	for i, line := range strings.Split(newText, "\n") {
		if i > 0 {
			para.CreateElement("a:br")
		}
		run := para.CreateElement("a:r")
		if format != nil {
			applyRunFormat(run, format)
		}
		t := run.CreateElement("a:t")
		t.SetText(line)
	}
}

// applyRunFormat writes the captured attributes onto a freshly created run.
// Only attributes present in the source run are applied.
func applyRunFormat(run *etree.Element, format *RunFormat) {
	rPr := run.CreateElement("a:rPr")
	if format.Size != nil {
		rPr.CreateAttr("sz", formatInt(*format.Size))
	}
	if format.Bold != nil {
		rPr.CreateAttr("b", boolAttr(*format.Bold))
	}
	if format.Italic != nil {
		rPr.CreateAttr("i", boolAttr(*format.Italic))
	}
	if format.Face != "" {
		latin := rPr.CreateElement("a:latin")
		latin.CreateAttr("typeface", format.Face)
	}
}

func boolAttr(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
