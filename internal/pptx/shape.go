package pptx

import (
	"path"
	"strconv"

	"github.com/beevik/etree"
)

// Slide is one slide of a presentation, wrapping its XML part and the
// relationship part that resolves its media references.
type Slide struct {
	doc      *Document
	path     string
	relsPath string
	xml      *etree.Document
	rels     *etree.Document // nil when the slide has no relationships
}

// shapeTags are the spTree child elements treated as shapes.
var shapeTags = map[string]bool{
	"sp":           true,
	"pic":          true,
	"graphicFrame": true,
	"grpSp":        true,
	"cxnSp":        true,
}

// Shapes returns the slide's top-level shapes in document order. Callers
// that mutate the slide must iterate this snapshot, never a live listing.
func (s *Slide) Shapes() []*Shape {
	spTree := s.shapeTree()
	if spTree == nil {
		return nil
	}
	return childShapes(s, spTree)
}

func (s *Slide) shapeTree() *etree.Element {
	root := s.xml.Root()
	if root == nil {
		return nil
	}
	cSld := root.SelectElement("p:cSld")
	if cSld == nil {
		return nil
	}
	return cSld.SelectElement("p:spTree")
}

func childShapes(slide *Slide, parent *etree.Element) []*Shape {
	var shapes []*Shape
	for _, child := range parent.ChildElements() {
		if shapeTags[child.Tag] {
			shapes = append(shapes, &Shape{slide: slide, el: child})
		}
	}
	return shapes
}

// Shape is one positioned element on a slide: a text box, table, picture,
// or group of shapes.
type Shape struct {
	slide *Slide
	el    *etree.Element
}

// IsGroup reports whether the shape is a group of nested shapes.
func (sh *Shape) IsGroup() bool {
	return sh.el.Tag == "grpSp"
}

// IsPicture reports whether the shape is an embedded picture.
func (sh *Shape) IsPicture() bool {
	return sh.el.Tag == "pic"
}

// HasTextFrame reports whether the shape carries an editable text container.
func (sh *Shape) HasTextFrame() bool {
	return sh.el.Tag == "sp" && sh.el.SelectElement("p:txBody") != nil
}

// TextFrame returns the shape's text container, or nil.
func (sh *Shape) TextFrame() *TextFrame {
	txBody := sh.el.SelectElement("p:txBody")
	if txBody == nil {
		return nil
	}
	return &TextFrame{el: txBody}
}

// HasTable reports whether the shape is a graphic frame holding a table.
func (sh *Shape) HasTable() bool {
	return sh.tableElement() != nil
}

// Table returns the shape's table, or nil.
func (sh *Shape) Table() *Table {
	tbl := sh.tableElement()
	if tbl == nil {
		return nil
	}
	return &Table{el: tbl}
}

func (sh *Shape) tableElement() *etree.Element {
	if sh.el.Tag != "graphicFrame" {
		return nil
	}
	return sh.el.FindElement("a:graphic/a:graphicData/a:tbl")
}

// GroupShapes returns the shapes nested directly inside a group, in document
// order. Non-group shapes return nil.
func (sh *Shape) GroupShapes() []*Shape {
	if !sh.IsGroup() {
		return nil
	}
	return childShapes(sh.slide, sh.el)
}

// Picture accessors

// pictureBlip returns the a:blip element carrying the image relationship.
func (sh *Shape) pictureBlip() *etree.Element {
	if !sh.IsPicture() {
		return nil
	}
	return sh.el.FindElement("p:blipFill/a:blip")
}

// ImageBytes returns the embedded image data and its content type.
func (sh *Shape) ImageBytes() ([]byte, string, error) {
	blip := sh.pictureBlip()
	if blip == nil {
		return nil, "", ErrPartMissing
	}
	relID := blip.SelectAttrValue("r:embed", "")
	if relID == "" || sh.slide.rels == nil {
		return nil, "", ErrPartMissing
	}
	targets := relationshipTargets(sh.slide.rels, path.Dir(sh.slide.path))
	partPath, ok := targets[relID]
	if !ok {
		return nil, "", ErrPartMissing
	}
	data, ok := sh.slide.doc.parts[partPath]
	if !ok {
		return nil, "", ErrPartMissing
	}
	return data, ContentTypeForPart(partPath), nil
}

// ReplaceImage swaps the picture's media for new bytes, keeping the shape's
// position and size. The new image is stored as a fresh media part and the
// shape's blip relationship is retargeted, so other shapes sharing the
// original media are unaffected.
func (sh *Shape) ReplaceImage(data []byte, contentType string) error {
	blip := sh.pictureBlip()
	if blip == nil || sh.slide.rels == nil {
		return ErrPartMissing
	}

	partPath := sh.slide.doc.addMedia(data, contentType)
	relID := sh.slide.addImageRelationship(partPath)
	blip.RemoveAttr("r:embed")
	blip.CreateAttr("r:embed", relID)
	return nil
}

// addImageRelationship appends an image relationship to the slide's rels
// part and returns its ID.
func (s *Slide) addImageRelationship(partPath string) string {
	root := s.rels.Root()
	existing := make(map[string]bool)
	for _, rel := range root.SelectElements("Relationship") {
		existing[rel.SelectAttrValue("Id", "")] = true
	}
	seq := len(existing)
	var relID string
	for {
		seq++
		relID = "rIdT" + strconv.Itoa(seq)
		if !existing[relID] {
			break
		}
	}

	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", relID)
	rel.CreateAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image")
	// Targets are relative to the slide part's directory.
	rel.CreateAttr("Target", relativeTarget(path.Dir(s.path), partPath))
	return relID
}

func relativeTarget(fromDir, partPath string) string {
	// Media lives under ppt/media while slides live under ppt/slides.
	if path.Dir(partPath) == path.Join(path.Dir(fromDir), "media") {
		return "../media/" + path.Base(partPath)
	}
	return partPath
}
