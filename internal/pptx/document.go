// Package pptx reads and writes PowerPoint (OOXML) presentations at the
// level this application needs: the slide shape tree with text frames,
// tables, pictures, and nested groups.
//
// A presentation is a zip archive of XML parts. Slide XML is manipulated
// through etree so unknown elements and attributes round-trip untouched;
// only the parts this package edits are re-serialized on save.
package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

var (
	// ErrNotPresentation is returned when the archive lacks the expected
	// presentation parts.
	ErrNotPresentation = errors.New("not a PowerPoint presentation")

	// ErrPartMissing is returned when a referenced part is absent from the archive.
	ErrPartMissing = errors.New("referenced part missing from archive")
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	contentTypesPart = "[Content_Types].xml"
)

// Document is an open presentation. It is mutated in place and then
// serialized to an output path; it is not safe for concurrent use.
type Document struct {
	path         string
	parts        map[string][]byte
	order        []string // original zip entry order, for stable output
	slides       []*Slide
	contentTypes *etree.Document
	mediaSeq     int
}

// Open reads a presentation from disk.
func Open(filePath string) (*Document, error) {
	const op = "Open"

	reader, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("pptx: %s %s: %w", op, filePath, err)
	}
	defer reader.Close() //nolint:errcheck

	doc := &Document{
		path:  filePath,
		parts: make(map[string][]byte, len(reader.File)),
	}
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("pptx: %s: failed to open part %s: %w", op, f.Name, err)
		}
		data, readErr := io.ReadAll(rc)
		rc.Close() //nolint:errcheck
		if readErr != nil {
			return nil, fmt.Errorf("pptx: %s: failed to read part %s: %w", op, f.Name, readErr)
		}
		doc.parts[f.Name] = data
		doc.order = append(doc.order, f.Name)
	}

	if err := doc.load(); err != nil {
		return nil, err
	}
	return doc, nil
}

// load parses the content types, slide order, and each slide's XML.
func (d *Document) load() error {
	const op = "load"

	ctData, ok := d.parts[contentTypesPart]
	if !ok {
		return fmt.Errorf("pptx: %s: %w", op, ErrNotPresentation)
	}
	d.contentTypes = etree.NewDocument()
	if err := d.contentTypes.ReadFromBytes(ctData); err != nil {
		return fmt.Errorf("pptx: %s: invalid content types: %w", op, err)
	}

	slidePaths, err := d.slidePathsInOrder()
	if err != nil {
		return err
	}

	for _, slidePath := range slidePaths {
		slide, err := d.parseSlide(slidePath)
		if err != nil {
			return err
		}
		d.slides = append(d.slides, slide)
	}
	return nil
}

// slidePathsInOrder resolves the presentation's slide parts in presentation
// order via the sldIdLst relationship references.
func (d *Document) slidePathsInOrder() ([]string, error) {
	const op = "slidePathsInOrder"

	presData, ok := d.parts[presentationPart]
	if !ok {
		return nil, fmt.Errorf("pptx: %s: %w", op, ErrNotPresentation)
	}
	pres := etree.NewDocument()
	if err := pres.ReadFromBytes(presData); err != nil {
		return nil, fmt.Errorf("pptx: %s: invalid presentation part: %w", op, err)
	}

	relsData, ok := d.parts[presentationRels]
	if !ok {
		return nil, fmt.Errorf("pptx: %s: %w", op, ErrNotPresentation)
	}
	rels := etree.NewDocument()
	if err := rels.ReadFromBytes(relsData); err != nil {
		return nil, fmt.Errorf("pptx: %s: invalid presentation rels: %w", op, err)
	}
	targets := relationshipTargets(rels, "ppt")

	root := pres.Root()
	if root == nil {
		return nil, fmt.Errorf("pptx: %s: %w", op, ErrNotPresentation)
	}
	var paths []string
	if sldIDLst := root.SelectElement("p:sldIdLst"); sldIDLst != nil {
		for _, sldID := range sldIDLst.SelectElements("p:sldId") {
			relID := sldID.SelectAttrValue("r:id", "")
			target, ok := targets[relID]
			if !ok {
				return nil, fmt.Errorf("pptx: %s: slide relationship %s: %w", op, relID, ErrPartMissing)
			}
			paths = append(paths, target)
		}
	}
	return paths, nil
}

func (d *Document) parseSlide(slidePath string) (*Slide, error) {
	const op = "parseSlide"

	data, ok := d.parts[slidePath]
	if !ok {
		return nil, fmt.Errorf("pptx: %s: slide %s: %w", op, slidePath, ErrPartMissing)
	}
	xmlDoc := etree.NewDocument()
	if err := xmlDoc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("pptx: %s: slide %s: %w", op, slidePath, err)
	}

	slide := &Slide{
		doc:      d,
		path:     slidePath,
		relsPath: path.Join(path.Dir(slidePath), "_rels", path.Base(slidePath)+".rels"),
		xml:      xmlDoc,
	}
	if relsData, ok := d.parts[slide.relsPath]; ok {
		relsDoc := etree.NewDocument()
		if err := relsDoc.ReadFromBytes(relsData); err != nil {
			return nil, fmt.Errorf("pptx: %s: rels for %s: %w", op, slidePath, err)
		}
		slide.rels = relsDoc
	}
	return slide, nil
}

// Slides returns the slides in presentation order.
func (d *Document) Slides() []*Slide {
	return d.slides
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Save serializes the document to outputPath. Unmodified parts are written
// back byte for byte; edited slide XML, relationship parts, and added media
// replace or extend the original entries.
func (d *Document) Save(outputPath string) error {
	const op = "Save"

	for _, slide := range d.slides {
		data, err := slide.xml.WriteToBytes()
		if err != nil {
			return fmt.Errorf("pptx: %s: serialize %s: %w", op, slide.path, err)
		}
		d.parts[slide.path] = data
		if slide.rels != nil {
			relsData, err := slide.rels.WriteToBytes()
			if err != nil {
				return fmt.Errorf("pptx: %s: serialize %s: %w", op, slide.relsPath, err)
			}
			d.parts[slide.relsPath] = relsData
		}
	}
	ctData, err := d.contentTypes.WriteToBytes()
	if err != nil {
		return fmt.Errorf("pptx: %s: serialize content types: %w", op, err)
	}
	d.parts[contentTypesPart] = ctData

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	written := make(map[string]bool, len(d.parts))
	for _, name := range d.order {
		if err := writePart(w, name, d.parts[name]); err != nil {
			return fmt.Errorf("pptx: %s: %w", op, err)
		}
		written[name] = true
	}
	// Parts added since open (translated media) go at the end, sorted for
	// deterministic output.
	var added []string
	for name := range d.parts {
		if !written[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		if err := writePart(w, name, d.parts[name]); err != nil {
			return fmt.Errorf("pptx: %s: %w", op, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("pptx: %s: %w", op, err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("pptx: %s: %w", op, err)
	}
	return nil
}

func writePart(w *zip.Writer, name string, data []byte) error {
	entry, err := w.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// addMedia stores new media bytes as a fresh part and returns its part path.
func (d *Document) addMedia(data []byte, contentType string) string {
	ext := extensionFor(contentType)
	for {
		d.mediaSeq++
		name := fmt.Sprintf("ppt/media/translated%d.%s", d.mediaSeq, ext)
		if _, exists := d.parts[name]; exists {
			continue
		}
		d.parts[name] = data
		d.ensureContentType(ext, contentType)
		return name
	}
}

// ensureContentType registers a Default content type for the extension if
// the archive does not declare one yet.
func (d *Document) ensureContentType(ext, contentType string) {
	root := d.contentTypes.Root()
	if root == nil {
		return
	}
	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	def := root.CreateElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)
}

// relationshipTargets maps relationship IDs to part paths resolved against
// baseDir (the directory the .rels file describes).
func relationshipTargets(rels *etree.Document, baseDir string) map[string]string {
	targets := make(map[string]string)
	root := rels.Root()
	if root == nil {
		return targets
	}
	for _, rel := range root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		target := rel.SelectAttrValue("Target", "")
		if id == "" || target == "" {
			continue
		}
		targets[id] = path.Clean(path.Join(baseDir, target))
	}
	return targets
}

// contentTypeByExtension maps media file extensions to MIME types.
var contentTypeByExtension = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"wmf":  "image/x-wmf",
	"emf":  "image/x-emf",
}

// ContentTypeForPart guesses the MIME type of a media part from its extension.
func ContentTypeForPart(partPath string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(partPath), "."))
	if ct, ok := contentTypeByExtension[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return "jpeg"
	default:
		return "png"
	}
}
