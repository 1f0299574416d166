package pptx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
  <Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>
</Types>`

const presentationXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId1"/>
  </p:sldIdLst>
</p:presentation>`

const presentationRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
</Relationships>`

const slideRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image1.png"/>
</Relationships>`

// testSlideXML has one formatted text shape, a picture, a group with a nested
// text shape, and a single-cell table.
const testSlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:cSld>
    <p:spTree>
      <p:sp>
        <p:txBody>
          <a:p>
            <a:r>
              <a:rPr sz="1800" b="1"><a:latin typeface="Calibri"/></a:rPr>
              <a:t>Hello </a:t>
            </a:r>
            <a:r>
              <a:t>world</a:t>
            </a:r>
            <a:br/>
            <a:r>
              <a:t>second line</a:t>
            </a:r>
          </a:p>
          <a:p>
            <a:r>
              <a:t>second paragraph</a:t>
            </a:r>
          </a:p>
        </p:txBody>
      </p:sp>
      <p:pic>
        <p:blipFill>
          <a:blip r:embed="rId2"/>
        </p:blipFill>
      </p:pic>
      <p:grpSp>
        <p:sp>
          <p:txBody>
            <a:p><a:r><a:t>nested text</a:t></a:r></a:p>
          </p:txBody>
        </p:sp>
      </p:grpSp>
      <p:graphicFrame>
        <a:graphic>
          <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
            <a:tbl>
              <a:tr>
                <a:tc>
                  <a:txBody>
                    <a:p><a:r><a:t>cell one</a:t></a:r></a:p>
                  </a:txBody>
                </a:tc>
                <a:tc>
                  <a:txBody>
                    <a:p><a:r><a:t>cell two</a:t></a:r></a:p>
                  </a:txBody>
                </a:tc>
              </a:tr>
            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
    </p:spTree>
  </p:cSld>
</p:sld>`

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// writeTestPresentation assembles a minimal single-slide archive on disk.
func writeTestPresentation(t *testing.T) string {
	t.Helper()

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"ppt/presentation.xml", []byte(presentationXML)},
		{"ppt/_rels/presentation.xml.rels", []byte(presentationRelsXML)},
		{"ppt/slides/slide1.xml", []byte(testSlideXML)},
		{"ppt/slides/_rels/slide1.xml.rels", []byte(slideRelsXML)},
		{"ppt/media/image1.png", testPNG(t)},
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, part := range parts {
		entry, err := w.Create(part.name)
		require.NoError(t, err)
		_, err = entry.Write(part.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpen(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)
	require.Len(t, doc.Slides(), 1)
}

func TestOpen_NotAPresentation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pptx")
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPresentation)
}

func TestSlide_Shapes(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	shapes := doc.Slides()[0].Shapes()
	require.Len(t, shapes, 4)

	assert.True(t, shapes[0].HasTextFrame())
	assert.True(t, shapes[1].IsPicture())
	assert.True(t, shapes[2].IsGroup())
	assert.True(t, shapes[3].HasTable())

	assert.False(t, shapes[1].HasTextFrame())
	assert.False(t, shapes[3].HasTextFrame())
}

func TestTextFrame_Text(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	frame := doc.Slides()[0].Shapes()[0].TextFrame()
	require.NotNil(t, frame)
	assert.Equal(t, "Hello world\nsecond line\nsecond paragraph", frame.Text())
}

func TestTextFrame_FirstRunFormat(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	format := doc.Slides()[0].Shapes()[0].TextFrame().FirstRunFormat()
	require.NotNil(t, format)
	require.NotNil(t, format.Size)
	assert.Equal(t, 1800, *format.Size)
	require.NotNil(t, format.Bold)
	assert.True(t, *format.Bold)
	assert.Nil(t, format.Italic, "undeclared attributes stay nil")
	assert.Equal(t, "Calibri", format.Face)
}

func TestTextFrame_SetTextPreserveFormat(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	frame := doc.Slides()[0].Shapes()[0].TextFrame()
	frame.SetTextPreserveFormat("Hola mundo\nsegunda línea")

	assert.Equal(t, "Hola mundo\nsegunda línea", frame.Text())

	// The first run's attributes survive onto the new runs.
	format := frame.FirstRunFormat()
	require.NotNil(t, format)
	require.NotNil(t, format.Size)
	assert.Equal(t, 1800, *format.Size)
	assert.Equal(t, "Calibri", format.Face)
}

func TestTextFrame_SetText(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	frame := doc.Slides()[0].Shapes()[0].TextFrame()
	frame.SetText("plain replacement")

	assert.Equal(t, "plain replacement", frame.Text())
	format := frame.FirstRunFormat()
	require.NotNil(t, format)
	assert.Nil(t, format.Size, "plain replacement drops run formatting")
}

func TestShape_GroupShapes(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	group := doc.Slides()[0].Shapes()[2]
	nested := group.GroupShapes()
	require.Len(t, nested, 1)
	assert.True(t, nested[0].HasTextFrame())
	assert.Equal(t, "nested text", nested[0].TextFrame().Text())

	assert.Nil(t, doc.Slides()[0].Shapes()[0].GroupShapes(), "non-groups have no nested shapes")
}

func TestTable(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	table := doc.Slides()[0].Shapes()[3].Table()
	require.NotNil(t, table)
	rows := table.Rows()
	require.Len(t, rows, 1)
	cells := rows[0].Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, "cell one", cells[0].TextFrame().Text())
	assert.Equal(t, "cell two", cells[1].TextFrame().Text())
}

func TestShape_ImageBytes(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	data, contentType, err := doc.Slides()[0].Shapes()[1].ImageBytes()
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestShape_ReplaceImage(t *testing.T) {
	doc, err := Open(writeTestPresentation(t))
	require.NoError(t, err)

	replacement := []byte("pretend png bytes")
	pic := doc.Slides()[0].Shapes()[1]
	require.NoError(t, pic.ReplaceImage(replacement, "image/png"))

	data, contentType, err := pic.ImageBytes()
	require.NoError(t, err)
	assert.Equal(t, replacement, data)
	assert.Equal(t, "image/png", contentType)

	// The original media part is left in place for any shape still sharing it.
	_, ok := doc.parts["ppt/media/image1.png"]
	assert.True(t, ok)
}

func TestDocument_SaveRoundTrip(t *testing.T) {
	path := writeTestPresentation(t)
	doc, err := Open(path)
	require.NoError(t, err)

	doc.Slides()[0].Shapes()[0].TextFrame().SetText("translated text")
	require.NoError(t, doc.Slides()[0].Shapes()[1].ReplaceImage([]byte("new media"), "image/jpeg"))

	outPath := filepath.Join(t.TempDir(), "out.pptx")
	require.NoError(t, doc.Save(outPath))

	reopened, err := Open(outPath)
	require.NoError(t, err)
	require.Len(t, reopened.Slides(), 1)

	shapes := reopened.Slides()[0].Shapes()
	assert.Equal(t, "translated text", shapes[0].TextFrame().Text())

	data, contentType, err := shapes[1].ImageBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("new media"), data)
	assert.Equal(t, "image/jpeg", contentType)

	// Untouched content survives the round trip.
	assert.Equal(t, "nested text", shapes[2].GroupShapes()[0].TextFrame().Text())
	assert.Equal(t, "cell one", shapes[3].Table().Rows()[0].Cells()[0].TextFrame().Text())
}

func TestContentTypeForPart(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeForPart("ppt/media/image1.png"))
	assert.Equal(t, "image/jpeg", ContentTypeForPart("ppt/media/photo.JPG"))
	assert.Equal(t, "image/x-wmf", ContentTypeForPart("ppt/media/diagram.wmf"))
	assert.Equal(t, "application/octet-stream", ContentTypeForPart("ppt/media/unknown.bin"))
}
