package frames

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-parser/dicom"
	"github.com/google/uuid"

	"github.com/jinftw64/dicomweb-pacs/internal/services"
)

// ExtractPixelData parses a decoded DICOM file on disk and returns the raw
// bytes of its pixel-data element. Encapsulated fragments are concatenated;
// multi-frame objects are not sub-divided here.
func ExtractPixelData(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrRead, "frames", "open object", "", err)
	}
	defer file.Close()

	dataSet, err := dicom.Parse(file)
	if err != nil {
		return nil, services.Wrap(services.ErrRead, "frames", "parse object", "", err)
	}

	for _, element := range dataSet.Elements {
		if element.Tag != dicom.PixelDataTag {
			continue
		}
		data, err := elementBytes(element.ValueField)
		if err != nil {
			return nil, services.Wrap(services.ErrRead, "frames", "read pixel data", "", err)
		}
		return data, nil
	}
	return nil, services.Wrap(services.ErrRead, "frames", "read pixel data", "object has no pixel data element", nil)
}

func elementBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case interface{ Data() [][]byte }:
		return bytes.Join(v.Data(), nil), nil
	case [][]byte:
		return bytes.Join(v, nil), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected pixel data value type %T", value)
	}
}

// NewBoundary returns a fresh random multipart boundary token, long enough to
// make collision with pixel content negligible.
func NewBoundary() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WritePart emits one multipart body part carrying the pixel bytes, framed by
// the given boundary, then the closing boundary.
func WritePart(w io.Writer, boundary, contentLocation string, pixel []byte) error {
	var head bytes.Buffer
	head.WriteString("\r\n--" + boundary + "\r\n")
	head.WriteString("Content-Location: " + contentLocation + "\r\n")
	head.WriteString("Content-Type: application/octet-stream\r\n")
	head.WriteString("\r\n")

	if _, err := w.Write(head.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(pixel); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n--"+boundary+"--\r\n")
	return err
}
