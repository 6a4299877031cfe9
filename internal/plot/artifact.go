package plot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// Artifact is a rendered figure: a PNG on disk plus its inline encoding.
type Artifact struct {
	Path      string    `json:"path"`
	Base64PNG string    `json:"base64_png"`
	CreatedAt time.Time `json:"created_at"`
}

// EncodePNG renders the figure and returns raw PNG bytes.
func (f *Figure) EncodePNG() ([]byte, error) {
	img, err := f.Render()
	if err != nil {
		return nil, taberr.Wrap(taberr.ErrArtifactEncode, err, "figure rendering failed")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, taberr.Wrap(taberr.ErrArtifactEncode, err, "PNG encoding failed")
	}
	return buf.Bytes(), nil
}

// Save renders the figure into dir under a timestamped filename and returns
// the artifact. With dir == "" the PNG is kept inline only.
func (f *Figure) Save(dir string) (*Artifact, error) {
	data, err := f.EncodePNG()
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		Base64PNG: base64.StdEncoding.EncodeToString(data),
		CreatedAt: time.Now().UTC(),
	}
	if dir == "" {
		return art, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, taberr.Wrap(taberr.ErrArtifactWrite, err, "cannot create artifact directory").
			With("dir", dir)
	}
	name := fmt.Sprintf("%s_%s.png", sanitizeName(string(f.Kind)), art.CreatedAt.Format("20060102T150405.000"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, taberr.Wrap(taberr.ErrArtifactWrite, err, "cannot write artifact").
			With("path", path)
	}
	art.Path = path
	return art, nil
}

// sanitizeName keeps artifact filenames portable.
func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "figure"
	}
	return b.String()
}
