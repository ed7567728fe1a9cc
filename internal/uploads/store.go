// Package uploads stores task attachments on the local filesystem and maps
// them to URLs served under the static uploads prefix.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store writes attachment files under dir and reports their public URLs.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) *Store {
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes one attachment for the given task and returns its URL. Files
// are keyed by task and a millisecond timestamp so repeated uploads of the
// same filename never collide.
func (s *Store) Save(taskID uuid.UUID, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(filename))

	taskDir := filepath.Join(s.dir, taskID.String())
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return "", fmt.Errorf("uploads.Save: %w", err)
	}

	f, err := os.Create(filepath.Join(taskDir, name))
	if err != nil {
		return "", fmt.Errorf("uploads.Save: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("uploads.Save: %w", err)
	}

	return s.baseURL + "/" + taskID.String() + "/" + name, nil
}

// sanitize strips path separators and other unsafe characters from a
// client-supplied filename, keeping the extension intact.
func sanitize(filename string) string {
	base := filepath.Base(filename)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || strings.Trim(b.String(), ".") == "" {
		return "file"
	}
	return b.String()
}
