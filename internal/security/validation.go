// Package security provides input validation and resource limits for sett.
package security

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ValidateFilePath validates a relative output path to prevent directory
// traversal. The joined path must stay inside baseDir.
func ValidateFilePath(filePath, baseDir string) error {
	if filePath == "" {
		return fmt.Errorf("empty file path")
	}

	// Check for dangerous patterns
	if strings.Contains(filePath, "..") {
		return fmt.Errorf("file path contains directory traversal (..) - not allowed")
	}

	if filepath.IsAbs(filePath) {
		return fmt.Errorf("absolute paths are not allowed")
	}

	// Ensure the final path would be within baseDir
	finalPath := filepath.Join(baseDir, filePath)
	cleanFinal := filepath.Clean(finalPath)
	cleanBase := filepath.Clean(baseDir)

	if !strings.HasPrefix(cleanFinal, cleanBase+string(filepath.Separator)) &&
		cleanFinal != cleanBase {
		return fmt.Errorf("file path would escape base directory")
	}

	return nil
}

// SafeFilename turns a display name such as "MacLeod Of Lewis" into a
// lowercase filename stem ("macleod-of-lewis"). Anything other than ASCII
// letters and digits becomes a single dash.
func SafeFilename(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// This prevents decompression bombs and oversized downloads.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, fmt.Errorf("size limit exceeded")
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
