//go:build integration

package itest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate go.mod")
}

// writeFixtureTranscript writes a 100 s segment-level transcript and returns
// its path.
func writeFixtureTranscript(t *testing.T) string {
	t.Helper()
	lines := []string{
		"Here is the secret nobody tells you about building habits.",
		"Why does motivation fade so fast?",
		"The truth is that systems beat goals every single time.",
		"This is the worst advice I ever followed.",
	}
	var b strings.Builder
	b.WriteString(`{"segments":[`)
	for i := 0; i < 20; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"start":%d,"end":%d,"text":%q}`, i*5, i*5+5, lines[i%len(lines)])
	}
	b.WriteString(`]}`)
	path := filepath.Join(t.TempDir(), "talk.json")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write transcript fixture: %v", err)
	}
	return path
}
