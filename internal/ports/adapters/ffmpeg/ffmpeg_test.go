package ffmpeg

import (
	"strings"
	"testing"
	"time"
)

func TestRenderArgs(t *testing.T) {
	args := renderArgs("in.mp4", -250*time.Millisecond, 12500*time.Millisecond, "out/001.mp4")
	got := strings.Join(args, " ")
	if !strings.Contains(got, "-ss 0.000 -to 12.500 -i in.mp4") {
		t.Fatalf("unexpected args: %s", got)
	}
	if args[len(args)-1] != "out/001.mp4" {
		t.Fatalf("output must be last: %s", got)
	}
}

func TestExtractArgs(t *testing.T) {
	got := strings.Join(extractArgs("in.mp4", "a.wav", 0), " ")
	if !strings.Contains(got, "-ac 1 -ar 16000 -c:a pcm_s16le") {
		t.Fatalf("unexpected args: %s", got)
	}
	got = strings.Join(extractArgs("in.mp4", "a.wav", 22050), " ")
	if !strings.Contains(got, "-ar 22050") {
		t.Fatalf("unexpected args: %s", got)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration(" 61.25\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != 61250*time.Millisecond {
		t.Fatalf("unexpected duration: %s", d)
	}
	if _, err := parseDuration("N/A"); err == nil {
		t.Fatalf("expected error")
	}
}
