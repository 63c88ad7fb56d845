package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
)

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Unit is a single timestamped transcript fragment, the engine's only input.
type Unit struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Units flattens the transcript. Word timings are used when every segment
// carries them; otherwise each segment is one unit.
func (t Transcript) Units() []Unit {
	if len(t.Segments) == 0 {
		return nil
	}
	useWords := true
	for _, s := range t.Segments {
		if len(s.Words) == 0 {
			useWords = false
			break
		}
	}
	var out []Unit
	for _, s := range t.Segments {
		if !useWords {
			out = append(out, Unit{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
			continue
		}
		for _, w := range s.Words {
			out = append(out, Unit{Start: w.Start, End: w.End, Text: strings.TrimSpace(w.Word)})
		}
	}
	return out
}

// ParseTranscript accepts either {"segments":[...]} or a bare array of units.
func ParseTranscript(b []byte) (Transcript, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Transcript{}, errors.New("transcript: empty document")
	}
	if b[0] == '[' {
		var units []Unit
		if err := json.Unmarshal(b, &units); err != nil {
			return Transcript{}, err
		}
		tr := Transcript{Segments: make([]Segment, 0, len(units))}
		for _, u := range units {
			tr.Segments = append(tr.Segments, Segment{Start: u.Start, End: u.End, Text: u.Text})
		}
		return tr, nil
	}
	var tr Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return Transcript{}, err
	}
	return tr, nil
}

// AudioPeak is a loudness frame whose RMS z-score exceeded the threshold.
type AudioPeak struct {
	Time float64 `json:"time"`
	RMS  float64 `json:"rms"`
}

// Candidate is a ranked span as offered to an external reordering service.
type Candidate struct {
	Start float64
	End   float64
	Score float64
	Text  string
}

// Highlight is the engine's output artifact.
type Highlight struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (h Highlight) Duration() float64 { return h.End - h.Start }

// RoundHighlights rounds every bound to 2 decimals. Only call it at the
// serialization boundary.
func RoundHighlights(in []Highlight) []Highlight {
	out := make([]Highlight, len(in))
	for i, h := range in {
		out[i] = Highlight{Start: round2(h.Start), End: round2(h.End)}
	}
	return out
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

type Manifest struct {
	RunID        string         `json:"run_id"`
	Input        string         `json:"input"`
	Mode         string         `json:"mode"`
	Path         string         `json:"path"`
	Degradations []string       `json:"degradations,omitempty"`
	Clips        []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID       string  `json:"id"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	File     string  `json:"file,omitempty"`
}
