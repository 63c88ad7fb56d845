package usecase

import "errors"

var (
	// ErrInputDegenerate marks an empty or malformed transcript.
	ErrInputDegenerate = errors.New("input degenerate")
	// ErrExternalServiceUnavailable marks a failed reordering call.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	// ErrAudioAnalysisUnavailable marks missing or undecodable audio.
	ErrAudioAnalysisUnavailable = errors.New("audio analysis unavailable")
)

// Outcome is the result of a best-effort collaborator call: either a value or
// the reason it degraded.
type Outcome[T any] struct {
	value  T
	reason error
}

func Ok[T any](v T) Outcome[T] { return Outcome[T]{value: v} }

// Degraded records why a collaborator produced nothing usable. A nil reason
// is replaced so the outcome never reads as Ok.
func Degraded[T any](reason error) Outcome[T] {
	if reason == nil {
		reason = errors.New("degraded")
	}
	return Outcome[T]{reason: reason}
}

func (o Outcome[T]) Ok() bool      { return o.reason == nil }
func (o Outcome[T]) Value() T      { return o.value }
func (o Outcome[T]) Reason() error { return o.reason }

// reasonCode maps a degradation to a stable label for logs and metrics.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, ErrInputDegenerate):
		return "input_degenerate"
	case errors.Is(err, ErrExternalServiceUnavailable):
		return "external_service_unavailable"
	case errors.Is(err, ErrAudioAnalysisUnavailable):
		return "audio_analysis_unavailable"
	default:
		return "unknown"
	}
}
