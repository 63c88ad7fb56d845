package observe

import (
	"context"
	"sort"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Stats is an in-process meter provider whose measurements can be read back
// at exit.
type Stats struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	Metrics  *Metrics
}

// StageStat aggregates one stage's latency histogram.
type StageStat struct {
	Stage string
	Count uint64
	Sum   float64
}

// Summary is a point-in-time read of every instrument.
type Summary struct {
	Stages       []StageStat
	Degradations map[string]int64
	Highlights   int64
	Fallbacks    int64
}

func NewStats() (*Stats, error) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, err
	}
	return &Stats{reader: reader, provider: mp, Metrics: m}, nil
}

// Collect reads the current measurements. Stages are sorted by name.
func (s *Stats) Collect(ctx context.Context) (Summary, error) {
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return Summary{}, err
	}
	sum := Summary{Degradations: map[string]int64{}}
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			switch met.Name {
			case "hookcut.stage.duration":
				hist, ok := met.Data.(metricdata.Histogram[float64])
				if !ok {
					continue
				}
				for _, dp := range hist.DataPoints {
					stage, _ := dp.Attributes.Value("stage")
					sum.Stages = append(sum.Stages, StageStat{Stage: stage.AsString(), Count: dp.Count, Sum: dp.Sum})
				}
			case "hookcut.degradations":
				for _, dp := range int64Points(met) {
					reason, _ := dp.Attributes.Value("reason")
					sum.Degradations[reason.AsString()] += dp.Value
				}
			case "hookcut.highlights":
				for _, dp := range int64Points(met) {
					sum.Highlights += dp.Value
				}
			case "hookcut.fallbacks":
				for _, dp := range int64Points(met) {
					sum.Fallbacks += dp.Value
				}
			}
		}
	}
	sort.Slice(sum.Stages, func(i, j int) bool { return sum.Stages[i].Stage < sum.Stages[j].Stage })
	return sum, nil
}

func (s *Stats) Shutdown(ctx context.Context) error {
	return s.provider.Shutdown(ctx)
}

func int64Points(met metricdata.Metrics) []metricdata.DataPoint[int64] {
	data, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		return nil
	}
	return data.DataPoints
}
