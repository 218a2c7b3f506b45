package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeteredAPI forwards everything to an inner API and additionally records
// ReportCount values on an otel gauge, labelled by id.
type MeteredAPI struct {
	API
	gauge metric.Int64Gauge
}

func NewMeteredAPI(meterName string, inner API) (MeteredAPI, error) {
	gauge, err := otel.Meter(meterName).Int64Gauge("highwatch.count")
	if err != nil {
		return MeteredAPI{}, err
	}
	return MeteredAPI{API: inner, gauge: gauge}, nil
}

func (m MeteredAPI) ReportCount(id string, count int64) {
	m.API.ReportCount(id, count)
	m.gauge.Record(context.Background(), count, metric.WithAttributes(attribute.String("id", id)))
}
