package globals

import (
	"context"

	"highwatch/internal/components/chrono"
	"highwatch/internal/components/telemetry"
	"highwatch/internal/config"
)

type keyType int

const key keyType = 0

type Value struct {
	Config config.Config
	Time   chrono.API
	Tel    telemetry.API
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
