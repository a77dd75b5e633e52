package telemetry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/pkg/config"
)

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	shutdown := Setup(context.Background(), config.TelemetryConfig{}, "stationery-admin", zerolog.Nop())
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
