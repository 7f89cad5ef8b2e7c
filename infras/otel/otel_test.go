package otel_test

import (
	"context"
	"errors"
	"roombook/config"
	"roombook/infras/otel"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DisabledUsesNoopProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.Otel.Enable = false

	o := otel.New(cfg)

	ctx, scope := o.NewScope(context.Background(), "service", "service.Create")
	assert.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{
		"room.id":   "r-1",
		"capacity":  4,
		"available": true,
		"amenities": []string{"tv"},
		"other":     3.5,
	})
	scope.AddEvent("created")
	var err error
	scope.TraceIfError(&err)
	scope.TraceIfError(nil)

	err = errors.New("boom")
	scope.TraceIfError(&err)
	scope.End()
}

func TestNew_DisabledShutdownIsNoop(t *testing.T) {
	o := otel.New(&config.Config{})

	assert.NoError(t, o.Shutdown(context.Background()))
}
