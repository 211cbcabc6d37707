package obs

import (
	"context"
	"testing"
)

func TestSetupTracingWithoutEndpointIsNoop(t *testing.T) {
	shutdown := SetupTracing(context.Background(), "wpm-test", TracingConfig{})
	if shutdown == nil {
		t.Fatal("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
