//go:build !llama

package llama

import (
	"testing"

	"mlserve/internal/inference"
)

func TestStubLoadReportsDependencyUnavailable(t *testing.T) {
	if _, err := Load("/models/model.gguf", Options{}); !inference.IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if withDefault(0, DefaultThreads) != 4 || withDefault(8, DefaultThreads) != 8 {
		t.Fatalf("withDefault broken")
	}
}
