package subpage

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggingContext(t *testing.T) {
	if Logger(context.Background()) == nil {
		t.Fatal("Logger() without a logger returned nil")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := LoggingContext(context.Background(), logger)
	if Logger(ctx) != logger {
		t.Fatal("Logger() did not return the context logger")
	}

	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}
	if _, err := TestNavigateWithContext(ctx, site, "/nowhere"); err != nil {
		t.Fatalf("TestNavigateWithContext failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "unknown route") || !strings.Contains(out, "route=nowhere") {
		t.Errorf("unknown route not logged:\n%s", out)
	}
}
