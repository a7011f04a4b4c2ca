package events

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/logging"
)

func TestLoggingSinkWritesEachKind(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Output: &buf, Level: logging.LevelDebug})
	sink := NewLoggingSink(log)

	a, _ := addr.Parse("192.0.2.9")
	sink.Handle(Suspicious(a, 120, 60, 1))
	sink.Handle(Blocked(a, 150, 80, 2))
	sink.Handle(Unblocked(a, 3))
	sink.Handle(Whitelisted(a, 4))

	out := buf.String()
	for _, want := range []string{"suspicious source", "source blocked", "source unblocked", "whitelisted source"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
	if !strings.Contains(out, "192.0.2.9") {
		t.Errorf("expected output to contain the address, got: %s", out)
	}
}
