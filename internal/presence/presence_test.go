package presence

import (
	"context"
	"testing"
	"time"
)

func TestExecDetector(t *testing.T) {
	tests := []struct {
		name    string
		d       ExecDetector
		want    bool
		wantErr bool
	}{
		{"face found", ExecDetector{Command: "sh", Args: []string{"-c", "exit 0"}}, true, false},
		{"no face", ExecDetector{Command: "sh", Args: []string{"-c", "exit 1"}}, false, false},
		{"missing command", ExecDetector{Command: "meetmate-no-such-binary"}, false, true},
		{"not configured", ExecDetector{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.Detect(context.Background(), time.Second)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecDetectorTimeout(t *testing.T) {
	d := ExecDetector{Command: "sh", Args: []string{"-c", "exec sleep 5"}}
	start := time.Now()
	_, err := d.Detect(context.Background(), 50*time.Millisecond)
	if err == nil {
		t.Error("expected timeout error")
	}
	if time.Since(start) > 3*time.Second {
		t.Error("Detect() did not honor the timeout")
	}
}
