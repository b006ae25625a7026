package presence

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/julianstephens/meetmate/internal/logger"
)

var execCommandContext = exec.CommandContext

// Detector reports whether a user's face is in front of the camera
type Detector interface {
	Detect(ctx context.Context, timeoutHint time.Duration) (bool, error)
}

// ExecDetector runs an external face detection command. Exit status 0 means a face
// was seen; any other exit status means it was not.
type ExecDetector struct {
	Command string
	Args    []string
}

func (d ExecDetector) Detect(ctx context.Context, timeoutHint time.Duration) (bool, error) {
	if d.Command == "" {
		return false, errors.New("no presence command configured")
	}
	if timeoutHint > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeoutHint)
		defer cancel()
	}

	cmd := execCommandContext(ctx, d.Command, d.Args...)
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		logger.Debug("Presence command reported no face", "code", exitErr.ExitCode(), "output", string(out))
		return false, nil
	}
	if ctx.Err() != nil {
		return false, fmt.Errorf("presence detection timed out: %w", ctx.Err())
	}
	return false, fmt.Errorf("failed to run presence command: %w", err)
}
