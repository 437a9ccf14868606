package spotify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// DesktopLauncher starts the local Spotify desktop client so it can
// register itself as a playback device.
type DesktopLauncher struct {
	logger *zap.Logger
	goos   string
}

func NewDesktopLauncher(logger *zap.Logger) *DesktopLauncher {
	return &DesktopLauncher{logger: logger, goos: runtime.GOOS}
}

func (l *DesktopLauncher) Launch(ctx context.Context) error {
	cmd := l.command(ctx)

	l.logger.Info("Launching Spotify desktop client",
		zap.String("os", l.goos),
		zap.Strings("args", cmd.Args))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch spotify client: %w", err)
	}

	// The client keeps running after we exit; don't wait on it, but
	// release the process handle.
	go cmd.Wait()

	return nil
}

func (l *DesktopLauncher) command(ctx context.Context) *exec.Cmd {
	switch l.goos {
	case "darwin":
		return exec.CommandContext(ctx, "open", "-a", "Spotify")
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "spotify:")
	default:
		return exec.CommandContext(ctx, "xdg-open", "spotify:")
	}
}
