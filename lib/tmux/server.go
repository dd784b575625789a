// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package tmux provides a typed interface to a dedicated tmux server.
// The monitor supervisor runs the live Telegram monitor detached under
// its own tmux server (distinct from the operator's personal tmux) so
// it survives the operator's session and can be re-attached for
// inspection. All commands target a specific server socket — there is
// no default server, and the operator's ~/.tmux.conf is never loaded.
package tmux

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Server represents a tmux server identified by its Unix socket path.
// Every operation injects the -S flag, so targeting the wrong server
// by accident is structurally impossible.
type Server struct {
	socketPath string
	configFile string // passed as "-f <path>" on new-session; empty = tmux default
}

// NewServer returns a Server for the given socket path. Pass
// "/dev/null" as configFile to prevent loading the operator's
// ~/.tmux.conf (the supervisor and all tests do this).
func NewServer(socketPath, configFile string) *Server {
	return &Server{socketPath: socketPath, configFile: configFile}
}

// SocketPath returns the Unix socket path that identifies this server.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// NewSession creates a detached session on this server running the
// given command (or the default shell when command is empty). The -f
// flag is passed here because new-session may be what starts the
// server; later commands do not re-read the config.
func (s *Server) NewSession(sessionName string, command ...string) error {
	var args []string
	if s.configFile != "" {
		args = append(args, "-f", s.configFile)
	}
	args = append(args, "-S", s.socketPath, "new-session", "-d", "-s", sessionName)
	args = append(args, command...)

	cmd := exec.Command("tmux", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tmux new-session %q: %w (%s)",
			sessionName, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// HasSession reports whether the named session exists. Returns false
// when the server is not running at all.
func (s *Server) HasSession(sessionName string) bool {
	cmd := exec.Command("tmux", "-S", s.socketPath, "has-session", "-t", sessionName)
	return cmd.Run() == nil
}

// KillSession terminates a session. An already-gone session or a
// stopped server is a normal cleanup condition, not an error.
func (s *Server) KillSession(sessionName string) error {
	cmd := exec.Command("tmux", "-S", s.socketPath, "kill-session", "-t", sessionName)
	output, err := cmd.CombinedOutput()
	if err != nil {
		outputString := strings.TrimSpace(string(output))
		if strings.Contains(outputString, "can't find session") ||
			strings.Contains(outputString, "no server running") {
			return nil
		}
		return fmt.Errorf("tmux kill-session %q: %w (%s)", sessionName, err, outputString)
	}
	return nil
}

// KillServer stops the whole server and all its sessions. An
// already-stopped server is not an error.
func (s *Server) KillServer() error {
	cmd := exec.Command("tmux", "-S", s.socketPath, "kill-server")
	output, err := cmd.CombinedOutput()
	if err != nil {
		outputString := strings.TrimSpace(string(output))
		if strings.Contains(outputString, "no server running") ||
			strings.Contains(outputString, "server exited unexpectedly") {
			return nil
		}
		return fmt.Errorf("tmux kill-server: %w (%s)", err, outputString)
	}
	return nil
}

// Run executes an arbitrary tmux subcommand on this server and returns
// the combined output. Escape hatch for subcommands without a
// dedicated method; the -S flag is prepended automatically.
func (s *Server) Run(args ...string) (string, error) {
	fullArgs := append([]string{"-S", s.socketPath}, args...)
	cmd := exec.Command("tmux", fullArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w (%s)",
			strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// CapturePane returns the scrollback plus visible content of the named
// session's pane, limited to the last maxLines lines (0 = no limit).
func (s *Server) CapturePane(sessionName string, maxLines int) (string, error) {
	output, err := s.Run("capture-pane", "-t", sessionName, "-p", "-S", "-", "-E", "-")
	if err != nil {
		return "", err
	}
	if maxLines <= 0 {
		return output, nil
	}
	return tailString(output, maxLines), nil
}

// PaneStatus reports whether the pane's command has exited and its
// exit code. Requires remain-on-exit on the session, which the
// supervisor always sets. For signal deaths the exit code follows the
// shell convention of 128 + signal number.
func (s *Server) PaneStatus(sessionName string) (dead bool, exitCode int, err error) {
	output, err := s.Run("display-message", "-t", sessionName, "-p",
		"#{pane_dead} #{pane_dead_status} #{pane_dead_signal}")
	if err != nil {
		return false, 0, err
	}

	// Three space-separated values; empty ones collapse:
	//   "0"      running
	//   "1 42"   exited with code 42
	//   "1  15"  killed by SIGTERM
	trimmed := strings.TrimRight(output, "\n")
	parts := strings.SplitN(trimmed, " ", 3)
	if len(parts) == 0 || parts[0] == "" {
		return false, 0, fmt.Errorf("empty pane status output")
	}
	deadValue, parseErr := strconv.Atoi(parts[0])
	if parseErr != nil {
		return false, 0, fmt.Errorf("parsing pane_dead %q: %w", parts[0], parseErr)
	}
	if deadValue == 0 {
		return false, 0, nil
	}

	if len(parts) >= 3 && parts[2] != "" {
		signalNumber, parseErr := strconv.Atoi(parts[2])
		if parseErr != nil {
			return true, -1, fmt.Errorf("parsing pane_dead_signal %q: %w", parts[2], parseErr)
		}
		return true, 128 + signalNumber, nil
	}
	if len(parts) >= 2 && parts[1] != "" {
		status, parseErr := strconv.Atoi(parts[1])
		if parseErr != nil {
			return true, -1, fmt.Errorf("parsing pane_dead_status %q: %w", parts[1], parseErr)
		}
		return true, status, nil
	}
	// Some tmux versions leave both fields empty for exit code 0.
	return true, 0, nil
}

// PanePID returns the process ID of the command running in the named
// session's active pane.
func (s *Server) PanePID(sessionName string) (int, error) {
	output, err := s.Run("display-message", "-t", sessionName, "-p", "#{pane_pid}")
	if err != nil {
		return 0, fmt.Errorf("getting pane PID: %w", err)
	}
	pid, parseErr := strconv.Atoi(strings.TrimSpace(output))
	if parseErr != nil {
		return 0, fmt.Errorf("parsing pane PID %q: %w", strings.TrimSpace(output), parseErr)
	}
	return pid, nil
}

// SignalPane sends a signal to the pane's process. This is how the
// supervisor asks the monitor to shut down gracefully before killing
// the session.
func (s *Server) SignalPane(sessionName string, signal unix.Signal) error {
	pid, err := s.PanePID(sessionName)
	if err != nil {
		return err
	}
	if err := unix.Kill(pid, signal); err != nil {
		return fmt.Errorf("signaling PID %d with %v: %w", pid, signal, err)
	}
	return nil
}

// tailString returns the last n lines of s, with tail -n semantics: a
// trailing newline terminates the last line rather than starting a new
// one.
func tailString(s string, n int) string {
	if len(s) == 0 {
		return s
	}
	searchFrom := len(s) - 1
	if s[searchFrom] == '\n' {
		searchFrom--
	}
	count := 0
	for i := searchFrom; i >= 0; i-- {
		if s[i] == '\n' {
			count++
			if count == n {
				return s[i+1:]
			}
		}
	}
	return s
}
