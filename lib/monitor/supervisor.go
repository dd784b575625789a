// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor supervises the live ingestion monitor: a long-lived
// background process that watches the Telegram group and writes new
// pairs into the store. The supervisor abstraction covers spawn,
// health check, log capture, and graceful terminate, so the operator
// commands do not care that tmux is the mechanism underneath.
package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mfmax/QA2/lib/clock"
	"github.com/mfmax/QA2/lib/tmux"
)

// Status describes the supervised process.
type Status struct {
	// Running is true while the session exists and its command has
	// not exited.
	Running bool
	// Exited is true when the session exists but the command died
	// (remain-on-exit keeps the pane around for inspection).
	Exited bool
	// ExitCode is meaningful only when Exited is true.
	ExitCode int
}

// Supervisor manages one monitor process.
type Supervisor interface {
	// Start spawns the monitor command detached. Fails if a monitor
	// is already running.
	Start(command []string) error
	// Status reports whether the monitor is running, and its exit
	// code if it died.
	Status() (Status, error)
	// Log returns the last maxLines lines of the monitor's output
	// (0 = everything retained).
	Log(maxLines int) (string, error)
	// Stop terminates the monitor: graceful signal first, hard kill
	// if it does not exit in time. Stopping an already-stopped
	// monitor is not an error.
	Stop() error
}

var _ Supervisor = (*TmuxSupervisor)(nil)

// paneServer is the slice of lib/tmux the supervisor depends on. Tests
// substitute a fake to drive the stop/poll sequence deterministically.
type paneServer interface {
	NewSession(sessionName string, command ...string) error
	HasSession(sessionName string) bool
	KillSession(sessionName string) error
	KillServer() error
	Run(args ...string) (string, error)
	CapturePane(sessionName string, maxLines int) (string, error)
	PaneStatus(sessionName string) (dead bool, exitCode int, err error)
	SignalPane(sessionName string, signal unix.Signal) error
}

var _ paneServer = (*tmux.Server)(nil)

// TmuxSupervisor runs the monitor detached in a dedicated tmux server.
type TmuxSupervisor struct {
	server  paneServer
	session string
	logger  *slog.Logger
	clock   clock.Clock

	// gracePolls and pollInterval bound how long Stop waits for the
	// process to exit after SIGTERM before killing the session.
	gracePolls   int
	pollInterval time.Duration

	// Process lookup and signalling, replaceable in tests.
	findPIDs func(pattern string) ([]int, error)
	killPIDs func(pids []int, logger *slog.Logger)
}

// New creates a TmuxSupervisor on the given socket path and session
// name. Nil logger discards; nil clk uses the real clock.
func New(socketPath, session string, logger *slog.Logger, clk clock.Clock) *TmuxSupervisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &TmuxSupervisor{
		server:       tmux.NewServer(socketPath, "/dev/null"),
		session:      session,
		logger:       logger,
		clock:        clk,
		gracePolls:   20,
		pollInterval: 250 * time.Millisecond,
		findPIDs:     FindPIDs,
		killPIDs:     KillPIDs,
	}
}

// Start spawns the monitor command in a detached session with
// remain-on-exit, so a crash leaves the output inspectable.
func (s *TmuxSupervisor) Start(command []string) error {
	if s.server.HasSession(s.session) {
		return fmt.Errorf("monitor: session %q already exists", s.session)
	}
	if err := s.server.NewSession(s.session, command...); err != nil {
		return fmt.Errorf("monitor: starting session: %w", err)
	}
	if _, err := s.server.Run("set-option", "-t", s.session, "remain-on-exit", "on"); err != nil {
		// The session is up; a failed option set degrades crash
		// inspection but does not stop the monitor.
		s.logger.Warn("setting remain-on-exit failed", "error", err)
	}
	s.logger.Info("monitor started", "session", s.session, "command", strings.Join(command, " "))
	return nil
}

// Status reports the monitor's state.
func (s *TmuxSupervisor) Status() (Status, error) {
	if !s.server.HasSession(s.session) {
		return Status{}, nil
	}
	dead, exitCode, err := s.server.PaneStatus(s.session)
	if err != nil {
		return Status{}, fmt.Errorf("monitor: querying pane status: %w", err)
	}
	if dead {
		return Status{Exited: true, ExitCode: exitCode}, nil
	}
	return Status{Running: true}, nil
}

// Log returns the tail of the monitor's pane output.
func (s *TmuxSupervisor) Log(maxLines int) (string, error) {
	if !s.server.HasSession(s.session) {
		return "", fmt.Errorf("monitor: no session %q", s.session)
	}
	output, err := s.server.CapturePane(s.session, maxLines)
	if err != nil {
		return "", fmt.Errorf("monitor: capturing log: %w", err)
	}
	return output, nil
}

// Stop signals the monitor with SIGTERM, waits for it to exit, and
// kills the session. Already-stopped monitors are a no-op.
func (s *TmuxSupervisor) Stop() error {
	if !s.server.HasSession(s.session) {
		return nil
	}

	dead, _, err := s.server.PaneStatus(s.session)
	if err == nil && !dead {
		if err := s.server.SignalPane(s.session, unix.SIGTERM); err != nil {
			s.logger.Warn("SIGTERM failed, killing session directly", "error", err)
		} else {
			for poll := 0; poll < s.gracePolls; poll++ {
				dead, _, statusErr := s.server.PaneStatus(s.session)
				if statusErr != nil || dead {
					break
				}
				s.clock.Sleep(s.pollInterval)
			}
		}
	}

	if err := s.server.KillSession(s.session); err != nil {
		return fmt.Errorf("monitor: killing session: %w", err)
	}
	s.logger.Info("monitor stopped", "session", s.session)
	return nil
}

// Cleanup is the heavy-handed recovery path for when the supervised
// session lost track of its process: it SIGTERMs every process whose
// command line matches pattern and then kills the whole tmux server.
// Returns how many processes were signalled. Finding nothing is a
// normal outcome.
func (s *TmuxSupervisor) Cleanup(pattern string) (int, error) {
	pids, err := s.findPIDs(pattern)
	if err != nil {
		return 0, err
	}
	s.killPIDs(pids, s.logger)

	if err := s.server.KillServer(); err != nil {
		return len(pids), fmt.Errorf("monitor: killing tmux server: %w", err)
	}
	s.logger.Info("monitor cleanup complete", "pattern", pattern, "processes", len(pids))
	return len(pids), nil
}

// FindPIDs returns the PIDs of processes whose command line matches
// pattern, via pgrep -f. No matches is a normal result, not an error.
func FindPIDs(pattern string) ([]int, error) {
	output, err := exec.Command("pgrep", "-f", pattern).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil // pgrep exits 1 on no matches
		}
		return nil, fmt.Errorf("monitor: pgrep -f %q: %w", pattern, err)
	}

	var pids []int
	for _, line := range strings.Fields(string(output)) {
		pid, parseErr := strconv.Atoi(line)
		if parseErr != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// KillPIDs sends SIGTERM to each PID. Vanished processes are skipped.
func KillPIDs(pids []int, logger *slog.Logger) {
	for _, pid := range pids {
		if err := unix.Kill(pid, unix.SIGTERM); err != nil {
			if logger != nil {
				logger.Warn("signaling process failed", "pid", pid, "error", err)
			}
			continue
		}
		if logger != nil {
			logger.Info("terminated process", "pid", pid)
		}
	}
}

// TailFile returns the last maxLines lines of the file at path
// (0 = the whole file). The fallback log source when the monitor runs
// outside the supervised session and only its log file remains.
func TailFile(path string, maxLines int) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("monitor: reading log file: %w", err)
	}
	content := string(raw)
	if maxLines <= 0 {
		return content, nil
	}

	// tail -n semantics: a trailing newline terminates the last line
	// rather than starting a new one.
	searchFrom := len(content) - 1
	if searchFrom >= 0 && content[searchFrom] == '\n' {
		searchFrom--
	}
	count := 0
	for i := searchFrom; i >= 0; i-- {
		if content[i] == '\n' {
			count++
			if count == maxLines {
				return content[i+1:], nil
			}
		}
	}
	return content, nil
}
