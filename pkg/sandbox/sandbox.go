// Package sandbox runs submitted C programs inside network-disabled
// Docker containers and judges each test case by comparing trimmed
// stdout with the expected output. It implements the runner contract
// and is only selected through explicit configuration.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/runner"
)

var (
	caseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clab",
		Subsystem: "sandbox",
		Name:      "case_duration_seconds",
		Help:      "Duration of sandboxed test case executions",
		Buckets:   prometheus.DefBuckets,
	}, []string{"image"})

	caseTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clab",
		Subsystem: "sandbox",
		Name:      "case_timeouts_total",
		Help:      "Number of sandboxed executions that hit the time limit",
	}, []string{"image"})

	caseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clab",
		Subsystem: "sandbox",
		Name:      "case_failures_total",
		Help:      "Number of sandboxed executions that failed to run",
	}, []string{"image"})
)

// compileAllowance is added on top of the problem's per-case time limit
// to cover gcc compilation inside the container.
const compileAllowance = 10 * time.Second

// Config groups sandbox runner configuration values.
type Config struct {
	Host          string
	Image         string
	CPUShares     int64
	MemoryLimitMB int64
	WorkspaceRoot string
	Logger        zerolog.Logger
}

// Runner executes C submissions with gcc inside Docker containers.
type Runner struct {
	client *client.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// New constructs a Docker-backed sandbox runner.
func New(cfg Config) (*Runner, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if cfg.Host != "" {
		opts = append(opts, client.WithHost(cfg.Host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	if cfg.Image == "" {
		cfg.Image = "gcc:13"
	}
	if cfg.CPUShares <= 0 {
		cfg.CPUShares = 512
	}
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = os.TempDir()
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &Runner{
		client: cli,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/sandbox"),
		logger: logger,
	}, nil
}

// RunCases compiles and runs the submission once per test case, feeding
// the case input on stdin and judging trimmed stdout against the expected
// output.
func (r *Runner) RunCases(parent context.Context, code string, set runner.CaseSet) ([]runner.Outcome, error) {
	ctx, span := r.tracer.Start(parent, "sandbox.run_cases", trace.WithAttributes(
		attribute.String("docker.image", r.cfg.Image),
		attribute.Int("case_count", len(set.Cases)),
	))
	defer span.End()

	workspace, err := os.MkdirTemp(r.cfg.WorkspaceRoot, "submission-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	if err := os.WriteFile(filepath.Join(workspace, "main.c"), []byte(code), 0600); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	for _, testCase := range set.Cases {
		name := fmt.Sprintf("input_%d.txt", testCase.Index)
		if err := os.WriteFile(filepath.Join(workspace, name), []byte(testCase.Input), 0600); err != nil {
			return nil, fmt.Errorf("write case input: %w", err)
		}
	}

	timeLimit := time.Duration(set.TimeLimitSec) * time.Second
	if timeLimit <= 0 {
		timeLimit = time.Second
	}

	memoryLimit := int64(set.MemoryLimitMB)
	if memoryLimit <= 0 {
		memoryLimit = r.cfg.MemoryLimitMB
	}

	outcomes := make([]runner.Outcome, 0, len(set.Cases))
	for _, testCase := range set.Cases {
		outcome := r.runCase(ctx, workspace, testCase, timeLimit, memoryLimit)
		outcomes = append(outcomes, outcome)
	}

	span.SetStatus(codes.Ok, "")
	return outcomes, nil
}

func (r *Runner) runCase(parent context.Context, workspace string, testCase runner.Case, timeLimit time.Duration, memoryLimitMB int64) runner.Outcome {
	outcome := runner.Outcome{
		CaseIndex:      testCase.Index,
		ExpectedOutput: testCase.ExpectedOutput,
	}

	ctx, cancel := context.WithTimeout(parent, timeLimit+compileAllowance)
	defer cancel()

	command := fmt.Sprintf("gcc -O2 -o /tmp/prog /workspace/main.c && timeout %d /tmp/prog < /workspace/input_%d.txt",
		int(timeLimit.Seconds()), testCase.Index)

	hostCfg := &container.HostConfig{
		NetworkMode: "none",
		Resources: container.Resources{
			Memory:    memoryLimitMB * 1024 * 1024,
			CPUShares: r.cfg.CPUShares,
		},
		Mounts: []mount.Mount{{
			Type:     mount.TypeBind,
			Source:   workspace,
			Target:   "/workspace",
			ReadOnly: true,
		}},
	}

	containerCfg := &container.Config{
		Image:        r.cfg.Image,
		Cmd:          []string{"sh", "-c", command},
		WorkingDir:   "/workspace",
		AttachStdout: true,
		AttachStderr: true,
	}

	start := time.Now()
	resp, err := r.client.ContainerCreate(ctx, containerCfg, hostCfg, &network.NetworkingConfig{}, nil, "")
	if err != nil {
		caseFailures.WithLabelValues(r.cfg.Image).Inc()
		outcome.Detail = fmt.Sprintf("container create: %v", err)
		return outcome
	}

	containerID := resp.ID
	defer func() {
		removeCtx, cancelRemove := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelRemove()
		if err := r.client.ContainerRemove(removeCtx, containerID, container.RemoveOptions{Force: true}); err != nil {
			r.logger.Error().Err(err).Str("container_id", containerID).Msg("failed to remove container")
		}
	}()

	if err := r.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		caseFailures.WithLabelValues(r.cfg.Image).Inc()
		outcome.Detail = fmt.Sprintf("container start: %v", err)
		return outcome
	}

	statusCh, errCh := r.client.ContainerWait(ctx, containerID, container.WaitConditionNextExit)

	exitCode := 0
	var waitErr error
	select {
	case err := <-errCh:
		waitErr = err
	case status := <-statusCh:
		exitCode = int(status.StatusCode)
	case <-ctx.Done():
		waitErr = ctx.Err()
	}

	caseDuration.WithLabelValues(r.cfg.Image).Observe(time.Since(start).Seconds())

	if waitErr != nil {
		if errors.Is(waitErr, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			caseTimeouts.WithLabelValues(r.cfg.Image).Inc()
			killCtx, cancelKill := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancelKill()
			if err := r.client.ContainerKill(killCtx, containerID, "KILL"); err != nil {
				r.logger.Error().Err(err).Str("container_id", containerID).Msg("failed to kill timed out container")
			}
			outcome.Detail = "time limit exceeded"
			return outcome
		}
		caseFailures.WithLabelValues(r.cfg.Image).Inc()
		outcome.Detail = fmt.Sprintf("container wait: %v", waitErr)
		return outcome
	}

	stdout, stderr := r.collectLogs(parent, containerID)
	outcome.ActualOutput = trimOutput(stdout)

	switch {
	case exitCode == 124:
		caseTimeouts.WithLabelValues(r.cfg.Image).Inc()
		outcome.Detail = "time limit exceeded"
	case exitCode != 0:
		detail := trimOutput(stderr)
		if detail == "" {
			detail = fmt.Sprintf("process exited with code %d", exitCode)
		}
		outcome.Detail = detail
	case outcome.ActualOutput == trimOutput(testCase.ExpectedOutput):
		outcome.Passed = true
	default:
		outcome.Detail = "output did not match expected output"
	}

	return outcome
}

func (r *Runner) collectLogs(ctx context.Context, containerID string) (string, string) {
	logReader, err := r.client.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("container_id", containerID).Msg("failed to fetch container logs")
		return "", ""
	}
	defer logReader.Close()

	stdout, stderr, err := splitLogs(logReader)
	if err != nil {
		r.logger.Error().Err(err).Str("container_id", containerID).Msg("failed to read container logs")
		return "", ""
	}
	return stdout, stderr
}

func trimOutput(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, "\r\n", "\n"))
}

func splitLogs(reader io.Reader) (string, string, error) {
	var stdoutBuf, stderrBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdoutBuf, &stderrBuf, reader); err != nil {
		return "", "", err
	}
	return stdoutBuf.String(), stderrBuf.String(), nil
}

// Close shuts down the underlying Docker client.
func (r *Runner) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
