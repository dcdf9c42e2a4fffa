package judge

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/abhisek/codebench/internal/logging"
)

// DockerConfig tunes DockerRunner.
type DockerConfig struct {
	Image    string // overrides the per-language image when set
	MemoryMB int
	CPULimit float64
	Timeout  time.Duration
}

// DockerRunner runs each program in a fresh, network-less container.
type DockerRunner struct {
	client    *client.Client
	languages map[string]LanguageConfig
	cfg       DockerConfig
	logger    *slog.Logger
}

// NewDockerRunner connects to the Docker daemon from the environment and
// verifies it is reachable.
func NewDockerRunner(ctx context.Context, cfg DockerConfig, logger *slog.Logger) (*DockerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("docker not reachable: %w", err)
	}

	if cfg.MemoryMB <= 0 {
		cfg.MemoryMB = 256
	}
	if cfg.CPULimit <= 0 {
		cfg.CPULimit = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &DockerRunner{
		client:    cli,
		languages: DefaultLanguages(),
		cfg:       cfg,
		logger:    logging.OrDiscard(logger),
	}, nil
}

// Close closes the Docker client.
func (r *DockerRunner) Close() error {
	return r.client.Close()
}

func (r *DockerRunner) Run(ctx context.Context, p Program, inputs []string) (Report, error) {
	lang, err := lookupLanguage(r.languages, p.Language)
	if err != nil {
		return Report{}, err
	}
	img := lang.DockerImage
	if r.cfg.Image != "" {
		img = r.cfg.Image
	}

	if err := r.ensureImage(ctx, img); err != nil {
		return Report{}, &RunError{Stage: "setup", Err: err}
	}

	id, err := r.createContainer(ctx, img)
	if err != nil {
		return Report{}, &RunError{Stage: "setup", Err: err}
	}
	defer func() {
		// The run context may already be canceled.
		rmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.client.ContainerRemove(rmCtx, id, container.RemoveOptions{Force: true}); err != nil {
			r.logger.Warn("remove container", "id", id, "err", err)
		}
	}()

	files := map[string]string{lang.FileName: p.Source}
	for i, in := range inputs {
		files[inputFile(i)] = in
	}
	if err := r.copyFiles(ctx, id, files); err != nil {
		return Report{}, &RunError{Stage: "setup", Err: err}
	}

	report := Report{Build: Build{OK: true}}
	if len(lang.Build) > 0 {
		exe, err := r.exec(ctx, id, lang.Build, r.cfg.Timeout*3)
		if err != nil {
			return Report{}, &RunError{Stage: "build", Err: err}
		}
		report.Build.Output = exe.Stdout + exe.Stderr
		if exe.ExitCode != 0 {
			report.Build.OK = false
			return report, nil
		}
	}

	for i := range inputs {
		cmd := []string{"sh", "-c", fmt.Sprintf("%s < %s", shellLine(lang.Run), inputFile(i))}
		exe, err := r.exec(ctx, id, cmd, r.cfg.Timeout)
		if err != nil {
			return Report{}, &RunError{Stage: "run", Err: fmt.Errorf("input %d: %w", i, err)}
		}
		report.Executions = append(report.Executions, exe)
	}
	return report, nil
}

func inputFile(i int) string {
	return fmt.Sprintf("input_%d.txt", i)
}

func (r *DockerRunner) createContainer(ctx context.Context, img string) (string, error) {
	containerCfg := &container.Config{
		Image:           img,
		Cmd:             []string{"sh", "-c", "while true; do sleep 3600; done"},
		WorkingDir:      "/workspace",
		NetworkDisabled: true,
		Labels:          map[string]string{"codebench.runner": "true"},
	}
	hostCfg := &container.HostConfig{
		Resources: container.Resources{
			Memory:   int64(r.cfg.MemoryMB) * 1024 * 1024,
			NanoCPUs: int64(r.cfg.CPULimit * 1e9),
		},
	}

	resp, err := r.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	if err := r.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = r.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("start container: %w", err)
	}
	return resp.ID, nil
}

func (r *DockerRunner) copyFiles(ctx context.Context, id string, files map[string]string) error {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write tar header: %w", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			return fmt.Errorf("write tar content: %w", err)
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	return r.client.CopyToContainer(ctx, id, "/workspace", &buf, container.CopyToContainerOptions{})
}

func (r *DockerRunner) exec(ctx context.Context, id string, cmd []string, timeout time.Duration) (Execution, error) {
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	created, err := r.client.ContainerExecCreate(execCtx, id, container.ExecOptions{
		Cmd:          cmd,
		WorkingDir:   "/workspace",
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return Execution{}, fmt.Errorf("create exec: %w", err)
	}

	start := time.Now()
	attach, err := r.client.ContainerExecAttach(execCtx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return Execution{}, fmt.Errorf("attach exec: %w", err)
	}
	defer attach.Close()

	var stdout, stderr bytes.Buffer
	_, copyErr := stdcopy.StdCopy(&stdout, &stderr, attach.Reader)
	exe := Execution{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if execCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		exe.TimedOut = true
		exe.ExitCode = -1
		return exe, nil
	}
	if copyErr != nil {
		return Execution{}, fmt.Errorf("read exec output: %w", copyErr)
	}

	inspect, err := r.client.ContainerExecInspect(execCtx, created.ID)
	if err != nil {
		return Execution{}, fmt.Errorf("inspect exec: %w", err)
	}
	exe.ExitCode = inspect.ExitCode
	return exe, nil
}

func (r *DockerRunner) ensureImage(ctx context.Context, img string) error {
	if _, err := r.client.ImageInspect(ctx, img); err == nil {
		return nil
	}
	reader, err := r.client.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", img, err)
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader)
	return nil
}
