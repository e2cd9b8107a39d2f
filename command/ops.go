package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docflow/document"
	"github.com/goliatone/go-errors"
)

// BatchRequest is one entry of a batch render file.
type BatchRequest struct {
	Actor   document.Actor           `json:"actor"`
	Request document.DocumentRequest `json:"request"`
}

// BatchLoader loads batch requests from a source.
type BatchLoader func(ctx context.Context) ([]BatchRequest, error)

// ArtifactWriter receives each rendered artifact of a batch.
type ArtifactWriter interface {
	WriteArtifact(ctx context.Context, artifact document.RenderedArtifact) error
}

// ArtifactWriterFunc adapts a function to an ArtifactWriter.
type ArtifactWriterFunc func(ctx context.Context, artifact document.RenderedArtifact) error

func (f ArtifactWriterFunc) WriteArtifact(ctx context.Context, artifact document.RenderedArtifact) error {
	if f == nil {
		return errors.New("artifact writer is required", errors.CategoryInternal).
			WithTextCode("ARTIFACT_WRITER_NIL")
	}
	return f(ctx, artifact)
}

// DirWriter writes artifacts under Dir using their suggested filename.
type DirWriter struct {
	Dir string
}

func (w DirWriter) WriteArtifact(ctx context.Context, artifact document.RenderedArtifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := w.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryExternal, "create output dir failed").
			WithTextCode("OUTPUT_DIR_CREATE")
	}
	name := filepath.Base(artifact.SuggestedFilename)
	if name == "." || name == string(filepath.Separator) {
		return errors.New("artifact filename is required", errors.CategoryValidation).
			WithTextCode("ARTIFACT_FILENAME_REQUIRED")
	}
	if err := writeExclusive(dir, name, artifact.Bytes); err != nil {
		return errors.Wrap(err, errors.CategoryExternal, "write artifact failed").
			WithTextCode("ARTIFACT_WRITE")
	}
	return nil
}

const maxNameAttempts = 1000

// writeExclusive never replaces an existing file: on collision it retries
// with a -2, -3, ... suffix before the extension.
func writeExclusive(dir, name string, data []byte) error {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for attempt := 2; attempt <= maxNameAttempts+1; attempt++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			candidate = fmt.Sprintf("%s-%d%s", stem, attempt, ext)
			continue
		}
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("no free filename for %s after %d attempts", name, maxNameAttempts)
}

// BatchCommand renders a list of document requests from the CLI.
type BatchCommand struct {
	service   document.Service
	writer    ArtifactWriter
	loader    BatchLoader
	cliConfig gcmd.CLIConfig
	limits    BatchLimits
	sleep     func(time.Duration)
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxRequests int
	MinInterval time.Duration
}

// WithBatchCLIConfig overrides CLI configuration.
func WithBatchCLIConfig(cfg gcmd.CLIConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cliConfig = cfg
	}
}

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// WithBatchLoader sets the loader used when no file is given.
func WithBatchLoader(loader BatchLoader) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.loader = loader
	}
}

// NewBatchRenderCommand creates the render-batch CLI command.
func NewBatchRenderCommand(svc document.Service, writer ArtifactWriter, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		service: svc,
		writer:  writer,
		cliConfig: gcmd.CLIConfig{
			Path:        []string{"render-batch"},
			Description: "Render document requests from a JSON file",
			Group:       "documents",
		},
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// CLIHandler exposes the CLI handler.
func (c *BatchCommand) CLIHandler() any {
	return &batchCLI{cmd: c}
}

// CLIOptions returns CLI configuration.
func (c *BatchCommand) CLIOptions() gcmd.CLIConfig {
	if c == nil {
		return gcmd.CLIConfig{}
	}
	return c.cliConfig
}

// Run renders every request and returns how many artifacts were written. It
// stops at the first failure.
func (c *BatchCommand) Run(ctx context.Context, from string) (int, error) {
	if c == nil {
		return 0, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.service == nil {
		return 0, errors.New("document service is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}
	if c.writer == nil {
		return 0, errors.New("artifact writer is required", errors.CategoryValidation).
			WithTextCode("ARTIFACT_WRITER_REQUIRED")
	}

	requests, err := c.loadRequests(ctx, from)
	if err != nil {
		return 0, err
	}

	handler := NewRenderDocumentHandler(c.service)
	count := 0
	for _, item := range requests {
		if c.limits.MaxRequests > 0 && count >= c.limits.MaxRequests {
			break
		}
		var artifact document.RenderedArtifact
		if err := handler.Execute(ctx, RenderDocument{Actor: item.Actor, Request: item.Request, Result: &artifact}); err != nil {
			return count, err
		}
		if err := c.writer.WriteArtifact(ctx, artifact); err != nil {
			return count, err
		}
		count++
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return count, nil
}

func (c *BatchCommand) loadRequests(ctx context.Context, from string) ([]BatchRequest, error) {
	if strings.TrimSpace(from) != "" {
		return loadBatchRequestsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

type batchCLI struct {
	cmd  *BatchCommand
	From string `kong:"name='from',help='Path to JSON batch render requests'"`
}

func (c *batchCLI) Run() error {
	if c == nil || c.cmd == nil {
		return errors.New("batch command is required", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	_, err := c.cmd.Run(context.Background(), c.From)
	return err
}

func loadBatchRequestsFromFile(path string) ([]BatchRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var requests []BatchRequest
	if err := json.Unmarshal(content, &requests); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return requests, nil
}
