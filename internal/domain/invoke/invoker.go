// Package invoke runs an external diff tool over two revisions of a tree.
//
// Revision content that only exists in the repository is staged into
// temporary directories first. The working tree is never copied; the tool
// is pointed at the real files. Every staged file is removed before Run
// returns, whatever the outcome.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
	"github.com/felixgeelhaar/extdiff/internal/domain/staging"
	"github.com/felixgeelhaar/extdiff/internal/ports"
)

// Mode is how the tool is run over the changed paths.
type Mode int

const (
	// ModeFile compares a single file.
	ModeFile Mode = iota + 1
	// ModeTree hands two directory trees to a recursive tool.
	ModeTree
	// ModeList runs the tool once per changed file.
	ModeList
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeTree:
		return "tree"
	case ModeList:
		return "list"
	default:
		return "none"
	}
}

// Request is one external diff invocation.
type Request struct {
	// Tool is the --using value.
	Tool string
	// Options is the raw --diff-options value.
	Options string
	// Revisions are the --revision values, in the host's range grammar.
	Revisions []string
	// Paths restricts the comparison. Empty means the whole tree.
	Paths []string
	// Prefix is the built-in diff's --prefix. External tools ignore it.
	Prefix string
	// AssumeYes skips the confirmation before a run over many files.
	AssumeYes bool
}

// Result describes what happened.
type Result struct {
	// ExitCode is the tool's exit status. In list mode it is the first
	// non-zero status.
	ExitCode int
	Mode     Mode
	// Launches holds the argv of every launch, in order.
	Launches [][]string
	// NoChanges is set when there was nothing to compare.
	NoChanges bool
	// Declined is set when the user answered no to the confirmation.
	Declined bool
}

// Invoker runs external diff tools against a repository.
type Invoker struct {
	catalog    *difftool.Catalog
	repo       Repository
	launcher   ports.ProcessLauncher
	fs         ports.FileSystem
	logger     ports.Logger
	prompter   Prompter
	stagingDir string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithLogger sets the logger. Without one, Run uses the logger attached
// to its context, if any.
func WithLogger(logger ports.Logger) Option {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// WithPrompter sets the prompter used in list mode. Without one, list
// mode never asks.
func WithPrompter(p Prompter) Option {
	return func(inv *Invoker) {
		inv.prompter = p
	}
}

// WithStagingDir creates staging areas under dir instead of the OS temp directory.
func WithStagingDir(dir string) Option {
	return func(inv *Invoker) {
		inv.stagingDir = dir
	}
}

// WithStdio attaches the tool to the given streams instead of the process's own.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(inv *Invoker) {
		inv.stdin = stdin
		inv.stdout = stdout
		inv.stderr = stderr
	}
}

// New creates an Invoker.
func New(catalog *difftool.Catalog, repo Repository, launcher ports.ProcessLauncher, fs ports.FileSystem, opts ...Option) *Invoker {
	inv := &Invoker{
		catalog:  catalog,
		repo:     repo,
		launcher: launcher,
		fs:       fs,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Run compares the requested revisions with the requested tool.
//
// A missing tool or an unresolvable revision is reported before anything
// is staged. A non-zero exit from the tool is not an error; it is returned
// in Result.ExitCode.
func (inv *Invoker) Run(ctx context.Context, req Request) (Result, error) {
	if req.Tool == "" {
		if req.Options != "" {
			return Result{}, &OptionsWithoutToolError{Options: req.Options}
		}
		return Result{}, &ToolNotFoundError{Err: difftool.ErrEmptyToolName}
	}

	tool, err := inv.catalog.Find(req.Tool, inv.launcher)
	if err != nil {
		return Result{}, err
	}
	tool.AddOptions(req.Options)

	logger := inv.loggerFor(ctx).With(ports.F("tool", tool.Name))
	if req.Prefix != "" {
		logger.Debug(ctx, "prefix ignored by external tools", ports.F("prefix", req.Prefix))
	}

	pair, err := inv.resolve(ctx, req.Revisions)
	if err != nil {
		return Result{}, err
	}

	paths, err := inv.repo.Normalize(ctx, req.Paths)
	if err != nil {
		return Result{}, fmt.Errorf("failed to normalize paths: %w", err)
	}

	changes, err := inv.repo.Changes(ctx, pair, paths)
	if err != nil {
		return Result{}, fmt.Errorf("failed to detect changes: %w", err)
	}
	if len(changes) == 0 {
		logger.Info(ctx, "no differences", ports.F("revisions", pair.String()))
		return Result{NoChanges: true}, nil
	}

	mode, err := inv.mode(ctx, tool, pair, paths)
	if err != nil {
		return Result{}, err
	}
	logger.Debug(ctx, "comparing",
		ports.F("revisions", pair.String()),
		ports.F("mode", mode.String()),
		ports.F("changes", len(changes)),
	)

	c := &comparison{
		Invoker: inv,
		tool:    tool,
		pair:    pair,
		id:      staging.NewID(),
		logger:  logger,
		result:  Result{Mode: mode},
	}
	switch mode {
	case ModeFile:
		err = c.file(ctx, paths[0])
	case ModeTree:
		err = c.tree(ctx, paths)
	default:
		err = c.list(ctx, changes, req.AssumeYes)
	}
	if err != nil {
		return c.result, err
	}

	logger.Info(ctx, "diff tool finished",
		ports.F("exit_code", c.result.ExitCode),
		ports.F("launches", len(c.result.Launches)),
	)
	return c.result, nil
}

func (inv *Invoker) loggerFor(ctx context.Context) ports.Logger {
	if inv.logger != nil {
		return inv.logger
	}
	if logger := ports.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return nopLogger{}
}

func (inv *Invoker) resolve(ctx context.Context, specs []string) (revision.Pair, error) {
	joined := strings.Join(specs, " ")

	pair, err := revision.ParsePair(specs)
	if err != nil {
		return revision.Pair{}, &RevisionResolutionError{Spec: joined, Err: err}
	}

	resolved, err := inv.repo.Resolve(ctx, pair)
	if err != nil {
		if IsRevisionResolution(err) {
			return revision.Pair{}, err
		}
		return revision.Pair{}, &RevisionResolutionError{Spec: joined, Err: err}
	}
	return resolved, nil
}

// mode picks file mode for a single file argument; anything else is a
// tree, compared recursively or file by file depending on the tool.
func (inv *Invoker) mode(ctx context.Context, tool *difftool.Tool, pair revision.Pair, paths []string) (Mode, error) {
	if len(paths) == 1 {
		for _, side := range []revision.Side{pair.New, pair.Old} {
			kind, err := inv.repo.Kind(ctx, side, paths[0])
			if err != nil {
				return 0, fmt.Errorf("failed to inspect %s: %w", paths[0], err)
			}
			if kind == EntryFile {
				return ModeFile, nil
			}
			if kind == EntryDir {
				break
			}
		}
	}
	if tool.Recursive {
		return ModeTree, nil
	}
	return ModeList, nil
}

// comparison is the state of one Run after the mode is known.
type comparison struct {
	*Invoker
	tool   *difftool.Tool
	pair   revision.Pair
	id     string
	logger ports.Logger
	result Result
}

func (c *comparison) session() *staging.Session {
	return staging.NewSession(c.fs, staging.WithBaseDir(c.stagingDir), staging.WithID(c.id))
}

func (c *comparison) file(ctx context.Context, path string) (err error) {
	session := c.session()
	defer func() { err = c.cleanup(ctx, session, err) }()

	oldPath, err := c.stageFile(ctx, session, c.pair.Old, path)
	if err != nil {
		return err
	}
	newPath, err := c.stageFile(ctx, session, c.pair.New, path)
	if err != nil {
		return err
	}

	c.result.ExitCode, err = c.launch(ctx, oldPath, newPath)
	return err
}

func (c *comparison) tree(ctx context.Context, paths []string) (err error) {
	sub := ""
	if len(paths) == 1 {
		sub = paths[0]
	}

	session := c.session()
	defer func() { err = c.cleanup(ctx, session, err) }()

	oldDir, err := c.stageTree(ctx, session, c.pair.Old, paths, sub)
	if err != nil {
		return err
	}
	newDir, err := c.stageTree(ctx, session, c.pair.New, paths, sub)
	if err != nil {
		return err
	}

	c.result.ExitCode, err = c.launch(ctx, oldDir, newDir)
	return err
}

func (c *comparison) list(ctx context.Context, changes []Change, assumeYes bool) error {
	var files []Change
	for _, ch := range changes {
		if ch.TextChanged {
			files = append(files, ch)
		}
	}
	if len(files) == 0 {
		c.result.NoChanges = true
		return nil
	}

	if len(files) > 1 && c.tool.Interactive && !assumeYes && c.prompter != nil {
		question := fmt.Sprintf("There are %d files with differences to review. Continue?", len(files))
		ok, err := c.prompter.Confirm(ctx, question)
		if err != nil {
			return fmt.Errorf("failed to confirm: %w", err)
		}
		if !ok {
			c.result.Declined = true
			c.result.ExitCode = 1
			return nil
		}
	}

	for _, ch := range files {
		code, err := c.listOne(ctx, ch)
		if code != 0 && c.result.ExitCode == 0 {
			c.result.ExitCode = code
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *comparison) listOne(ctx context.Context, ch Change) (code int, err error) {
	session := c.session()
	defer func() { err = c.cleanup(ctx, session, err) }()
	c.logger.Debug(ctx, "comparing file", ports.F("path", ch.Path()))

	oldName := ch.OldPath
	if oldName == "" {
		oldName = ch.NewPath
	}
	newName := ch.NewPath
	if newName == "" {
		newName = ch.OldPath
	}

	oldPath, err := c.stageFile(ctx, session, c.pair.Old, oldName)
	if err != nil {
		return 0, err
	}
	newPath, err := c.stageFile(ctx, session, c.pair.New, newName)
	if err != nil {
		return 0, err
	}
	return c.launch(ctx, oldPath, newPath)
}

// stageFile returns an operand for path on side. A file missing on a
// revision side is staged empty, so the tool always gets two operands.
func (c *comparison) stageFile(ctx context.Context, session *staging.Session, side revision.Side, path string) (string, error) {
	if side.IsWorkingTree() {
		onDisk := filepath.Join(c.repo.Root(), filepath.FromSlash(path))
		if c.fs.Exists(onDisk) {
			return onDisk, nil
		}
	}

	area, err := session.NewArea(side.Label())
	if err != nil {
		return "", err
	}

	var content []byte
	if !side.IsWorkingTree() {
		content, err = c.repo.Content(ctx, side, path)
		if err != nil && !errors.Is(err, ErrNoSuchEntry) {
			return "", fmt.Errorf("failed to read %s at %s: %w", path, side.Label(), err)
		}
	}

	staged, err := area.Write(path, content)
	if err != nil {
		return "", err
	}
	c.logger.Debug(ctx, "staged file", ports.F("path", path), ports.F("staged", staged))
	return staged, nil
}

// stageTree returns a directory operand holding every file under paths
// on side, narrowed to sub.
func (c *comparison) stageTree(ctx context.Context, session *staging.Session, side revision.Side, paths []string, sub string) (string, error) {
	if side.IsWorkingTree() {
		return filepath.Join(c.repo.Root(), filepath.FromSlash(sub)), nil
	}

	files, err := c.repo.Files(ctx, side, paths)
	if err != nil {
		return "", fmt.Errorf("failed to list files at %s: %w", side.Label(), err)
	}

	area, err := session.NewArea(side.Label())
	if err != nil {
		return "", err
	}
	for _, f := range files {
		content, err := c.repo.Content(ctx, side, f)
		if errors.Is(err, ErrNoSuchEntry) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s at %s: %w", f, side.Label(), err)
		}
		if _, err := area.Write(f, content); err != nil {
			return "", err
		}
	}

	dir, err := area.EnsureDir(sub)
	if err != nil {
		return "", err
	}
	c.logger.Debug(ctx, "staged tree", ports.F("side", side.Label()), ports.F("files", len(files)), ports.F("dir", dir))
	return dir, nil
}

func (c *comparison) launch(ctx context.Context, oldPath, newPath string) (int, error) {
	spec := ports.ProcessSpec{
		Command: c.tool.Executable(),
		Args:    c.tool.Args(oldPath, newPath),
		Stdin:   c.stdin,
		Stdout:  c.stdout,
		Stderr:  c.stderr,
	}
	if c.tool.QuietStderr {
		spec.Stderr = &stderrLog{ctx: ctx, logger: c.logger}
	}

	argv := spec.Argv()
	c.result.Launches = append(c.result.Launches, argv)
	c.logger.Debug(ctx, "launching", ports.F("argv", strings.Join(argv, " ")))

	code, err := c.launcher.Launch(ctx, spec)
	if err != nil {
		return code, fmt.Errorf("failed to run %s: %w", c.tool.Name, err)
	}
	return code, nil
}

// cleanup removes the session's areas. A removal failure becomes the
// result when nothing failed before it; otherwise it is only logged so the
// first error is the one reported.
func (c *comparison) cleanup(ctx context.Context, session *staging.Session, err error) error {
	closeErr := session.Close()
	if closeErr == nil {
		return err
	}
	c.logger.Warn(ctx, "failed to remove staged files", ports.F("error", closeErr))
	if err != nil {
		return err
	}
	return closeErr
}

// stderrLog forwards a quiet tool's stderr to the debug log.
type stderrLog struct {
	ctx    context.Context
	logger ports.Logger
}

func (w *stderrLog) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.logger.Debug(w.ctx, "tool stderr", ports.F("line", line))
		}
	}
	return len(p), nil
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (n nopLogger) With(...ports.Field) ports.Logger             { return n }
func (nopLogger) Level() ports.Level                            { return ports.LevelError }
func (nopLogger) SetLevel(ports.Level)                          {}
