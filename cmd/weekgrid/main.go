package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	serveradapter "github.com/evanschultz/weekgrid/internal/adapters/server"
	"github.com/evanschultz/weekgrid/internal/adapters/storage/sqlite"
	"github.com/evanschultz/weekgrid/internal/app"
	"github.com/evanschultz/weekgrid/internal/config"
	"github.com/evanschultz/weekgrid/internal/planner"
	"github.com/evanschultz/weekgrid/internal/platform"
	"github.com/evanschultz/weekgrid/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the interactive program; tests swap it for a fake.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP+MCP serve flow.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// run builds the command tree and executes it against args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if args == nil {
		args = []string{}
	}

	root := newRootCommand(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// newRootCommand wires the root TUI command and its subcommands.
func newRootCommand(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: platform.DefaultAppName}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("WEEKGRID_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("WEEKGRID_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:   "weekgrid",
		Short: "A weekly planner board for the terminal",
		Long: "weekgrid lays out a week as a grid of day cells next to an unassigned\n" +
			"bucket and a done bucket. Drag todos between them with the mouse.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), *opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts),
		newListCommand(opts, stderr),
		newAddCommand(opts, stderr),
		newEditCommand(opts, stderr),
		newHistoryCommand(opts, stderr),
		newServeCommand(opts, stderr),
		newExportCommand(opts, stderr),
		newImportCommand(opts, stderr),
	)
	return root
}

// commandMode says how a command flow shares the terminal and storage.
type commandMode int

const (
	// cliMode logs to stderr and fails when storage cannot be opened.
	cliMode commandMode = iota
	// boardMode owns the terminal: logs go to the dev file only, and a storage
	// open failure leaves the board running in memory.
	boardMode
)

// runtimeEnv carries the resolved state one command flow runs against.
// svc is nil in board mode when storage failed to open; storageErr says why.
type runtimeEnv struct {
	opts       rootOptions
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
	repo       *sqlite.Repository
	svc        *app.Service
	storageErr error
}

// resolvePaths resolves per-user paths for opts.
func resolvePaths(opts rootOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// openRuntime loads config, configures logging, and opens storage for one command.
func openRuntime(opts rootOptions, command string, mode commandMode, stderr io.Writer) (*runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("WEEKGRID_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("WEEKGRID_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	console := stderr
	if mode == boardMode {
		console = nil
	}
	logger, err := newRuntimeLogger(console, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	env := &runtimeEnv{
		opts:       opts,
		paths:      paths,
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
	}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	logger.Info("configuration loaded", "config_path", configPath, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		err = fmt.Errorf("open sqlite repository: %w", err)
		if mode == boardMode {
			logger.Warn("board running without storage", "command", command)
			env.storageErr = err
			return env, nil
		}
		_ = env.Close(stderr)
		return nil, err
	}
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")

	env.repo = repo
	env.svc = app.NewService(repo, uuid.NewString, nil)
	return env, nil
}

// Close releases storage and log sinks.
func (e *runtimeEnv) Close(stderr io.Writer) error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Warn("sqlite close failed", "db_path", e.cfg.Database.Path, "err", err)
			errs = append(errs, err)
		}
	}
	if err := e.logger.Close(); err != nil {
		if e.logger.HasConsole() && stderr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// withRuntime runs fn inside an opened runtime with start/complete/failed logging.
func withRuntime(opts rootOptions, command string, mode commandMode, stderr io.Writer, fn func(*runtimeEnv) error) error {
	env, err := openRuntime(opts, command, mode, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close(stderr) }()

	env.logger.Info("command flow start", "command", command)
	if err := fn(env); err != nil {
		env.logger.Error("command flow failed", "command", command, "err", err)
		return fmt.Errorf("run %s command: %w", command, err)
	}
	env.logger.Info("command flow complete", "command", command)
	return nil
}

// runTUI launches the interactive board.
func runTUI(_ context.Context, opts rootOptions, stderr io.Writer) error {
	return withRuntime(opts, "tui", boardMode, stderr, func(env *runtimeEnv) error {
		// A nil *app.Service must not reach the model as a non-nil interface.
		var svc tui.Service
		if env.svc != nil {
			svc = env.svc
		}
		m := tui.NewModel(
			svc,
			tui.WithStorageError(env.storageErr),
			tui.WithLogger(env.logger),
			tui.WithLayout(toLayout(env.cfg.Grid)),
			tui.WithUIConfig(tui.UIConfig{
				LabelField:     env.cfg.UI.LabelField,
				ShowTimeFields: env.cfg.UI.ShowTimeFields,
			}),
			tui.WithKeyConfig(tui.KeyConfig{
				NewTodo:  env.cfg.Keys.NewTodo,
				MarkDone: env.cfg.Keys.MarkDone,
				Details:  env.cfg.Keys.Details,
				CopyID:   env.cfg.Keys.CopyID,
			}),
		)
		env.logger.Info("starting tui program loop")
		if _, err := programFactory(m).Run(); err != nil {
			env.logger.Error("tui program terminated with error", "err", err)
			return fmt.Errorf("run tui program: %w", err)
		}
		return nil
	})
}

// toLayout maps grid config onto planner geometry.
func toLayout(cfg config.GridConfig) planner.Layout {
	return planner.Layout{
		Rows:         cfg.Rows,
		Cols:         cfg.Cols,
		CellWidth:    cfg.CellWidth,
		CellHeight:   cfg.CellHeight,
		BucketWidth:  cfg.BucketWidth,
		BucketHeight: cfg.BucketHeight,
	}
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
