package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	serveradapter "github.com/evanschultz/weekgrid/internal/adapters/server"
	servercommon "github.com/evanschultz/weekgrid/internal/adapters/server/common"
	"github.com/evanschultz/weekgrid/internal/app"
	"github.com/evanschultz/weekgrid/internal/domain"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit caps history output when --limit is not given.
const defaultHistoryLimit = 20

// newPathsCommand prints the resolved per-user paths.
func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data, and database paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(*opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}

// newListCommand prints todos grouped by placement.
func newListCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List todos grouped by placement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(*opts, "list", cliMode, stderr, func(env *runtimeEnv) error {
				todos, err := env.svc.ListTodos(cmd.Context())
				if err != nil {
					return err
				}
				writeTodoList(cmd.OutOrStdout(), todos)
				return nil
			})
		},
	}
}

// writeTodoList writes todos under one header per placement, in list order.
func writeTodoList(out io.Writer, todos []domain.Todo) {
	if len(todos) == 0 {
		_, _ = fmt.Fprintln(out, "no todos")
		return
	}
	current := ""
	for _, todo := range todos {
		if group := todo.Placement.String(); group != current {
			current = group
			_, _ = fmt.Fprintln(out, group)
		}
		_, _ = fmt.Fprintf(out, "  %s  %s%s\n", todo.ID, todo.Name, todoTimeSuffix(todo))
	}
}

// todoTimeSuffix renders the optional time fields of one todo.
func todoTimeSuffix(todo domain.Todo) string {
	var b strings.Builder
	if todo.StartTime != nil || todo.EndTime != nil {
		b.WriteString("  [")
		b.WriteString(optionalIntText(todo.StartTime))
		b.WriteString("-")
		b.WriteString(optionalIntText(todo.EndTime))
		b.WriteString("]")
	}
	if todo.TimeCost != nil {
		_, _ = fmt.Fprintf(&b, "  ~%d", *todo.TimeCost)
	}
	return b.String()
}

func optionalIntText(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}

// newAddCommand creates one unassigned todo.
func newAddCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		name        string
		description string
		start       int
		end         int
		cost        int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a todo in the unassigned bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := app.CreateTodoInput{
				Name:        name,
				Description: description,
			}
			flags := cmd.Flags()
			if flags.Changed("start") {
				in.StartTime = &start
			}
			if flags.Changed("end") {
				in.EndTime = &end
			}
			if flags.Changed("cost") {
				in.TimeCost = &cost
			}
			return withRuntime(*opts, "add", cliMode, stderr, func(env *runtimeEnv) error {
				todo, err := env.svc.CreateTodo(cmd.Context(), in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s %s\n", todo.ID, todo.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "todo name")
	cmd.Flags().StringVar(&description, "description", "", "todo description (markdown)")
	cmd.Flags().IntVar(&start, "start", 0, "start time")
	cmd.Flags().IntVar(&end, "end", 0, "end time")
	cmd.Flags().IntVar(&cost, "cost", 0, "estimated time cost")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// newEditCommand changes the details of one todo without moving it.
func newEditCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		name        string
		description string
		start       int
		end         int
		cost        int
		clearTimes  bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a todo's name, description, or time fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := app.UpdateTodoInput{ClearTimes: clearTimes}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("start") {
				in.StartTime = &start
			}
			if flags.Changed("end") {
				in.EndTime = &end
			}
			if flags.Changed("cost") {
				in.TimeCost = &cost
			}
			return withRuntime(*opts, "edit", cliMode, stderr, func(env *runtimeEnv) error {
				todo, err := env.svc.UpdateTodo(cmd.Context(), args[0], in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s%s\n", todo.ID, todo.Name, todoTimeSuffix(todo))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new todo name")
	cmd.Flags().StringVar(&description, "description", "", "new description (markdown)")
	cmd.Flags().IntVar(&start, "start", 0, "start time")
	cmd.Flags().IntVar(&end, "end", 0, "end time")
	cmd.Flags().IntVar(&cost, "cost", 0, "estimated time cost")
	cmd.Flags().BoolVar(&clearTimes, "clear-times", false, "drop start, end, and cost before applying new values")
	return cmd
}

// newHistoryCommand prints recent change events, newest first.
func newHistoryCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	limit := defaultHistoryLimit
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent todo changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			return withRuntime(*opts, "history", cliMode, stderr, func(env *runtimeEnv) error {
				events, err := env.svc.ListChangeEvents(cmd.Context(), limit)
				if err != nil {
					return err
				}
				writeHistory(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", limit, "maximum events to show (0 for all)")
	return cmd
}

// writeHistory writes one line per change event.
func writeHistory(out io.Writer, events []domain.ChangeEvent) {
	if len(events) == 0 {
		_, _ = fmt.Fprintln(out, "no changes")
		return
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-6s  %s", ev.OccurredAt.Local().Format(time.DateTime), ev.Operation, ev.TodoID)
		for _, key := range slices.Sorted(maps.Keys(ev.Metadata)) {
			line += fmt.Sprintf(" %s=%s", key, ev.Metadata[key])
		}
		_, _ = fmt.Fprintln(out, line)
	}
}

// newServeCommand runs the REST and MCP server until the context ends.
func newServeCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		bind        string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve todos over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(*opts, "serve", cliMode, stderr, func(env *runtimeEnv) error {
				cfg := serveradapter.Config{
					HTTPBind:      firstNonEmpty(bind, env.cfg.Server.Bind),
					APIEndpoint:   firstNonEmpty(apiEndpoint, env.cfg.Server.APIEndpoint),
					MCPEndpoint:   firstNonEmpty(mcpEndpoint, env.cfg.Server.MCPEndpoint),
					ServerName:    opts.appName,
					ServerVersion: version,
				}
				return serveCommandRunner(cmd.Context(), cfg, serveradapter.Dependencies{
					Todos:  servercommon.NewAppServiceAdapter(env.svc),
					Logger: env.logger,
				})
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "HTTP listen address (default from config)")
	cmd.Flags().StringVar(&apiEndpoint, "api", "", "HTTP API base endpoint (default from config)")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp", "", "MCP streamable HTTP endpoint (default from config)")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// newExportCommand writes a JSON snapshot of every todo.
func newExportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	outPath := "-"
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all todos as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(*opts, "export", cliMode, stderr, func(env *runtimeEnv) error {
				snap, err := env.svc.ExportSnapshot(cmd.Context())
				if err != nil {
					return fmt.Errorf("export snapshot: %w", err)
				}
				encoded, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("encode snapshot json: %w", err)
				}
				encoded = append(encoded, '\n')

				if outPath == "-" {
					if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
						return fmt.Errorf("write snapshot to stdout: %w", err)
					}
					return nil
				}
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return fmt.Errorf("create export output dir: %w", err)
				}
				if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", outPath, "output file path ('-' for stdout)")
	return cmd
}

// newImportCommand upserts todos from a JSON snapshot.
func newImportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import todos from a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var snap app.Snapshot
			if err := json.Unmarshal(content, &snap); err != nil {
				return fmt.Errorf("decode snapshot json: %w", err)
			}
			return withRuntime(*opts, "import", cliMode, stderr, func(env *runtimeEnv) error {
				if err := env.svc.ImportSnapshot(cmd.Context(), snap); err != nil {
					return fmt.Errorf("import snapshot: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d todos\n", len(snap.Todos))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
