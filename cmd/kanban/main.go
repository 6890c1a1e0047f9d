package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"kanban-backend/internal/config"
	"kanban-backend/internal/logger"
	"kanban-backend/internal/manager"
	"kanban-backend/internal/models"
	"kanban-backend/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	// Keep stdout for command output.
	logger.SetLevel(logger.LevelWarn)

	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(ctx, manager.NewTaskManager(store), os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, tm *manager.TaskManager, command string, args []string, out io.Writer) error {
	switch command {
	case "add":
		return handleAdd(ctx, tm, args, out)
	case "list":
		return handleList(ctx, tm, args, out)
	case "move":
		return handleMove(ctx, tm, args, out)
	case "delete":
		return handleDelete(ctx, tm, args, out)
	case "export":
		return handleExport(ctx, tm, args, out)
	case "help", "-h", "--help":
		printHelp(out)
		return nil
	default:
		printHelp(out)
		return fmt.Errorf("unknown command %q", command)
	}
}

func handleAdd(ctx context.Context, tm *manager.TaskManager, args []string, out io.Writer) error {
	addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
	text := addCmd.String("text", "", "Task text")
	status := addCmd.String("status", "todo", "Kanban column")
	if err := addCmd.Parse(args); err != nil {
		return err
	}
	if *text == "" {
		return fmt.Errorf("--text is required")
	}

	task, err := tm.CreateTask(ctx, models.CreateTaskRequest{Text: text, Status: status})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added task %d [%s]\n", task.ID, task.Status)
	return nil
}

func handleList(ctx context.Context, tm *manager.TaskManager, args []string, out io.Writer) error {
	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	status := listCmd.String("status", "", "Only show tasks in this column")
	if err := listCmd.Parse(args); err != nil {
		return err
	}

	tasks, err := tm.ListTasks(ctx)
	if err != nil {
		return err
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	shown := 0
	for _, task := range tasks {
		if *status != "" && task.Status != *status {
			continue
		}
		fmt.Fprintf(out, "%d: %s [%s]\n", task.ID, task.Text, task.Status)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No tasks found")
	}
	return nil
}

func handleMove(ctx context.Context, tm *manager.TaskManager, args []string, out io.Writer) error {
	moveCmd := flag.NewFlagSet("move", flag.ContinueOnError)
	id := moveCmd.Int("id", 0, "Task ID")
	status := moveCmd.String("status", "", "Target column")
	if err := moveCmd.Parse(args); err != nil {
		return err
	}
	if *id == 0 || *status == "" {
		return fmt.Errorf("--id and --status are required")
	}

	task, err := tm.PatchTask(ctx, *id, models.UpdateTaskRequest{Status: status})
	if err != nil {
		return fmt.Errorf("task %d: %w", *id, err)
	}
	fmt.Fprintf(out, "Task %d moved to %s\n", task.ID, task.Status)
	return nil
}

func handleDelete(ctx context.Context, tm *manager.TaskManager, args []string, out io.Writer) error {
	deleteCmd := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := deleteCmd.Int("id", 0, "Task ID to delete")
	if err := deleteCmd.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("--id is required")
	}

	if err := tm.DeleteTask(ctx, *id); err != nil {
		return fmt.Errorf("task %d: %w", *id, err)
	}
	fmt.Fprintf(out, "Task %d deleted\n", *id)
	return nil
}

func handleExport(ctx context.Context, tm *manager.TaskManager, args []string, out io.Writer) error {
	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	format := exportCmd.String("format", "json", "Export format (json|csv)")
	outFile := exportCmd.String("out", "", "Output file path (stdout when empty)")
	if err := exportCmd.Parse(args); err != nil {
		return err
	}

	var write func(io.Writer, []models.Task) error
	switch *format {
	case "json":
		write = models.WriteJSON
	case "csv":
		write = models.WriteCSV
	default:
		return fmt.Errorf("unsupported format %s", *format)
	}

	tasks, err := tm.ListTasks(ctx)
	if err != nil {
		return err
	}

	if *outFile == "" {
		return write(out, tasks)
	}
	f, err := os.Create(*outFile)
	if err != nil {
		return err
	}
	if err := write(f, tasks); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d tasks to %s in %s format\n", len(tasks), *outFile, *format)
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Usage: kanban <command> [flags]

Commands:
  add     --text="..." [--status=todo]     Add a task
  list    [--status=COLUMN]                List tasks
  move    --id=ID --status=COLUMN          Move a task to another column
  delete  --id=ID                          Delete a task
  export  [--format=json|csv] [--out=FILE] Export all tasks

Storage is selected with STORAGE_DRIVER and DATABASE_PATH (see .env).`)
}
