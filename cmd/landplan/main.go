package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verdant/landplan/internal/config"
	"github.com/verdant/landplan/internal/events"
	"github.com/verdant/landplan/internal/generator"
	"github.com/verdant/landplan/internal/persistence"
	"github.com/verdant/landplan/internal/schedule"
	"github.com/verdant/landplan/internal/tui"
)

func main() {
	var (
		projectName = flag.String("project", "", "generate a schedule for this project name (headless)")
		projectID   = flag.String("project-id", "", "project id to attach to the generated schedule")
		templateID  = flag.String("template", "", "template id to generate from")
		startDate   = flag.String("start", "", "work start date (YYYY-MM-DD)")
		modeFlag    = flag.String("mode", "", "projection mode: dependencies or position")
		listFlag    = flag.Bool("list", false, "list persisted schedules and exit")
		templates   = flag.Bool("templates", false, "list available templates and exit")
	)
	flag.Parse()

	// Signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
		os.Exit(1)
	}
	globalPath := filepath.Join(homeDir, ".landplan", "config.json")
	projectPath := filepath.Join(".landplan", "config.json")

	store, err := openStore(ctx, cfg, homeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	bus := events.NewEventBus()
	defer bus.Close()

	svc := generator.NewService(generator.Config{
		ConcurrencyLimit: cfg.ConcurrencyLimit,
	}, cfg.Catalog(), store, bus)

	// Headless modes
	switch {
	case *templates:
		for _, tpl := range cfg.Catalog().List() {
			fmt.Printf("%-24s %s (%d tasks)\n", tpl.ID, tpl.Name, len(tpl.Tasks))
		}
		return

	case *listFlag:
		if err := listSchedules(ctx, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return

	case *projectName != "" || *templateID != "":
		if err := generate(ctx, svc, cfg, *projectName, *projectID, *templateID, *startDate, *modeFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Interactive mode
	model := tui.New(bus, store, cfg, globalPath, projectPath)
	p := tea.NewProgram(model, tea.WithAltScreen())

	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	select {
	case err := <-errChan:
		// Normal TUI exit (user pressed 'q' or TUI finished)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		// Signal received (Ctrl+C or SIGTERM)
		// Call stop() to restore default signal handling (double Ctrl+C = force exit)
		stop()

		log.Println("Shutdown signal received, cleaning up...")
		p.Quit()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		select {
		case err := <-errChan:
			if err != nil {
				log.Printf("TUI exit error: %v", err)
			}
		case <-shutdownCtx.Done():
			log.Println("Shutdown timeout exceeded, forcing exit")
		}
	}
}

// openStore selects the schedule store from config: a remote service when
// RemoteURL is set, a local sqlite database otherwise.
func openStore(ctx context.Context, cfg *config.Config, homeDir string) (persistence.Store, error) {
	if cfg.RemoteURL != "" {
		return persistence.NewRemoteStore(cfg.RemoteURL), nil
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(homeDir, ".landplan", "landplan.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return persistence.NewSQLiteStore(ctx, dbPath)
}

// generate runs one headless schedule generation and prints the result.
func generate(ctx context.Context, svc *generator.Service, cfg *config.Config, projectName, projectID, templateID, startDate, modeFlag string) error {
	if projectName == "" {
		return fmt.Errorf("-project is required")
	}
	if templateID == "" {
		return fmt.Errorf("-template is required")
	}
	if startDate == "" {
		return fmt.Errorf("-start is required")
	}

	anchor, err := schedule.ParseDate(startDate)
	if err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}

	mode := cfg.Mode()
	if modeFlag != "" {
		mode, err = schedule.ParseMode(modeFlag)
		if err != nil {
			return err
		}
	}

	sched, err := svc.Generate(ctx, generator.Request{
		ProjectID:   projectID,
		ProjectName: projectName,
		TemplateID:  templateID,
		Anchor:      anchor,
		Mode:        mode,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s  [%s]\n", sched.Name, sched.ID)
	fmt.Printf("%s → %s\n\n", schedule.DateString(sched.Start), schedule.DateStringCeil(sched.End))
	for _, task := range sched.Tasks {
		fmt.Printf("%3d  %-30s %s → %s  %s\n",
			task.ID, task.Name,
			schedule.DateString(task.Start), schedule.DateStringCeil(task.End),
			task.Category)
	}
	return nil
}

// listSchedules prints all persisted schedules.
func listSchedules(ctx context.Context, store persistence.Store) error {
	schedules, err := store.ListSchedules(ctx)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Println("No schedules.")
		return nil
	}
	for _, s := range schedules {
		fmt.Printf("%-38s %-40s %s → %s  (%d tasks)\n",
			s.ID, s.Name,
			schedule.DateString(s.Start), schedule.DateStringCeil(s.End),
			len(s.Tasks))
	}
	return nil
}
