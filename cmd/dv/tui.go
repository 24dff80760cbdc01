package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/dexviz/internal/datasource"
	"github.com/vanderheijden86/dexviz/pkg/config"
	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/session"
	"github.com/vanderheijden86/dexviz/pkg/ui"
	"github.com/vanderheijden86/dexviz/pkg/watcher"
)

func runTUI(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	ds, src, err := loadDataset(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		fmt.Fprintf(stdout, "No records found in %s.\n", src.Path)
		return nil
	}

	s := session.New(ds)
	if err := s.ApplyConfig(cfg.Charts); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	opts := parseOptions(cfg, io.Discard)
	m := ui.NewModel(s, ui.Options{
		Config: cfg,
		Reload: func() (model.Dataset, error) {
			return datasource.LoadFromSource(ctx, src, opts)
		},
	})
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Live reload is best effort; the panel still works without it.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		err := watcher.Run(watchCtx, src.Path,
			func() error {
				p.Send(ui.FileChangedMsg{})
				return nil
			},
			func(err error) {
				p.Send(ui.DatasetLoadedMsg{Err: err})
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			debug.Log("watcher: %v", err)
		}
	}()

	return runTUIProgram(p)
}

func runTUIProgram(p *tea.Program) error {
	runDone := make(chan struct{})
	defer close(runDone)

	// Optional auto-quit for automated tests: set DV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("DV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
