// Package cli wires the clipvault components together and dispatches the
// command surface. Each component is constructed explicitly here, once per
// process, and passed by reference; there are no ambient singletons.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/clipboard/sysboard"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/monitor"
	"github.com/clipvault/clipvault/internal/persist"
	"github.com/clipvault/clipvault/internal/scheduler"
	"github.com/clipvault/clipvault/internal/tui"
	"github.com/clipvault/clipvault/internal/vault"
)

// CLI handles the command-line interface
type CLI struct {
	cfg       *config.Config
	manager   *config.Manager
	store     *history.Store
	vault     *vault.KeyVault
	engine    *persist.Engine
	clipboard clipboard.Clipboard
	log       zerolog.Logger
}

// New creates a CLI instance with default wiring
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a CLI instance honoring the config path flag
func NewWithArgs(args *Args) (*CLI, error) {
	var manager *config.Manager
	if args != nil && args.ConfigPath != nil {
		manager = config.NewManagerWithPath(*args.ConfigPath)
	} else {
		var err error
		manager, err = config.NewManager()
		if err != nil {
			return nil, fmt.Errorf("failed to locate configuration: %w", err)
		}
	}

	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	kv := vault.New(vault.NewKeyringBackend())
	engine := persist.NewEngine(manager.HistoryPath(cfg), kv, log)
	store := history.NewStore(cfg.HistoryLimit)

	return &CLI{
		cfg:       cfg,
		manager:   manager,
		store:     store,
		vault:     kv,
		engine:    engine,
		clipboard: sysboard.New(),
		log:       log,
	}, nil
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Watch != nil:
		return c.executeWatch(args.Watch)
	case args.Get != nil:
		return c.executeGet(args.Get)
	case args.List != nil:
		return c.executeList()
	case args.Pin != nil:
		return c.executePin(args.Pin)
	case args.Delete != nil:
		return c.executeDelete(args.Delete)
	case args.Clear != nil:
		return c.executeClear(args.Clear)
	case args.Key != nil:
		return c.executeKey(args.Key)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		return c.launchBrowser()
	}
}

// executeWatch runs the capture daemon until interrupted.
func (c *CLI) executeWatch(cmd *WatchCmd) error {
	log := c.log.Level(zerolog.InfoLevel)
	if cmd.Verbose {
		log = log.Level(zerolog.DebugLevel)
	}

	if err := c.vault.EnsureKey(); err != nil {
		return fmt.Errorf("failed to provision encryption key: %w", err)
	}

	c.store.Seed(c.engine.Load())
	log.Info().Int("entries", c.store.Len()).Msg("history loaded")

	sched := scheduler.New(func() error {
		return c.engine.Save(c.store.Snapshot())
	}, c.cfg.SaveQuiet(), log)
	c.store.OnChange(sched.MarkDirty)

	mon := monitor.New(c.clipboard, c.cfg.PollInterval(), log)
	mon.Start(func(text string) {
		c.store.AddItem(text)
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	mon.Stop()
	if err := sched.ShutdownFlush(); err != nil {
		return fmt.Errorf("final save failed: %w", err)
	}
	return nil
}

// executeGet prints an entry by index, copies it back with -c, or opens the
// browser when no index is given.
func (c *CLI) executeGet(cmd *GetCmd) error {
	if cmd.Index == nil {
		return c.launchBrowser()
	}

	entry, err := c.entryAt(*cmd.Index)
	if err != nil {
		return err
	}

	if cmd.Clipboard {
		if err := c.clipboard.WriteText(entry.Text); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		return nil
	}

	fmt.Println(entry.Text)
	return nil
}

// executeList prints one line per entry.
func (c *CLI) executeList() error {
	c.store.Seed(c.engine.Load())

	snap := c.store.Snapshot()
	if len(snap.Entries) == 0 {
		fmt.Println("history is empty")
		return nil
	}

	for i, e := range snap.Entries {
		marker := " "
		if e.Pinned {
			marker = "*"
		}
		preview := e.Text
		if len(preview) > 72 {
			preview = preview[:69] + "..."
		}
		fmt.Printf("%3d %s %s  %s\n", i, marker, e.RecordedAt.Format("2006-01-02 15:04"), preview)
	}
	return nil
}

// executePin toggles a pin and flushes the change.
func (c *CLI) executePin(cmd *PinCmd) error {
	entry, err := c.entryAt(cmd.Index)
	if err != nil {
		return err
	}
	c.store.TogglePin(entry.ID)
	return c.flush()
}

// executeDelete removes an entry and flushes the change.
func (c *CLI) executeDelete(cmd *DeleteCmd) error {
	entry, err := c.entryAt(cmd.Index)
	if err != nil {
		return err
	}
	c.store.DeleteItem(entry.ID)
	return c.flush()
}

// executeClear drops entries and flushes the change.
func (c *CLI) executeClear(cmd *ClearCmd) error {
	c.store.Seed(c.engine.Load())
	c.store.Clear(cmd.Pinned)
	return c.flush()
}

// executeKey handles the key lifecycle subcommands.
func (c *CLI) executeKey(cmd *KeyCmd) error {
	switch {
	case cmd.Init != nil:
		if err := c.vault.EnsureKey(); err != nil {
			return fmt.Errorf("failed to provision encryption key: %w", err)
		}
		fmt.Println("encryption key ready")
		return nil
	case cmd.Delete != nil:
		if !cmd.Delete.Force {
			fmt.Print("Deleting the key makes all saved history unrecoverable. Type 'yes' to continue: ")
			var answer string
			fmt.Scanln(&answer)
			if answer != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}
		if err := c.vault.DeleteKey(); err != nil {
			return fmt.Errorf("failed to delete encryption key: %w", err)
		}
		fmt.Println("encryption key deleted")
		return nil
	}
	return fmt.Errorf("key requires a subcommand: init or delete")
}

// executeConfig handles the configuration subcommands.
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	manager := c.manager

	switch {
	case cmd.Get != nil:
		value, err := manager.Get(cmd.Get.Key)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	case cmd.Set != nil:
		return manager.Update(cmd.Set.Key, cmd.Set.Value)
	case cmd.List != nil:
		values, err := manager.List()
		if err != nil {
			return err
		}
		for _, key := range []string{"history-limit", "poll-interval-ms", "save-quiet-ms", "history-location"} {
			fmt.Printf("%s: %s\n", key, values[key])
		}
		return nil
	}
	return fmt.Errorf("config requires a subcommand: get, set, or list")
}

// launchBrowser opens the interactive TUI over the loaded history and
// flushes any mutations on exit.
func (c *CLI) launchBrowser() error {
	c.store.Seed(c.engine.Load())

	sched := scheduler.New(func() error {
		return c.engine.Save(c.store.Snapshot())
	}, c.cfg.SaveQuiet(), c.log)
	c.store.OnChange(sched.MarkDirty)

	model := tui.NewModel(c.store, c.clipboard)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	return sched.ShutdownFlush()
}

// entryAt loads the history and resolves an index into an entry.
func (c *CLI) entryAt(index int) (history.Entry, error) {
	c.store.Seed(c.engine.Load())

	snap := c.store.Snapshot()
	if index < 0 || index >= len(snap.Entries) {
		if len(snap.Entries) == 0 {
			return history.Entry{}, fmt.Errorf("history is empty")
		}
		return history.Entry{}, fmt.Errorf("index %d out of range (0-%d)", index, len(snap.Entries)-1)
	}
	return snap.Entries[index], nil
}

// flush persists the current state immediately.
func (c *CLI) flush() error {
	if err := c.engine.Save(c.store.Snapshot()); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
