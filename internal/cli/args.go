package cli

import (
	"fmt"
)

// Args represents the top-level command structure
type Args struct {
	Watch  *WatchCmd  `arg:"subcommand:watch" help:"Capture clipboard changes until interrupted"`
	Get    *GetCmd    `arg:"subcommand:get" help:"Print or copy a history entry (no index opens the browser)"`
	List   *ListCmd   `arg:"subcommand:list" help:"List history entries"`
	Pin    *PinCmd    `arg:"subcommand:pin" help:"Toggle an entry's pin"`
	Delete *DeleteCmd `arg:"subcommand:delete" help:"Delete a history entry"`
	Clear  *ClearCmd  `arg:"subcommand:clear" help:"Clear the history"`
	Key    *KeyCmd    `arg:"subcommand:key" help:"Manage the encryption key"`
	Config *ConfigCmd `arg:"subcommand:config" help:"Manage configuration"`

	ConfigPath *string `arg:"--config-path,env:CLIPVAULT_CONFIG" help:"Path to the configuration file"`
}

// WatchCmd represents the 'clipvault watch' command
type WatchCmd struct {
	Verbose bool `arg:"-v,--verbose" help:"Enable debug logging"`
}

// GetCmd represents the 'clipvault get' command
type GetCmd struct {
	Index     *int `arg:"positional" help:"Entry index (0=newest, optional, opens browser if not provided)"`
	Clipboard bool `arg:"-c,--clipboard" help:"Copy the entry back to the clipboard instead of printing"`
}

// ListCmd represents the 'clipvault list' command
type ListCmd struct{}

// PinCmd represents the 'clipvault pin' command
type PinCmd struct {
	Index int `arg:"positional,required" help:"Entry index (0=newest)"`
}

// DeleteCmd represents the 'clipvault delete' command
type DeleteCmd struct {
	Index int `arg:"positional,required" help:"Entry index (0=newest)"`
}

// ClearCmd represents the 'clipvault clear' command
type ClearCmd struct {
	Pinned bool `arg:"--pinned" help:"Also remove pinned entries"`
}

// KeyCmd groups the key lifecycle subcommands
type KeyCmd struct {
	Init   *KeyInitCmd   `arg:"subcommand:init" help:"Create the encryption key if it does not exist"`
	Delete *KeyDeleteCmd `arg:"subcommand:delete" help:"Delete the encryption key"`
}

// KeyInitCmd represents 'clipvault key init'
type KeyInitCmd struct{}

// KeyDeleteCmd represents 'clipvault key delete'
type KeyDeleteCmd struct {
	Force bool `arg:"-f,--force" help:"Skip the confirmation prompt"`
}

// ConfigCmd groups the configuration subcommands
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Print one configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Set one configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"Print all configuration values"`
}

// ConfigGetCmd represents 'clipvault config get'
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key"`
}

// ConfigSetCmd represents 'clipvault config set'
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"New value"`
}

// ConfigListCmd represents 'clipvault config list'
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "clipvault - Encrypted clipboard history"
}

// Version returns the program version
func (Args) Version() string {
	return "clipvault 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  clipvault watch                  # Capture clipboard changes (Ctrl-C to stop)
  clipvault                        # Interactive history browser
  clipvault get 0                  # Print the newest entry
  clipvault get -c 2               # Copy the third entry back to the clipboard
  clipvault pin 1                  # Toggle the second entry's pin
  clipvault clear                  # Drop all non-pinned entries
  clipvault key delete -f          # Destroy the key (history becomes unreadable)

History is stored encrypted; the key lives in the OS keychain and never
leaves this machine. Deleting the key makes every saved snapshot
permanently unrecoverable.`
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	if args.Get != nil {
		return args.Get.Validate()
	}
	if args.Pin != nil && args.Pin.Index < 0 {
		return fmt.Errorf("index must not be negative")
	}
	if args.Delete != nil && args.Delete.Index < 0 {
		return fmt.Errorf("index must not be negative")
	}
	if args.Key != nil && args.Key.Init == nil && args.Key.Delete == nil {
		return fmt.Errorf("key requires a subcommand: init or delete")
	}
	if args.Config != nil && args.Config.Get == nil && args.Config.Set == nil && args.Config.List == nil {
		return fmt.Errorf("config requires a subcommand: get, set, or list")
	}
	return nil
}

// Validate checks the get command's arguments
func (cmd *GetCmd) Validate() error {
	if cmd.Index != nil && *cmd.Index < 0 {
		return fmt.Errorf("index must not be negative")
	}
	return nil
}
