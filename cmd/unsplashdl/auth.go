package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"unsplashdl/pkg/auth"
	"unsplashdl/pkg/ui"
)

// keyManager is the part of auth.Manager the auth commands use
type keyManager interface {
	Store(key *auth.Key) error
	Retrieve(name string) (*auth.Key, error)
	List() ([]*auth.Key, error)
	Delete(name string) error
}

var newKeyManager = func() (keyManager, error) {
	return auth.NewManager()
}

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Unsplash access keys",
	Long: `Manage Unsplash access keys stored on this machine.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables ACCESS_KEY / UNSPLASHDL_ACCESS_KEY (read only)`,
}

var authSetCmd = &cobra.Command{
	Use:   "set [profile]",
	Short: "Store an access key",
	Example: `  # Store the default key
  unsplashdl auth set

  # Store a second key under a profile name
  unsplashdl auth set work`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newKeyManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		return setKey(manager, profileArg(args), ui.NewPrompter(os.Stdin, ui.Output()), ui.Output())
	},
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored access keys (masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newKeyManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		return showKeys(manager, cmd.OutOrStdout())
	},
}

var authDeleteCmd = &cobra.Command{
	Use:   "delete [profile]",
	Short: "Remove a stored access key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newKeyManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		return deleteKey(manager, profileArg(args), ui.NewPrompter(os.Stdin, ui.Output()))
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authDeleteCmd)
}

func profileArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return auth.DefaultProfile
}

func setKey(manager keyManager, name string, prompter *ui.Prompter, out io.Writer) error {
	auth.ShowAccessKeyGuide(out)

	if existing, err := manager.Retrieve(name); err == nil && existing != nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("Profile '%s' already has a key. Replace it?", name), false)
		if err != nil {
			return err
		}
		if !overwrite {
			return nil
		}
	}

	secret, err := prompter.AskSecret("Access key")
	if err != nil {
		return fmt.Errorf("failed to read access key: %w", err)
	}

	if err := manager.Store(&auth.Key{Name: name, AccessKey: secret}); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Stored access key %s for profile '%s'", auth.MaskKey(secret), name))
	return nil
}

func showKeys(manager keyManager, out io.Writer) error {
	keys, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Fprintln(out, "No stored access keys. Use 'unsplashdl auth set' to add one.")
		return nil
	}

	for _, key := range keys {
		k := auth.SanitizeKey(key)
		fmt.Fprintf(out, "%-12s %s  (modified %s)\n", k.Name, k.AccessKey, k.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func deleteKey(manager keyManager, name string, prompter *ui.Prompter) error {
	ok, err := prompter.Confirm(fmt.Sprintf("Remove the access key of profile '%s'?", name), false)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := manager.Delete(name); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No access key stored for profile", name)
			return nil
		}
		return err
	}
	ui.PrintSuccess("Removed access key for profile '" + name + "'")
	return nil
}
