package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bimmerbailey/quill/internal/output"
	"github.com/bimmerbailey/quill/internal/secret"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage obscured credentials in the config file",
	Long: `Credentials are kept in the config file under
credentials.<item>.<username>, obscured with the configured label:

  label: mypkg
  credentials:
    gotify:
      admin: "<output of quill secret encode gotify admin>"`,
}

var secretEncodeCmd = &cobra.Command{
	Use:   "encode <item> <username>",
	Short: "Obscure a password for the config file",
	Long: `Read a password (without echo when attached to a terminal) and print
the config entry that stores it.

Examples:
  quill secret encode gotify admin
  printf 'hunter2' | quill secret encode gotify admin`,
	Args: cobra.ExactArgs(2),
	RunE: runSecretEncode,
}

var secretGetCmd = &cobra.Command{
	Use:   "get <item> <username>",
	Short: "Print a stored password",
	Args:  cobra.ExactArgs(2),
	RunE:  runSecretGet,
}

var secretListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items that have stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runSecretList,
}

func init() {
	secretCmd.AddCommand(secretEncodeCmd)
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretListCmd)

	rootCmd.AddCommand(secretCmd)
}

func newSecretStore() (*secret.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	codec, err := cfg.Codec("")
	if err != nil {
		return nil, err
	}
	return secret.NewStore(codec, cfg.Credentials), nil
}

func runSecretEncode(cmd *cobra.Command, args []string) error {
	item, username := args[0], args[1]

	store, err := newSecretStore()
	if err != nil {
		return err
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	encoded, err := store.Encode(password)
	if err != nil {
		return err
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	if writer.Format() == output.FormatJSON {
		return writer.WriteJSON(map[string]string{
			"key":   fmt.Sprintf("credentials.%s.%s", item, username),
			"value": encoded,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), "credentials:")
	fmt.Fprintf(cmd.OutOrStdout(), "  %s:\n", item)
	fmt.Fprintf(cmd.OutOrStdout(), "    %s: %q\n", username, encoded)
	return nil
}

func runSecretGet(cmd *cobra.Command, args []string) error {
	store, err := newSecretStore()
	if err != nil {
		return err
	}

	password, err := store.Password(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), password)
	return nil
}

func runSecretList(cmd *cobra.Command, args []string) error {
	store, err := newSecretStore()
	if err != nil {
		return err
	}

	items := store.Items()
	sort.Strings(items)

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	if writer.Format() == output.FormatJSON {
		return writer.WriteJSON(items)
	}
	for _, item := range items {
		fmt.Fprintln(cmd.OutOrStdout(), item)
	}
	return nil
}

// readPassword prompts on a terminal with echo disabled, or reads the first
// line of input otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
