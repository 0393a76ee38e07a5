package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change a user's settings",
	Long: `Show or change the risk and alert settings of a user.

Examples:
  tradelog settings show --user me@example.com
  tradelog settings set --user me@example.com risk_percent=3 session_end_alert=true`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Update one or more settings",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	addUserFlag(settingsCmd)
}

// parseSettings turns key=value pairs into a patch. Each value is read
// as a YAML scalar so "true" and "3.5" land in bool and float fields.
func parseSettings(pairs []string) (journal.SettingsPatch, error) {
	doc := make(map[string]any, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return journal.SettingsPatch{}, fmt.Errorf("expected key=value, got %q", kv)
		}
		v = strings.TrimSpace(v)
		var scalar any
		if err := yaml.Unmarshal([]byte(v), &scalar); err != nil || scalar == nil {
			scalar = v
		}
		doc[k] = scalar
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return journal.SettingsPatch{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var p journal.SettingsPatch
	if err := dec.Decode(&p); err != nil {
		return journal.SettingsPatch{}, fmt.Errorf("parse settings: %w", err)
	}
	return p, nil
}

func printSettings(cmd *cobra.Command, st *journal.UserSettings) error {
	out, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		st, err := a.auth.Settings(ctx, u.ID)
		if err != nil {
			return err
		}
		return printSettings(cmd, st)
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	p, err := parseSettings(args)
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		st, err := a.auth.UpdateSettings(ctx, u.ID, p)
		if err != nil {
			return err
		}
		return printSettings(cmd, st)
	})
}
