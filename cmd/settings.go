package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/tracker"
)

var settingsFile string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change tracker settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings as YAML",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Keys:
  tz                 UTC offset, e.g. +02:00
  quiet-hours        comma separated start-end hours, e.g. 22-7,12-13 (empty clears)
  notifications      true|false
  audio              true|false
  sound              sound id, e.g. chime
  session-length     minutes a session needs to count towards a streak
  focus-minutes      default focus timer length
  overlay            true|false
  overlay-position   e.g. bottom-right
  theme              e.g. system`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the settings to a YAML file (stdout by default)",
	Args:  cobra.NoArgs,
	RunE:  runSettingsExport,
}

var settingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the settings with a YAML file",
	Args:  cobra.NoArgs,
	RunE:  runSettingsImport,
}

func init() {
	settingsExportCmd.Flags().StringVarP(&settingsFile, "file", "f", "", "Target file")
	settingsImportCmd.Flags().StringVarP(&settingsFile, "file", "f", "", "Source file")
	_ = settingsImportCmd.MarkFlagRequired("file")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsImportCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.tracker.Settings(cmd.Context())
	if err != nil {
		return err
	}
	data, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.tracker.Settings(cmd.Context())
	if err != nil {
		return err
	}
	if err := applySetting(&settings, args[0], args[1]); err != nil {
		return err
	}
	if err := a.tracker.SaveSettings(cmd.Context(), settings); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", highlight(args[0]), args[1])
	return nil
}

func runSettingsExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.tracker.Settings(cmd.Context())
	if err != nil {
		return err
	}
	data, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	if settingsFile == "" {
		fmt.Print(string(data))
		return nil
	}
	return os.WriteFile(settingsFile, data, 0o644)
}

func runSettingsImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(settingsFile)
	if err != nil {
		return err
	}
	settings, err := decodeSettings(data)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.SaveSettings(cmd.Context(), settings); err != nil {
		return err
	}
	fmt.Printf("Imported settings from %s.\n", settingsFile)
	return nil
}

func encodeSettings(s model.Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeSettings reads YAML settings; missing keys keep their defaults.
func decodeSettings(data []byte) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", tracker.ErrInvalidSettings, err)
	}
	if err := tracker.ValidateSettings(settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

func applySetting(s *model.Settings, key, value string) error {
	var err error
	switch key {
	case "tz":
		s.TZ = value
	case "quiet-hours":
		s.QuietHours, err = parseQuietHours(value)
	case "notifications":
		s.Notifications, err = strconv.ParseBool(value)
	case "audio":
		s.Audio, err = strconv.ParseBool(value)
	case "sound":
		s.Sound = value
	case "session-length":
		s.SessionLengthMinutes, err = strconv.Atoi(value)
	case "focus-minutes":
		s.FocusMinutes, err = strconv.Atoi(value)
	case "overlay":
		s.OverlayEnabled, err = strconv.ParseBool(value)
	case "overlay-position":
		s.OverlayPosition = value
	case "theme":
		s.Theme = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// parseQuietHours parses "22-7,12-13" into ranges.
func parseQuietHours(value string) ([]model.QuietRange, error) {
	ranges := []model.QuietRange{}
	if strings.TrimSpace(value) == "" {
		return ranges, nil
	}
	for _, part := range strings.Split(value, ",") {
		startStr, endStr, ok := strings.Cut(strings.TrimSpace(part), "-")
		if !ok {
			return nil, fmt.Errorf("range %q must look like 22-7", part)
		}
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return nil, err
		}
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, model.QuietRange{start, end})
	}
	return ranges, nil
}
