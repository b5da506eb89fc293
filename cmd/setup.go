package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"anime-ringtone/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through the listen address, the audio source
strategy, the clip profile and the preview store settings. Anything not
asked keeps its default.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to anime-ringtone setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	if err := promptSource(prompter, cfg); err != nil {
		return err
	}

	if err := promptProfile(prompter, cfg); err != nil {
		return err
	}

	if err := promptStorage(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	port, err := promptInt(prompter, "Port for the HTTP API?", cfg.Server.Port)
	if err != nil {
		return err
	}
	cfg.Server.Port = port

	origins, err := prompter.Input("Allowed CORS origins (comma separated, * for any)?", strings.Join(cfg.CORS.AllowedOrigins, ","))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.CORS.AllowedOrigins = splitList(origins)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	return nil
}

func promptSource(prompter Prompter, cfg *config.Config) error {
	strategy, err := prompter.Select("Where should audio come from?", []string{
		config.StrategySample,
		config.StrategyFile,
		config.StrategyService,
		config.StrategyCommand,
	}, cfg.Source.Strategy)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Source.Strategy = strategy

	switch strategy {
	case config.StrategySample:
		sampleURL, err := prompter.Input("Sample audio URL?", cfg.Source.SampleURL)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if sampleURL != "" {
			cfg.Source.SampleURL = sampleURL
		}
	case config.StrategyFile:
		file, err := prompter.Input("Path to the sample audio file?", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if file == "" {
			return fmt.Errorf("sample file is required")
		}
		cfg.Source.SampleFile = file
	case config.StrategyService:
		serviceURL, err := prompter.Input("Extraction service URL?", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if serviceURL == "" {
			return fmt.Errorf("service URL is required")
		}
		cfg.Source.ServiceURL = serviceURL
	case config.StrategyCommand:
		command, err := prompter.Input("Extractor command?", "yt-dlp")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if command == "" {
			return fmt.Errorf("command is required")
		}
		cfg.Source.Command = command

		args, err := prompter.Input("Command arguments ({url} is replaced by the video URL)?", "-x --audio-format wav -o - {url}")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		cfg.Source.Args = strings.Fields(args)
	}

	return nil
}

func promptProfile(prompter Prompter, cfg *config.Config) error {
	maxLength, err := prompter.Input("Clip length (HH:MM:SS)?", cfg.Profile.MaxLength)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if maxLength != "" {
		cfg.Profile.MaxLength = maxLength
	}

	bitrate, err := prompter.Input("Audio bitrate?", cfg.Profile.Bitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate != "" {
		cfg.Profile.Bitrate = bitrate
	}

	if _, err := cfg.Profile.TranscodeProfile(); err != nil {
		return err
	}
	return nil
}

func promptStorage(prompter Prompter, cfg *config.Config) error {
	bounded, err := prompter.Confirm("Limit how many previews are kept in memory?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !bounded {
		cfg.Storage.MaxEntries = 0
		return nil
	}

	maxEntries, err := promptInt(prompter, "Maximum previews kept?", 100)
	if err != nil {
		return err
	}
	if maxEntries < 1 {
		return fmt.Errorf("maximum previews must be at least 1")
	}
	cfg.Storage.MaxEntries = maxEntries
	return nil
}

func promptInt(prompter Prompter, message string, defaultValue int) (int, error) {
	answer, err := prompter.Input(message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	if answer == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", answer)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
