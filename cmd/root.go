package cmd

import (
	"context"
	"fmt"
	"os"

	"anime-ringtone/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "anime-ringtone",
	Short: "Turn anime intro videos into short ringtone clips",
	Long: `anime-ringtone serves a small HTTP API that converts a YouTube URL into a
short audio clip and keeps it in memory for download:

  - POST /api/convert        submit a video URL, get a preview URL back
  - GET  /api/preview/:id    download the transcoded clip

Example:
  anime-ringtone serve
  anime-ringtone convert --url "https://youtu.be/dQw4w9WgXcQ" --output intro.mp3`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file means defaults; a broken one is reported by the commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}
