package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"anime-ringtone/infrastructure/ffmpeg"
	"anime-ringtone/infrastructure/process"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that ffmpeg is installed",
	Long: `Run "ffmpeg -version" with the configured ffmpeg path and report the result.

Example:
  anime-ringtone check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	engine := ffmpeg.NewEngine(
		ffmpeg.WithFFmpegPath(cfg.Transcoder.FFmpegPath),
		ffmpeg.WithCommandRunner(&process.ExecCommandRunner{}),
	)
	return RunCheckWithDependencies(cmd.Context(), engine, cfg.Transcoder.FFmpegPath, os.Stdout)
}

// Verifier probes the transcoding engine
type Verifier interface {
	VerifyInstalled(ctx context.Context) error
}

// RunCheckWithDependencies runs the check command with injected dependencies (for testing)
func RunCheckWithDependencies(ctx context.Context, verifier Verifier, ffmpegPath string, output OutputWriter) error {
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := verifier.VerifyInstalled(verifyCtx); err != nil {
		fmt.Fprintf(output, "ffmpeg check failed for %q\n", ffmpegPath)
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}

	fmt.Fprintf(output, "ffmpeg is available at %q\n", ffmpegPath)
	return nil
}
