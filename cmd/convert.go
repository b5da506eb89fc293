package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appclient "anime-ringtone/application/client"
	"anime-ringtone/domain/conversion"
	"anime-ringtone/infrastructure/apiclient"

	"github.com/spf13/cobra"
)

var (
	convertServer  string
	convertURL     string
	convertOutput  string
	convertTimeout time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a video URL using a running server",
	Long: `Submit a YouTube URL to a running anime-ringtone server and print each
state the conversion goes through. With --output the finished clip is
downloaded to that file.

Example:
  anime-ringtone convert --url "https://youtu.be/dQw4w9WgXcQ"
  anime-ringtone convert --server http://localhost:3000 --url "https://youtu.be/dQw4w9WgXcQ" --output intro.mp3`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertServer, "server", "", "Server base URL (default from config listen port on localhost)")
	convertCmd.Flags().StringVar(&convertURL, "url", "", "YouTube URL to convert (required)")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "File to save the clip to (optional)")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 5*time.Minute, "Request timeout")
	convertCmd.MarkFlagRequired("url")
}

func runConvert(cmd *cobra.Command, args []string) error {
	server := convertServer
	if server == "" {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		server = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	client, err := apiclient.New(server, convertTimeout)
	if err != nil {
		return err
	}

	return RunConvertWithDependencies(cmd.Context(), client, convertURL, convertOutput, os.Stdout)
}

// ConvertClient is the server API used by the convert command
type ConvertClient interface {
	appclient.ConvertAPI
	Download(ctx context.Context, previewURL string, w io.Writer) (int64, error)
}

// RunConvertWithDependencies runs the convert command with injected dependencies (for testing).
// The clip is downloaded to outputPath only when it is set; the file is created after the
// conversion succeeds and removed if the download fails.
func RunConvertWithDependencies(
	ctx context.Context,
	client ConvertClient,
	sourceURL string,
	outputPath string,
	output OutputWriter,
) error {
	converter := appclient.NewConverter(client, func(s conversion.State) {
		fmt.Fprintf(output, "[%s] %s  %s\n", s.Status, s.Title, s.URL)
	})

	state, err := converter.Convert(ctx, sourceURL)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if outputPath == "" {
		return nil
	}

	n, err := downloadTo(ctx, client, state.URL, outputPath)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	fmt.Fprintf(output, "Saved %d bytes to %s\n", n, outputPath)
	return nil
}

func downloadTo(ctx context.Context, client ConvertClient, previewURL, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := client.Download(ctx, previewURL, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}
