// Sigview Convert - CSV to binary transcoder for signal recordings
// This program converts a textual signal recording into the flat binary
// sample format, reporting percent progress and supporting cancellation
// with cleanup of the partial output file.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sigview/internal/config"
	"sigview/internal/converter"
	"sigview/internal/logging"
	"sigview/internal/signalfile"
	"sigview/internal/version"
	"sigview/internal/worker"

	"github.com/spf13/cobra"
)

var (
	progressEvery int    // Rows between progress notifications
	flushEvery    int    // Rows between durable flushes
	logLevel      string // Log level
	showVersion   bool   // Print version information and exit
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sigview-convert [source.csv] [target.bin]",
	Short: "Convert a CSV signal recording into the binary sample format",
	Long: `Sigview Convert transcodes a CSV signal recording (header row plus
adc1,adc2 integer columns) into a flat binary file of interleaved 16-bit
samples. The conversion runs in two passes: one to count the rows so the
target can be preallocated to exact size, and one to write them.

Interrupting the conversion (Ctrl+C) cancels it cooperatively; a partially
written target file is always removed.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("Sigview Convert"))
			return
		}
		if len(args) != 2 {
			fmt.Fprintf(os.Stderr, "Error: source and target paths required\n")
			cmd.Usage()
			os.Exit(1)
		}
		if err := runConvert(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().IntVar(&progressEvery, "progress-every", 50000, "rows between progress updates")
	rootCmd.Flags().IntVar(&flushEvery, "flush-every", 60*50000, "rows between durable flushes")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
}

func runConvert(source, target string) error {
	logger := logging.New(logLevel)

	cfg := config.ConverterConfig{
		ProgressEveryRows: progressEvery,
		FlushEveryRows:    flushEvery,
	}
	conv := converter.New(cfg, logger)

	// Ctrl+C requests cooperative cancellation; the converter observes it
	// at the next cadence point and removes the partial target.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nCancelling conversion...\n")
		conv.Cancel()
	}()

	logger.Info().Str("source", source).Str("target", target).Msg("starting conversion")

	w := worker.New()
	w.Start(func(tok *worker.Token, progress func(int)) (any, error) {
		completed, err := conv.Convert(source, target, progress)
		return completed, err
	})

	for {
		select {
		case p := <-w.Progress():
			fmt.Printf("\rConverting... %3d%%", p)
		case out := <-w.Done():
			fmt.Println()
			if out.Err != nil {
				return out.Err
			}
			if completed, _ := out.Value.(bool); !completed {
				fmt.Println("Conversion cancelled; no output file was left behind.")
				os.Exit(1)
			}

			info, err := os.Stat(target)
			if err != nil {
				return fmt.Errorf("conversion finished but target is unreadable: %w", err)
			}
			fmt.Printf("Conversion completed: %s (%d rows, %d bytes)\n",
				target, info.Size()/signalfile.BytesPerRow, info.Size())
			return nil
		}
	}
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
