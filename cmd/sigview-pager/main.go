// Sigview Pager - random-access window inspector for binary signal files
// This program pages through a binary sample file one window at a time,
// drawing each window as an ASCII chart. Ranges past the end of the file
// render as gaps rather than failing.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"sigview/internal/analyzer"
	"sigview/internal/config"
	"sigview/internal/logging"
	"sigview/internal/render"
	"sigview/internal/version"

	"github.com/spf13/cobra"
)

var (
	startRow    int64   // Absolute sample offset of the first window
	windowSize  int     // Samples per window
	downsample  int     // Keep every Nth point for display
	divisor     float64 // Sample-rate divisor for the x axis
	channel     int     // Displayed channel (1 or 2)
	logLevel    string  // Log level
	graphWidth  int     // Chart width in characters
	graphHeight int     // Chart height in lines
	showVersion bool    // Print version information and exit
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sigview-pager [file.bin]",
	Short: "Page through a binary signal recording window by window",
	Long: `Sigview Pager provides random access to a binary signal recording.
It loads one fixed-length window at a time and steps forwards or backwards
through the file interactively:

  n    next window
  p    previous window
  r    redraw the current window
  q    quit

CSV recordings cannot be paged; convert them with sigview-convert first.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("Sigview Pager"))
			return
		}
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Error: signal file required\n")
			cmd.Usage()
			os.Exit(1)
		}
		if err := runPager(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().Int64Var(&startRow, "start", 0, "absolute sample offset of the first window")
	rootCmd.Flags().IntVarP(&windowSize, "window", "w", 500000, "window size in samples")
	rootCmd.Flags().IntVarP(&downsample, "downsample", "d", 100, "keep every Nth point for display")
	rootCmd.Flags().Float64Var(&divisor, "divisor", 50000, "sample-rate divisor for the x axis")
	rootCmd.Flags().IntVar(&channel, "channel", 1, "displayed channel: 1 (adc1) or 2 (adc2)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&graphWidth, "graph-width", 100, "width of the ASCII chart in characters")
	rootCmd.Flags().IntVar(&graphHeight, "graph-height", 20, "height of the ASCII chart in lines")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
}

func runPager(path string) error {
	logger := logging.New(logLevel)

	cfg := config.SignalConfig{
		WindowSize:        windowSize,
		DownsampleStride:  downsample,
		SampleRateDivisor: divisor,
		Channel:           channel,
	}
	if cfg.Channel != 1 && cfg.Channel != 2 {
		return fmt.Errorf("invalid channel %d (must be 1 or 2)", cfg.Channel)
	}
	if startRow < 0 {
		return fmt.Errorf("invalid start offset %d", startRow)
	}

	// Everything runs on this goroutine, so the terminal is already a
	// blocking surface; no cross-goroutine queue is needed here.
	terminal := render.NewTerminal(os.Stdout, graphWidth, graphHeight)
	pager, err := analyzer.NewPager(path, cfg, terminal, logger)
	if err != nil {
		return err
	}
	defer pager.Close()

	if err := pager.LoadWindow(startRow, startRow+int64(windowSize)); err != nil {
		return err
	}
	printPrompt(pager)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "n":
			err = pager.NextWindow()
		case "p":
			err = pager.PreviousWindow()
		case "r":
			err = pager.CurrentWindow()
		case "q":
			return nil
		case "":
			printPrompt(pager)
			continue
		default:
			fmt.Println("commands: n (next), p (previous), r (redraw), q (quit)")
			continue
		}
		if err != nil {
			return err
		}
		printPrompt(pager)
	}
	return scanner.Err()
}

func printPrompt(pager *analyzer.Pager) {
	marks := ""
	if pager.HasPreviousWindow() {
		marks += "p"
	}
	if pager.HasNextWindow() {
		marks += "n"
	}
	if marks == "" {
		marks = "-"
	}
	fmt.Printf("[offset %d, available: %s] > ", pager.Cursor(), marks)
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
