// Sigview - streaming viewer for sensor signal recordings
// This program streams a CSV or binary sample file through a sliding
// window and renders each window as an ASCII chart in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sigview/internal/analyzer"
	"sigview/internal/config"
	"sigview/internal/logging"
	"sigview/internal/render"
	"sigview/internal/version"
	"sigview/internal/worker"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flag variables
var (
	cfgFile     string  // Configuration file path
	windowSize  int     // Samples per displayed window
	chunkSize   int     // Samples ingested per iteration
	downsample  int     // Keep every Nth point for display
	divisor     float64 // Sample-rate divisor for the x axis
	channel     int     // Displayed channel (1 or 2)
	logLevel    string  // Log level
	graphWidth  int     // Chart width in characters
	graphHeight int     // Chart height in lines
	showVersion bool    // Print version information and exit
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sigview [file.csv|file.bin]",
	Short: "Stream a signal recording as scrolling terminal charts",
	Long: `Sigview streams a sensor signal recording (CSV or flat binary 16-bit
samples) through a fixed-length sliding window and draws each window as an
ASCII chart. The file is replayed continuously until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("Sigview"))
			return
		}
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Error: signal file required\n")
			cmd.Usage()
			os.Exit(1)
		}
		if err := runViewer(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// init initializes the CLI flags and configuration
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config.yaml", "config file (default is ./config.yaml)")

	rootCmd.Flags().IntVarP(&windowSize, "window", "w", 500000, "window size in samples")
	rootCmd.Flags().IntVar(&chunkSize, "chunk", 50000, "chunk size in samples")
	rootCmd.Flags().IntVarP(&downsample, "downsample", "d", 100, "keep every Nth point for display")
	rootCmd.Flags().Float64Var(&divisor, "divisor", 50000, "sample-rate divisor for the x axis")
	rootCmd.Flags().IntVar(&channel, "channel", 1, "displayed channel: 1 (adc1) or 2 (adc2)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&graphWidth, "graph-width", 100, "width of the ASCII chart in characters")
	rootCmd.Flags().IntVar(&graphHeight, "graph-height", 20, "height of the ASCII chart in lines")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("signal.window_size", rootCmd.Flags().Lookup("window"))
	viper.BindPFlag("signal.chunk_size", rootCmd.Flags().Lookup("chunk"))
	viper.BindPFlag("signal.downsample_stride", rootCmd.Flags().Lookup("downsample"))
	viper.BindPFlag("signal.sample_rate_divisor", rootCmd.Flags().Lookup("divisor"))
	viper.BindPFlag("signal.channel", rootCmd.Flags().Lookup("channel"))
	viper.BindPFlag("logging.level", rootCmd.Flags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	// A .env file is optional; viper picks the variables up below.
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// runViewer is the main application logic
func runViewer(path string) error {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Signal.Channel != 1 && cfg.Signal.Channel != 2 {
		return fmt.Errorf("invalid channel %d (must be 1 or 2)", cfg.Signal.Channel)
	}

	logger := logging.New(cfg.Logging.Level)
	logger.Info().
		Str("path", path).
		Int("window", cfg.Signal.WindowSize).
		Int("chunk", cfg.Signal.ChunkSize).
		Msg("starting streaming viewer")

	// The terminal chart is the render surface; the queue puts it behind
	// a blocking handoff so the streaming goroutine is throttled to
	// rendering speed.
	terminal := render.NewTerminal(os.Stdout, graphWidth, graphHeight)
	queue := render.NewQueue(terminal)
	a := analyzer.New(cfg.Signal, queue, logger)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("received interrupt signal, stopping after the current window")
		a.Stop()
	}()

	w := worker.New()
	w.Start(func(tok *worker.Token, progress func(int)) (any, error) {
		return nil, a.Run(path)
	})

	// Consume renders on this goroutine until the streaming task ends.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan worker.Outcome, 1)
	go func() {
		out := <-w.Done()
		done <- out
		cancel()
	}()

	queue.Run(ctx)

	if out := <-done; out.Err != nil {
		return out.Err
	}
	logger.Info().Msg("streaming finished")
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
