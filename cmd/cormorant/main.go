package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/cormorant-chess/cormorant/engine"
	"github.com/cormorant-chess/cormorant/server"
	"github.com/cormorant-chess/cormorant/tuner"
	"github.com/cormorant-chess/cormorant/uci"
)

var VersionString = "0.1 " + runtime.GOOS + "-" + runtime.GOARCH

var (
	configPath string

	benchFen     string
	benchDepth   int
	benchProfile bool

	tuneEpochs  int
	tuneRate    float64
	tuneWorkers int
)

var rootCmd = &cobra.Command{
	Use:   "cormorant",
	Short: "Cormorant chess engine",
	Long:  "Cormorant is a chess engine with an iterative-deepening alpha-beta search core,\nspeaking UCI on stdin/stdout by default.",
	Run:   runUCI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	uciCmd := &cobra.Command{
		Use:   "uci",
		Short: "Run the UCI protocol loop (the default)",
		Run:   runUCI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis server",
		Run:   runServe,
	}
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to an env-style config file")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a fixed-depth search and print node statistics",
		Run:   runBench,
	}
	benchCmd.Flags().StringVar(&benchFen, "fen", dragon.Startpos, "position to search")
	benchCmd.Flags().IntVar(&benchDepth, "depth", 8, "search depth")
	benchCmd.Flags().BoolVar(&benchProfile, "profile", false, "write a CPU profile to the current directory")

	tuneCmd := &cobra.Command{
		Use:   "tune <corpus>",
		Short: "Fit piece values to a corpus of labelled positions",
		Args:  cobra.ExactArgs(1),
		Run:   runTune,
	}
	tuneCmd.Flags().IntVar(&tuneEpochs, "epochs", 200, "gradient descent epochs")
	tuneCmd.Flags().Float64Var(&tuneRate, "rate", 10, "gradient descent learning rate")
	tuneCmd.Flags().IntVar(&tuneWorkers, "workers", runtime.NumCPU(), "parallel workers")

	rootCmd.AddCommand(uciCmd, serveCmd, benchCmd, tuneCmd)
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func runUCI(cmd *cobra.Command, args []string) {
	uci.Run(os.Stdin, os.Stdout, "Cormorant", VersionString)
}

func runServe(cmd *cobra.Command, args []string) {
	log := newLogger()

	cfg := server.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = server.LoadConfig(configPath)
		if err != nil {
			log.Fatalw("failed to load config", "path", configPath, "error", err)
		}
	}

	if err := server.New(cfg, log).ListenAndServe(); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}

func runBench(cmd *cobra.Command, args []string) {
	if benchProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	board := dragon.ParseFen(benchFen)
	search := engine.NewSearch(&board)
	search.DepthLimit = benchDepth

	start := time.Now()
	move, eval, err := search.Search(0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	stats := search.Stats()
	nps := float64(stats.Nodes) / elapsed.Seconds()
	fmt.Printf("bestmove %s eval %+.2f depth %d nodes %d time %v nps %.0f\n",
		move.String(), float64(eval)/100, benchDepth, stats.Nodes, elapsed.Round(time.Millisecond), nps)
	stats.Dump()
}

func runTune(cmd *cobra.Command, args []string) {
	log := newLogger()

	corpus, err := os.Open(args[0])
	if err != nil {
		log.Fatalw("failed to open corpus", "path", args[0], "error", err)
	}
	defer corpus.Close()

	tn := tuner.New(log, tuneWorkers)
	samples, err := tn.LoadSamples(corpus)
	if err != nil {
		log.Fatalw("failed to load corpus", "error", err)
	}

	params, err := tn.Tune(samples, tuneEpochs, tuneRate)
	if err != nil {
		log.Fatalw("tuning failed", "error", err)
	}

	fmt.Printf("pawn %.1f knight %.1f bishop %.1f rook %.1f queen %.1f\n",
		params[0], params[1], params[2], params[3], params[4])
}
