// dominosim runs the cascade without a window and inspects recorded runs.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/app"
	"github.com/Faultbox/domino-cascade/internal/config"
	"github.com/Faultbox/domino-cascade/internal/logger"
	"github.com/Faultbox/domino-cascade/internal/physics/rigid"
	"github.com/Faultbox/domino-cascade/internal/runlog"
)

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "run":
		cmdRun(cfg)
	case "runs", "ls":
		cmdRuns(cfg, args)
	case "show":
		cmdShow(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dominosim - headless domino cascade runner

Usage:
  dominosim [flags] <command> [options]

Commands:
  run                 Launch the ball and simulate --frames frames
  runs [limit]        List recorded runs, newest first
  show <run-id>       Show the falls of a recorded run

Flags:
  --config <file>     Config file
  --frames <n>        Frames to simulate
  --db <file>         Run log database ("-" disables recording)
  --debug             Debug logging

Examples:
  dominosim --frames 3600 run
  dominosim runs 5
  dominosim show 12`)
}

func openStore(cfg *config.Config) *runlog.Store {
	store, err := runlog.Open(cfg.Storage.RunDB, logger.Named("runlog"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}

func cmdRun(cfg *config.Config) {
	var store *runlog.Store
	if cfg.Storage.Enabled {
		store = openStore(cfg)
		defer store.Close()
	}

	world := rigid.NewWorld(rigid.DefaultConfig())
	sum, err := app.Simulate(world, cfg.Sim(), cfg.Simulation.Frames, store, logger.Log)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Frames:  %d\n", sum.Frames)
	fmt.Printf("Bodies:  %d\n", sum.Bodies)
	fmt.Printf("Fallen:  %d (%.1f%%)\n", sum.Fallen, percent(sum.Fallen, sum.Bodies))
	fmt.Printf("Elapsed: %s\n", sum.Elapsed.Round(time.Millisecond))
	if sum.RunID != 0 {
		fmt.Printf("Run:     %d\n", sum.RunID)
	}
}

func cmdRuns(cfg *config.Config, args []string) {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid limit: %s\n", args[0])
			os.Exit(1)
		}
		limit = n
	}

	store := openStore(cfg)
	defer store.Close()

	runs, err := store.Runs(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return
	}

	fmt.Printf("%-6s %-9s %-20s %8s %8s %8s %10s\n", "ID", "MODE", "STARTED", "FRAMES", "BODIES", "FALLEN", "DURATION")
	for _, r := range runs {
		fmt.Printf("%-6d %-9s %-20s %8d %8d %8d %10s\n",
			r.ID, r.Mode, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Frames, r.Bodies, r.Fallen, r.Duration().Round(time.Millisecond))
	}
}

func cmdShow(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dominosim show <run-id>")
		os.Exit(1)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid run id: %s\n", args[0])
		os.Exit(1)
	}

	store := openStore(cfg)
	defer store.Close()

	run, err := store.Run(uint(id))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	counts, err := store.BranchCounts(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run %d (%s)\n", run.ID, run.Mode)
	fmt.Printf("Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Frames:  %d\n", run.Frames)
	fmt.Printf("Fallen:  %d of %d\n", run.Fallen, run.Bodies)

	branches := make([]string, 0, len(counts))
	for b := range counts {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	fmt.Println("\nBy branch:")
	for _, b := range branches {
		fmt.Printf("  %-10s %d\n", b, counts[b])
	}

	fmt.Println("\nFalls:")
	fmt.Printf("  %-6s %-6s %-7s %-8s %-10s %s\n", "FRAME", "BODY", "KIND", "BRANCH", "SEGMENT", "POSITION")
	for _, f := range run.Falls {
		fmt.Printf("  %-6d %-6d %-7s %-8s %-10s (%.2f, %.2f, %.2f)\n",
			f.Frame, f.BodyIndex, f.Kind, f.Branch, f.Segment, f.X, f.Y, f.Z)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
