package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rmoravec/llean/internal/config"
	"github.com/rmoravec/llean/internal/game"
	"github.com/rmoravec/llean/internal/lockfile"
	"github.com/rmoravec/llean/internal/logger"
	"github.com/rmoravec/llean/internal/search"
	"github.com/rmoravec/llean/internal/watch"
)

const usage = `usage: llean <command> [flags]

commands:
  tactics            list tactic introductions across all levels
  level <path>       parse one level and print its playing context
  search <path>      run a bounded depth-first proof search for a level
  watch              re-list tactic introductions when level files change

common flags:
  -game <path>       game checkout root (default: $NNG_PATH)
  -log <level>       debug|info|warn|error
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "tactics":
		err = cmdTactics(os.Args[2:])
	case "level":
		err = cmdLevel(os.Args[2:])
	case "search":
		err = cmdSearch(os.Args[2:])
	case "watch":
		err = cmdWatch(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "llean: %v\n", err)
		os.Exit(1)
	}
}

func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	gamePath := fs.String("game", "", "game checkout root (default: $NNG_PATH)")
	logLevel := fs.String("log", "", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Load()
	if *gamePath != "" {
		cfg.SetGamePath(*gamePath)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logger.Init(logCfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cmdTactics(args []string) error {
	fs := flag.NewFlagSet("tactics", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	return printIntroductions(cfg)
}

func printIntroductions(cfg *config.Config) error {
	walker := game.Introductions(cfg)
	world := ""
	for intro, err := range walker.Introductions() {
		if err != nil {
			return err
		}
		if intro.World != world {
			world = intro.World
			fmt.Printf("World: %s\n", world)
		}
		fmt.Printf("  Level %d", intro.Level)
		if len(intro.NewTactics) > 0 {
			fmt.Printf("  new: %v", intro.NewTactics)
		}
		if len(intro.NewHidden) > 0 {
			fmt.Printf("  hidden: %v", intro.NewHidden)
		}
		fmt.Println()
	}
	return nil
}

func cmdLevel(args []string) error {
	fs := flag.NewFlagSet("level", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit JSON")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("level: expected one level file path")
	}

	agg, err := game.Collect(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(agg)
	}

	meta := agg.Target
	fmt.Printf("module:    %s\n", meta.Module)
	fmt.Printf("namespace: %s\n", meta.Namespace)
	fmt.Printf("goal:      %s\n", meta.Goal)
	fmt.Println("tactics:")
	for _, doc := range agg.Tactics {
		marker := " "
		if doc.Hidden {
			marker = "*"
		}
		fmt.Printf("  %s %-14s introduced at %s level %d\n", marker, doc.Name, doc.World, doc.Level)
	}
	if len(agg.Lemmas) > 0 {
		fmt.Printf("lemmas: %v\n", agg.Lemmas)
	}
	return nil
}

func cmdSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	maxDepth := fs.Int("depth", 6, "maximum tactic sequence length")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("search: expected one level file path")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// First bootstrap against a fresh checkout may build the game; hold
	// the lock so concurrent invocations do not race the build.
	lock := lockfile.New(cfg.LockPath)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	lvl, err := game.LoadLevel(ctx, cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	defer lvl.Session.Close()

	resp, err := lvl.Session.StateGoal(ctx, lvl.Target.Goal)
	if err != nil {
		return err
	}
	if len(resp.Sorries) == 0 || resp.Sorries[0].ProofState == nil {
		return fmt.Errorf("search: no proof state for goal %q", lvl.Target.Goal)
	}

	available := make([]string, len(lvl.Tactics))
	for i, doc := range lvl.Tactics {
		available[i] = doc.Name
	}

	solutions, err := search.DepthFirst(ctx, lvl.Session, *resp.Sorries[0].ProofState,
		available, lvl.Lemmas, search.Options{MaxDepth: *maxDepth})
	if err != nil {
		return err
	}
	if len(solutions) == 0 {
		fmt.Println("no solution found")
		return nil
	}
	for _, seq := range solutions {
		fmt.Printf("solution: %v\n", seq)
	}
	return nil
}

func cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	window := fs.Duration("window", 300*time.Millisecond, "debounce window")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}

	if err := printIntroductions(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	watcher, err := watch.New(cfg.GamePath, cfg.IgnorePatterns, *window, func(paths []string) {
		fmt.Printf("\n%d file(s) changed, re-listing\n", len(paths))
		if err := printIntroductions(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "llean: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
