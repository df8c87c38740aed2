// Package worldline parses inspect command flags and reports on a
// worldline database.
package worldline

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	entrypoint "github.com/louisbranch/worldline/internal/platform/cmd"
	"github.com/louisbranch/worldline/internal/storage/sqlite"
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/worldstate"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
	"github.com/louisbranch/worldline/internal/worldstate/replay"
)

// Config holds inspect command configuration.
type Config struct {
	DBPath string `env:"WORLDLINE_DB_PATH" envDefault:"worldline.db"`
	Branch string `env:"WORLDLINE_BRANCH" envDefault:"trunk"`

	Mode string
	Path string
	At   string
	From string
	To   string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the worldline SQLite database")
	fs.StringVar(&cfg.Branch, "branch", cfg.Branch, "branch to inspect")
	fs.StringVar(&cfg.Mode, "mode", "branches", "report: branches, value, delta, or paths")
	fs.StringVar(&cfg.Path, "path", "", "variable path as graph.entity.stat (value mode)")
	fs.StringVar(&cfg.At, "at", "0:0", "time point as turn:tick (value and paths modes)")
	fs.StringVar(&cfg.From, "from", "", "window start as turn:tick (delta mode)")
	fs.StringVar(&cfg.To, "to", "", "window end as turn:tick (delta mode)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run rebuilds the world from the database and prints the requested
// report to stdout.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWorldline, func(ctx context.Context) error {
		return Inspect(ctx, cfg, os.Stdout)
	})
}

// Inspect runs one report against the database.
func Inspect(ctx context.Context, cfg Config, out io.Writer) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	world, err := replay.Rebuild(ctx, store)
	if err != nil {
		return fmt.Errorf("rebuild world: %w", err)
	}

	switch cfg.Mode {
	case "branches":
		return reportBranches(world, out)
	case "value":
		return reportValue(world, cfg, out)
	case "delta":
		return reportDelta(world, cfg, out)
	case "paths":
		return reportPaths(world, cfg, out)
	default:
		return fmt.Errorf("unknown mode %q: want branches, value, delta, or paths", cfg.Mode)
	}
}

func reportBranches(world *worldstate.Store, out io.Writer) error {
	for _, b := range world.Branches() {
		if b.IsTrunk() {
			fmt.Fprintf(out, "%s\ttrunk\tend=%s\n", b.Name, b.End)
			continue
		}
		fmt.Fprintf(out, "%s\tfrom %s@%s\tend=%s\n", b.Name, b.Parent, b.Start, b.End)
	}
	return nil
}

func reportValue(world *worldstate.Store, cfg Config, out io.Writer) error {
	if cfg.Path == "" {
		return fmt.Errorf("value mode requires -path")
	}
	path, err := domain.ParsePath(cfg.Path)
	if err != nil {
		return err
	}
	at, err := timeline.ParseTime(cfg.At)
	if err != nil {
		return err
	}
	v, ok := world.GetValue(path, cfg.Branch, at)
	if !ok {
		fmt.Fprintf(out, "%s@%s %s: unset\n", cfg.Branch, at, path)
		return nil
	}
	fmt.Fprintf(out, "%s@%s %s: %v\n", cfg.Branch, at, path, v)
	return nil
}

func reportDelta(world *worldstate.Store, cfg Config, out io.Writer) error {
	if cfg.From == "" || cfg.To == "" {
		return fmt.Errorf("delta mode requires -from and -to")
	}
	from, err := timeline.ParseTime(cfg.From)
	if err != nil {
		return err
	}
	to, err := timeline.ParseTime(cfg.To)
	if err != nil {
		return err
	}
	delta, err := world.GetDelta(cfg.Branch, from, to)
	if err != nil {
		return err
	}
	for _, p := range sortedDeltaPaths(delta) {
		ch := delta[p]
		switch {
		case !ch.OldSet:
			fmt.Fprintf(out, "%s: unset -> %v\n", p, ch.New)
		case !ch.NewSet:
			fmt.Fprintf(out, "%s: %v -> unset\n", p, ch.Old)
		default:
			fmt.Fprintf(out, "%s: %v -> %v\n", p, ch.Old, ch.New)
		}
	}
	return nil
}

func reportPaths(world *worldstate.Store, cfg Config, out io.Writer) error {
	at, err := timeline.ParseTime(cfg.At)
	if err != nil {
		return err
	}
	for _, p := range world.PathsAt(cfg.Branch, at) {
		fmt.Fprintln(out, p)
	}
	return nil
}

func sortedDeltaPaths(delta domain.Delta) []domain.Path {
	out := make([]domain.Path, 0, len(delta))
	for p := range delta {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
