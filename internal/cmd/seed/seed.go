// Package seed parses seed command flags and writes a demo world into
// a worldline database.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/louisbranch/worldline/internal/platform/cmd"
	"github.com/louisbranch/worldline/internal/storage/sqlite"
	"github.com/louisbranch/worldline/internal/telemetry"
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"WORLDLINE_DB_PATH" envDefault:"worldline.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the worldline SQLite database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the demo world.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return Seed(ctx, cfg)
	})
}

// Seed writes a small branched world: a trunk where alice wakes up and
// moves, a keyframe partway through, a what-if branch diverging before
// the wake-up, and one historical edit demonstrating invalidation.
func Seed(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	rec := NewRecorder(store)

	awake := domain.StatPath("physical", "alice", "awake")
	location := domain.StatPath("physical", "alice", "location")
	weather := domain.GraphStatPath("physical", "weather")

	if err := rec.NewBranch(ctx, "trunk", "", timeline.Time{}); err != nil {
		return err
	}
	type write struct {
		path  domain.Path
		at    timeline.Time
		value domain.Value
	}
	for _, w := range []write{
		{awake, timeline.At(0, 0), false},
		{location, timeline.At(0, 0), "home"},
		{weather, timeline.At(0, 0), "clear"},
		{awake, timeline.At(8, 0), true},
		{location, timeline.At(9, 0), "market"},
		{weather, timeline.At(10, 0), "rain"},
	} {
		if err := rec.SetFact(ctx, domain.Fact{Path: w.path, Branch: "trunk", At: w.at, Value: w.value}); err != nil {
			return err
		}
	}
	if err := rec.TakeKeyframe(ctx, "trunk", timeline.At(4, 0)); err != nil {
		return err
	}

	if err := rec.NewBranch(ctx, "what-if", "trunk", timeline.At(5, 0)); err != nil {
		return err
	}
	if err := rec.SetFact(ctx, domain.Fact{Path: awake, Branch: "what-if", At: timeline.At(6, 0), Value: true}); err != nil {
		return err
	}
	if err := rec.SetFact(ctx, domain.Fact{Path: location, Branch: "what-if", At: timeline.At(7, 0), Value: "forest"}); err != nil {
		return err
	}

	// Historical edit: the weather turned earlier than first recorded.
	if err := rec.SetFact(ctx, domain.Fact{Path: weather, Branch: "trunk", At: timeline.At(6, 0), Value: "overcast"}); err != nil {
		return err
	}

	emitter := telemetry.NewEmitter(store)
	if err := emitter.Emit(ctx, rec.seededEvent()); err != nil {
		return fmt.Errorf("emit seeded event: %w", err)
	}
	log.Printf("seeded %s: %d facts across %d branches", cfg.DBPath, rec.factCount, rec.branchCount)
	return nil
}
