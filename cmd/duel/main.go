// Package main provides the duel command: it builds two combatants from faction
// profiles and runs a single verbose duel or a batch simulation between them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("duel: %v", err)
	}
}

// optionalBool is a boolean flag that remembers whether it was set.
type optionalBool struct{ v *bool }

func (o *optionalBool) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatBool(*o.v)
}

func (o *optionalBool) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.v = &b
	return nil
}

func (o *optionalBool) IsBoolFlag() bool { return true }

// sideFlags holds the flags describing one combatant.
type sideFlags struct {
	faction, profile, name string
	weapon, armor          string
	shield                 optionalBool
	honors, rules          string
}

func (s *sideFlags) register(fs *flag.FlagSet, side string) {
	fs.StringVar(&s.faction, side+"-faction", "", "faction of combatant "+side)
	fs.StringVar(&s.profile, side+"-profile", "", "profile of combatant "+side)
	fs.StringVar(&s.name, side+"-name", "", "display name of combatant "+side+" (default: profile name)")
	fs.StringVar(&s.weapon, side+"-weapon", "", "weapon override")
	fs.StringVar(&s.armor, side+"-armor", "", `armor override ("none" for no armor)`)
	fs.Var(&s.shield, side+"-shield", "carry a shield")
	fs.StringVar(&s.honors, side+"-honors", "", "comma-separated elven honors")
	fs.StringVar(&s.rules, side+"-rules", "", "comma-separated extra special rules")
}

func (s *sideFlags) request() character.Request {
	return character.Request{
		Name:    s.name,
		Faction: s.faction,
		Profile: s.profile,
		Weapon:  s.weapon,
		Armor:   s.armor,
		Shield:  s.shield.v,
		Honors:  splitList(s.honors),
		Rules:   splitList(s.rules),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func run(args []string, stdout io.Writer) error {
	start := time.Now()

	fs := flag.NewFlagSet("duel", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	rounds := fs.Int("rounds", 0, "round budget per duel (default: simulation.rounds)")
	iterations := fs.Int("iterations", 0, "number of duels; 1 prints a round-by-round report (default: simulation.iterations)")
	seed := fs.Uint64("seed", 0, "dice seed for reproducible runs (default: simulation.seed)")
	list := fs.Bool("list", false, "list the available profiles and exit")
	var a, b sideFlags
	a.register(fs, "a")
	b.register(fs, "b")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *rounds > 0 {
		cfg.Simulation.Rounds = *rounds
	}
	if *iterations > 0 {
		cfg.Simulation.Iterations = *iterations
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, warnings, err := inventory.LoadRegistry(cfg.Content.WeaponsDir, cfg.Content.ArmorDir)
	if err != nil {
		return fmt.Errorf("loading catalogs: %w", err)
	}
	observability.LogWarnings(logger, "weapons", warnings)

	builder, warnings, err := character.LoadBuilder(reg, cfg.Content.ProfilesDir, cfg.Content.HonorsDir)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}
	observability.LogWarnings(logger, "profiles", warnings)
	logger.Info("content loaded",
		zap.Int("weapons", len(reg.AllWeapons())),
		zap.Int("armor", len(reg.AllArmors())),
		zap.Int("profiles", len(builder.Profiles())),
		zap.Duration("elapsed", time.Since(start)),
	)

	if *list {
		printProfiles(stdout, builder.Profiles())
		return nil
	}

	ca, err := build(builder, a, logger)
	if err != nil {
		return err
	}
	cb, err := build(builder, b, logger)
	if err != nil {
		return err
	}

	roller := dice.NewLoggedRoller(dice.SourceFor(cfg.Simulation.Seed), logger)
	if cfg.Simulation.Iterations == 1 {
		res := combat.NewSession(ca, cb, reg, roller, logger).Run(cfg.Simulation.Rounds)
		printResult(stdout, ca, cb, res)
		return nil
	}
	sum := combat.NewSimulator(reg, roller, logger).Run(ca, cb, cfg.Simulation.Rounds, cfg.Simulation.Iterations)
	printSummary(stdout, sum)
	return nil
}

func build(b *character.Builder, side sideFlags, logger *zap.Logger) (*combat.Combatant, error) {
	c, warnings, err := b.Build(side.request())
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", side.faction, side.profile, err)
	}
	observability.LogWarnings(logger, "request", warnings)
	return c, nil
}
