// Package main provides a command-line skirmish simulator: it builds two
// small forces, runs rounds through the full phase pipeline until one side
// is out of the fight, and logs every event.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/Zycke/star-mercs/internal/config"
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/hexgrid"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/session"
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/game/unit"
	"github.com/Zycke/star-mercs/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	maxRounds := flag.Int("rounds", 20, "maximum rounds before calling it a draw")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ruleCfg := rules.Default()
	if cfg.Rules.OrdersDir != "" {
		orders, err := rules.LoadOrdersDirectory(cfg.Rules.OrdersDir)
		if err != nil {
			logger.Fatal("loading orders", zap.Error(err))
		}
		ruleCfg = rules.NewConfig(orders)
	}

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger.Named("dice"))
	sess := session.New(ruleCfg, hexgrid.NewMap(), roller, logger, session.NewLogNotifier(logger.Named("events")))

	red := buildForce(sess, "red", 0)
	blue := buildForce(sess, "blue", 6)
	targetAcross(red, blue)
	targetAcross(blue, red)

	winner := runBattle(sess, red, blue, *maxRounds, logger)
	logger.Info("battle over",
		zap.String("winner", winner),
		zap.Int("rounds", sess.Round()),
	)
}

// buildForce registers a three-unit force on one edge of the map.
func buildForce(sess *session.Session, team string, col int) []*unit.Unit {
	specs := []struct {
		name   string
		rating rules.Rating
		traits []trait.Trait
		weapon unit.Weapon
	}{
		{
			name:   team + "-rifles",
			rating: rules.Trained,
			traits: []trait.Trait{{ID: trait.Infantry, Active: true}},
			weapon: unit.Weapon{ID: "rifles", Name: "rifle section", AttackType: unit.AttackSoft, Damage: 2, Range: 4},
		},
		{
			name:   team + "-tanks",
			rating: rules.Experienced,
			traits: []trait.Trait{{ID: trait.Heavy, Active: true}, {ID: trait.Armored, Value: 1, Active: true}},
			weapon: unit.Weapon{ID: "cannon", Name: "main gun", AttackType: unit.AttackHard, Damage: 4, Range: 6},
		},
		{
			name:   team + "-command",
			rating: rules.Veteran,
			traits: []trait.Trait{{ID: trait.Command, Active: true}},
			weapon: unit.Weapon{ID: "support", Name: "support battery", AttackType: unit.AttackSoft, Damage: 3, Range: 8, Indirect: true},
		},
	}

	force := make([]*unit.Unit, 0, len(specs))
	for i, sp := range specs {
		u := unit.New(sp.name, team, sp.rating, 10)
		u.Supply = unit.SupplyState{Value: 30, Capacity: 30, Usage: 1}
		u.Comms = 3
		for _, t := range sp.traits {
			if err := u.Traits.Add(t); err != nil {
				log.Fatalf("building %s: %v", sp.name, err)
			}
		}
		w := sp.weapon
		u.Weapons = []*unit.Weapon{&w}
		if err := sess.AddUnit(u); err != nil {
			log.Fatalf("adding %s: %v", sp.name, err)
		}
		if err := sess.PlaceUnit(u.ID, hexgrid.Coord{Col: col, Row: i * 2}); err != nil {
			log.Fatalf("placing %s: %v", sp.name, err)
		}
		force = append(force, u)
	}
	return force
}

// targetAcross points each unit's weapon at the opposing unit in the same
// slot.
func targetAcross(force, enemy []*unit.Unit) {
	for i, u := range force {
		u.Weapons[0].TargetID = enemy[i%len(enemy)].ID
	}
}

// runBattle drives full rounds until one team has no units left in the
// fight. Every unit holds and fires each round; retargeting happens when a
// unit's victim drops out.
func runBattle(sess *session.Session, red, blue []*unit.Unit, maxRounds int, logger *zap.Logger) string {
	all := append(append([]*unit.Unit{}, red...), blue...)

	for sess.Round() <= maxRounds {
		sess.NextPhase() // orders
		for _, u := range all {
			if u.IsDestroyed() {
				continue
			}
			order := rules.OrderHold
			if u.Morale.Impaired() {
				order = rules.OrderWithdraw
			}
			if err := sess.SetOrder(u.ID, order); err != nil {
				logger.Warn("order refused", zap.String("unit", u.Name), zap.Error(err))
			}
		}

		sess.NextPhase() // tactical
		for _, u := range all {
			if u.IsDestroyed() || !sess.CanAttack(u) {
				continue
			}
			retarget(sess, u, all)
			if _, err := sess.RollAllAttacks(u.ID); err != nil {
				logger.Warn("volley refused", zap.String("unit", u.Name), zap.Error(err))
			}
		}

		sess.NextPhase() // consolidation
		sess.NextPhase() // next round

		switch {
		case fightingStrength(red) == 0 && fightingStrength(blue) == 0:
			return "nobody"
		case fightingStrength(blue) == 0:
			return "red"
		case fightingStrength(red) == 0:
			return "blue"
		}
	}
	return "draw"
}

// retarget points u's weapons at any living enemy if the current target is
// out of the fight.
func retarget(sess *session.Session, u *unit.Unit, all []*unit.Unit) {
	for _, w := range u.Weapons {
		if t, ok := sess.Unit(w.TargetID); ok && !t.IsDestroyed() {
			continue
		}
		for _, candidate := range all {
			if candidate.Team != u.Team && !candidate.IsDestroyed() {
				w.TargetID = candidate.ID
				break
			}
		}
	}
}

// fightingStrength counts a team's units still in play.
func fightingStrength(force []*unit.Unit) int {
	n := 0
	for _, u := range force {
		if !u.IsDestroyed() {
			n++
		}
	}
	return n
}
