package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Shadow-Sense/internal/config"
	"github.com/Garsondee/Shadow-Sense/internal/game"
	"github.com/Garsondee/Shadow-Sense/internal/logger"
	"github.com/Garsondee/Shadow-Sense/levels"
)

// catchDistance is how close an enemy centre must get to the target centre
// to count as a catch.
const catchDistance = 26.0

type runStats struct {
	runID    string
	runIndex int
	seed     int64

	firstSpotTick   int
	firstLostTick   int
	lastLostTick    int
	firstCaughtTick int

	spotted      int
	lost         int
	searchPoints int
	unreachable  int
	arrivals     int
	blockers     int

	chaseTicks int // enemy-ticks spent chasing
	enemyTicks int
	closest    float64
	spotters   map[string]struct{}
	perEnemy   []enemyStats
}

type enemyStats struct {
	label   string
	spotted int
	points  int
}

type options struct {
	runs     int
	ticks    int
	seedBase int64
	seedStep int64
	scenario string
	level    string
	workers  int
	cfg      config.Config
}

var scenarios = map[string]bool{"static": true, "hide": true, "smoke": true}

func main() {
	var o options
	var cfgPath string

	flag.IntVar(&o.runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&o.ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&o.scenario, "scenario", "hide", "scenario name (static, hide, smoke)")
	flag.StringVar(&o.level, "level", "", "embedded level name or level file (default from config)")
	flag.IntVar(&o.workers, "workers", 0, "worker goroutines (0 = config / GOMAXPROCS)")
	flag.StringVar(&cfgPath, "config", "", "YAML tuning file")
	flag.Parse()

	log := logger.Component("headless")
	cfg, err := config.LoadEnv(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.WithError(err).Fatal("log level")
	}
	o.cfg = cfg
	if o.level == "" {
		o.level = cfg.Grid.Level
	}
	if o.workers == 0 {
		o.workers = cfg.Sim.Workers
	}

	if err := o.validate(); err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}
	text, err := levels.Text(o.level)
	if err != nil {
		log.WithError(err).Fatal("level")
	}

	fmt.Printf("=== Headless Stealth Report ===\n")
	fmt.Printf("scenario=%s level=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		o.scenario, o.level, o.runs, o.ticks, o.seedBase, o.seedStep)

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		rs, err := runScenario(o, text, i+1, seed)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"run": i + 1, "seed": seed}).Fatal("run failed")
		}
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
}

func (o options) validate() error {
	switch {
	case o.runs <= 0:
		return fmt.Errorf("-runs must be > 0")
	case o.ticks <= 0:
		return fmt.Errorf("-ticks must be > 0")
	case !scenarios[o.scenario]:
		return fmt.Errorf("unsupported scenario %q (supported: %s)", o.scenario, scenarioNames())
	}
	return nil
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// runScenario plays one seeded run. "static" leaves the target on its spawn,
// "hide" teleports it to a random open cell every ten seconds, and "smoke"
// does the same but drops a smoke cloud on each spot.
func runScenario(o options, levelText string, runIndex int, seed int64) (runStats, error) {
	opts := []game.SimOption{
		game.WithLevel(levelText),
		game.WithTileSize(o.cfg.Grid.TileSize),
		game.WithSeed(seed),
		game.WithTuning(func(t *game.Tuning) { *t = o.cfg.Tuning() }),
		game.WithLevelSpawns(),
	}
	if o.workers > 0 {
		opts = append(opts, game.WithWorkers(o.workers))
	}
	ts, err := game.NewTestSim(opts...)
	if err != nil {
		return runStats{}, err
	}
	ts.DT = o.cfg.TickDT()

	rng := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- simulation only
	open := openCells(ts.Grid)
	hideEvery := max(1, int(10/ts.DT))

	rs := runStats{
		runID:           uuid.NewString(),
		runIndex:        runIndex,
		seed:            seed,
		firstCaughtTick: -1,
		closest:         math.Inf(1),
		spotters:        map[string]struct{}{},
	}

	spottedSoFar := 0
	for tick := 1; tick <= o.ticks; tick++ {
		if o.scenario != "static" && tick%hideEvery == 0 && len(open) > 0 {
			ts.MoveTarget(ts.Grid.GridToWorld(open[rng.Intn(len(open))]))
		}
		if err := ts.RunTicks(1); err != nil {
			return rs, err
		}
		if o.scenario == "smoke" && ts.World.Target != nil {
			if n := ts.SimLog.CountCategory("perception", "spotted"); n > spottedSoFar {
				spottedSoFar = n
				ts.World.AddBlocker(ts.World.Target.Pos, 4)
			}
		}
		sampleTick(&rs, ts)
	}

	entries := ts.SimLog.Entries()
	for _, e := range ts.SimLog.Filter("perception", "spotted") {
		rs.spotters[e.Agent] = struct{}{}
	}
	rs.firstSpotTick = firstTick(entries, "perception", "spotted")
	rs.firstLostTick = firstTick(entries, "perception", "lost")
	rs.lastLostTick = -1
	if e, ok := ts.SimLog.LastOf("perception", "lost"); ok {
		rs.lastLostTick = e.Tick
	}
	for i := range ts.World.Enemies {
		rs.perEnemy = append(rs.perEnemy, enemyBreakdown(ts.SimLog, ts.World.Enemies[i].Label()))
	}
	rs.spotted = ts.SimLog.CountCategory("perception", "spotted")
	rs.lost = ts.SimLog.CountCategory("perception", "lost")
	rs.searchPoints = ts.SimLog.CountCategory("search", "new_point")
	rs.unreachable = ts.SimLog.CountCategory("move", "unreachable")
	rs.arrivals = ts.SimLog.CountCategory("move", "arrived")
	rs.blockers = ts.SimLog.CountCategory("blocker", "added")
	return rs, nil
}

func enemyBreakdown(sl *game.SimLog, label string) enemyStats {
	es := enemyStats{label: label}
	for _, e := range sl.FilterAgent(label) {
		switch {
		case e.Category == "perception" && e.Key == "spotted":
			es.spotted++
		case e.Category == "search" && e.Key == "new_point":
			es.points++
		}
	}
	return es
}

func sampleTick(rs *runStats, ts *game.TestSim) {
	w := ts.World
	for i := range w.Enemies {
		e := &w.Enemies[i]
		rs.enemyTicks++
		if e.Mode() == game.ModeChasing {
			rs.chaseTicks++
		}
		if w.Target == nil {
			continue
		}
		d := e.Pos.Dist(w.Target.Pos)
		rs.closest = math.Min(rs.closest, d)
		if d <= catchDistance && rs.firstCaughtTick < 0 {
			rs.firstCaughtTick = w.Tick
		}
	}
}

// openCells lists every walkable cell, the candidate hiding spots.
func openCells(g *game.GridMap) []game.GridPos {
	var out []game.GridPos
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if p := (game.GridPos{X: x, Y: y}); g.Walkable(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func firstTick(entries []game.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func chaseShare(rs runStats) float64 {
	if rs.enemyTicks == 0 {
		return 0
	}
	return float64(rs.chaseTicks) / float64(rs.enemyTicks) * 100
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Printf("phase_markers: first_spot=%d first_lost=%d last_lost=%d first_caught=%d\n",
		rs.firstSpotTick, rs.firstLostTick, rs.lastLostTick, rs.firstCaughtTick)
	fmt.Printf("event_totals: spotted=%d lost=%d search_points=%d unreachable=%d arrived=%d smoke=%d\n",
		rs.spotted, rs.lost, rs.searchPoints, rs.unreachable, rs.arrivals, rs.blockers)
	fmt.Printf("pressure: chase_share=%.1f%% closest=%s\n", chaseShare(rs), distString(rs.closest))
	fmt.Printf("spotters: %s\n", joinSet(rs.spotters))
	for _, es := range rs.perEnemy {
		fmt.Printf("  %s: spotted=%d search_points=%d\n", es.label, es.spotted, es.points)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalSpotted := 0
	totalLost := 0
	totalSearch := 0
	totalUnreachable := 0
	caught := 0
	chase := 0.0

	spotTicks := make([]int, 0, len(all))
	caughtTicks := make([]int, 0, len(all))
	spottersGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalSpotted += rs.spotted
		totalLost += rs.lost
		totalSearch += rs.searchPoints
		totalUnreachable += rs.unreachable
		chase += chaseShare(rs)
		if rs.firstSpotTick >= 0 {
			spotTicks = append(spotTicks, rs.firstSpotTick)
		}
		if rs.firstCaughtTick >= 0 {
			caught++
			caughtTicks = append(caughtTicks, rs.firstCaughtTick)
		}
		for label := range rs.spotters {
			spottersGlobal[label] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d caught=%d\n", len(all), caught)
	fmt.Printf("avg_events_per_run: spotted=%.1f lost=%.1f search_points=%.1f unreachable=%.1f\n",
		avg(totalSpotted, len(all)), avg(totalLost, len(all)), avg(totalSearch, len(all)), avg(totalUnreachable, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_spot=%s first_caught=%s\n",
		avgTickString(spotTicks), avgTickString(caughtTicks))
	if len(all) > 0 {
		fmt.Printf("avg_chase_share=%.1f%%\n", chase/float64(len(all)))
	}
	fmt.Printf("unique_spotters=%d [%s]\n", len(spottersGlobal), joinSet(spottersGlobal))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func distString(d float64) string {
	if math.IsInf(d, 1) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", d)
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
