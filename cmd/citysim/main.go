package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/catchup"
	"IdleCity/internal/game/formula"
	"IdleCity/internal/game/sim"
	"IdleCity/internal/game/state"
	"IdleCity/internal/session/codec"
	"IdleCity/internal/session/entity"
	"IdleCity/internal/session/infra/persistence"
	"IdleCity/internal/session/infra/persistence/file"
)

var (
	saveDir    string
	playerID   int64
	saveKey    string
	catalogDir string
	cityID     string
	ticks      int64
	tickMS     int
	writeBack  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "citysim",
		Short: "Idle City offline simulator",
		Long: `Loads a save (or the starting state), advances one city for N ticks
and prints resources, skills and estimated hourly rates.`,
		RunE: runSim,
	}

	rootCmd.Flags().StringVarP(&saveDir, "dir", "d", "", "Save directory of the file store; empty starts a new game")
	rootCmd.Flags().Int64VarP(&playerID, "player", "p", 0, "Player id of the save to load")
	rootCmd.Flags().StringVar(&saveKey, "key", "", "save_key used to encrypt the save")
	rootCmd.Flags().StringVar(&catalogDir, "catalog", "", "Catalog directory; empty uses the built-in tables")
	rootCmd.Flags().StringVarP(&cityID, "city", "c", "", "City to advance; defaults to the saved selection or the first city")
	rootCmd.Flags().Int64VarP(&ticks, "ticks", "n", 3600, "Number of ticks to simulate")
	rootCmd.Flags().IntVar(&tickMS, "tick-ms", 1000, "Game time per tick in milliseconds")
	rootCmd.Flags().BoolVarP(&writeBack, "write", "w", false, "Write the advanced state back to the save")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	cat, err := loadCatalog(catalogDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	s, selected, repo, err := loadState(cmd.Context(), cat)
	if err != nil {
		return err
	}
	if cityID == "" {
		cityID = selected
	}
	if cityID == "" && len(s.Cities) > 0 {
		cityID = s.Cities[0].ID
	}
	if _, ok := s.City(cityID); !ok {
		return fmt.Errorf("city %q not found", cityID)
	}

	tick := time.Duration(tickMS) * time.Millisecond
	s, caught, err := activate(cat, s, cityID, tick, time.Now())
	if err != nil {
		return err
	}
	if caught.Replayed > 0 {
		infoColor.Printf("\n↺ %s: caught up %d offline ticks\n", cityID, caught.Replayed)
	}
	titleColor.Printf("\n▶ %s: %d ticks × %s\n", cityID, ticks, tick)

	next, sum := simulate(cat, s, cityID, tick, ticks)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n📦 Resources:")
	printResources(out, s, next)
	fmt.Fprintln(out, "\n📋 Skills:")
	printSkills(out, s, next)
	fmt.Fprintln(out, "\n⚔️  Summary:")
	printSummary(out, sum)

	rates, ok := formula.EstimateHourlyRates(cat, next, cityID, tick.Seconds())
	if ok {
		fmt.Fprintln(out, "\n📊 Hourly rates:")
		printRates(out, rates)
	}

	if writeBack {
		if repo == nil {
			infoColor.Println("\n--write 需要 --dir 和 --player，跳过写回")
			return nil
		}
		snap := &entity.PersistSnapshot{
			Version:        uint64(next.Tick),
			PlayerID:       entity.PlayerID(playerID),
			SelectedCityID: cityID,
			SavedAt:        time.Now(),
			State:          next,
		}
		if err := repo.Save(cmd.Context(), snap); err != nil {
			return fmt.Errorf("write save: %w", err)
		}
		successColor.Println("\n✓ save written")
	}
	return nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadDir(dir)
}

// loadState 没给 --dir 时用初始状态；存档不存在也回退到初始状态。
func loadState(ctx context.Context, cat *catalog.Catalog) (*state.GameState, string, *persistence.SaveRepo, error) {
	if saveDir == "" {
		return state.Initial(cat), "", nil, nil
	}
	if playerID <= 0 {
		return nil, "", nil, entity.ErrInvalidPlayerID
	}
	c, err := codec.New(saveKey)
	if err != nil {
		return nil, "", nil, fmt.Errorf("save key: %w", err)
	}
	store, err := file.NewSaveStore(saveDir)
	if err != nil {
		return nil, "", nil, err
	}
	repo := persistence.NewSaveRepo(store, c)
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := repo.Load(ctx, entity.PlayerID(playerID))
	if errors.Is(err, entity.ErrSaveNotFound) {
		return state.Initial(cat), "", repo, nil
	}
	if err != nil {
		return nil, "", nil, err
	}
	return doc.State, doc.SelectedCityID, repo, nil
}

// activate 像新会话一样选中 cityID：存档里带时间戳的城市先补算离线收益。
func activate(cat *catalog.Catalog, s *state.GameState, cityID string, tick time.Duration, now time.Time) (*state.GameState, catchup.Result, error) {
	o := catchup.New(sim.New(cat, tick), tick, catchup.Options{})
	return o.OnCityActivated(s, "", cityID, now)
}

// simulate 按实时循环的方式推进 n 个 tick。
func simulate(cat *catalog.Catalog, s *state.GameState, cityID string, tick time.Duration, n int64) (*state.GameState, *sim.Summary) {
	m := sim.New(cat, tick)
	sum := sim.NewSummary(cityID)
	for i := int64(0); i < n; i++ {
		var rep sim.TickReport
		s, rep = m.Step(s, cityID, true)
		sum.Add(rep)
	}
	return s, sum
}

func printResources(w io.Writer, before, after *state.GameState) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Resource", "Before", "After", "Delta"}),
	)
	keys := slices.Sorted(maps.Keys(after.Resources))
	for _, k := range keys {
		b, a := before.Resource(k), after.Resource(k)
		_ = table.Append([]string{
			string(k),
			fmt.Sprintf("%.2f", b),
			fmt.Sprintf("%.2f", a),
			fmt.Sprintf("%+.2f", a-b),
		})
	}
	_ = table.Render()
}

func printSkills(w io.Writer, before, after *state.GameState) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Skill", "Level", "XP", "Next"}),
	)
	keys := slices.Sorted(maps.Keys(after.PlayerSkills))
	for _, k := range keys {
		b, a := before.Skill(k), after.Skill(k)
		level := fmt.Sprintf("%d", a.Level)
		if a.Level != b.Level {
			level = fmt.Sprintf("%d → %d", b.Level, a.Level)
		}
		_ = table.Append([]string{
			string(k),
			level,
			fmt.Sprintf("%.1f", a.XP),
			fmt.Sprintf("%.0f", catalog.XPForNextLevel(a.Level)),
		})
	}
	_ = table.Render()
}

func printSummary(w io.Writer, sum *sim.Summary) {
	fmt.Fprintf(w, "   Ticks: %d\n", sum.Ticks)
	fmt.Fprintf(w, "   Kills: %d  Zone clears: %d\n", sum.Kills, sum.ZoneClears)
	for _, k := range slices.Sorted(maps.Keys(sum.Loot)) {
		fmt.Fprintf(w, "   Loot %s: %.2f\n", k, sum.Loot[k])
	}
	for _, lu := range sum.LevelUps {
		fmt.Fprintf(w, "   %s %s: %d → %d\n", lu.Kind, lu.Key, lu.From, lu.To)
	}
	if sum.DroppedZone != "" {
		color.Yellow("   zone %s dropped", sum.DroppedZone)
	}
}

func printRates(w io.Writer, r formula.HourlyRates) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Item", "Per hour"}),
	)
	for _, k := range slices.Sorted(maps.Keys(r.ProductionPerHour)) {
		_ = table.Append([]string{"produce " + string(k), fmt.Sprintf("%.2f", r.ProductionPerHour[k])})
	}
	for _, k := range slices.Sorted(maps.Keys(r.LootPerHour)) {
		_ = table.Append([]string{"loot " + string(k), fmt.Sprintf("%.2f", r.LootPerHour[k])})
	}
	_ = table.Append([]string{"task xp", fmt.Sprintf("%.2f", r.TaskXPPerHour)})
	_ = table.Append([]string{"kills", fmt.Sprintf("%.2f", r.KillsPerHour)})
	_ = table.Append([]string{"combat xp", fmt.Sprintf("%.2f", r.CombatXPPerHour)})
	_ = table.Append([]string{"hero xp", fmt.Sprintf("%.2f", r.HeroXPPerHour)})
	_ = table.Render()
}
