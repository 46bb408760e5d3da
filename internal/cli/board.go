package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/rate/internal/board"
	"github.com/idilsaglam/rate/internal/chart"
	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/stepper"
	"github.com/idilsaglam/rate/internal/tui"
	"github.com/idilsaglam/rate/internal/ui"
)

const hintVerify = "Verify your email to save ratings."

func doTUI(ctx context.Context, opt Options) int {
	if !ui.IsTTY() {
		ui.Fail("tui: stdout is not a terminal; try `rate ls`")
		return 1
	}
	s, err := openSession(ctx, opt)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer s.Close()
	b, err := s.board(ctx)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	err = tui.Run(b, tui.Options{
		Persister:   s.persister(),
		Authorized:  s.authorized,
		SaveTimeout: opt.Config.SaveTimeout,
	})
	if err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	if b.IsDirty() {
		ui.Fail(fmt.Sprintf("quit with %d unsaved rating(s)", len(b.Dirty())))
	}
	return 0
}

func doList(ctx context.Context, opt Options) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer s.Close()
	b, err := s.board(ctx)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}

	t := ui.Current()
	seasons := b.Seasons()
	header := fmt.Sprintf("%s  %s %d  %s %s",
		t.Title.Render("Ratings"),
		t.Accent.Render("Seasons"), len(seasons),
		t.Accent.Render("Avg"), average(b.Values()),
	)
	lines := []string{header, ""}
	if len(seasons) == 0 {
		lines = append(lines, t.Muted.Render("no seasons"))
	}
	for _, season := range seasons {
		v, _ := b.Rating(season.ID)
		lines = append(lines, fmt.Sprintf("%s %-24s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", season.Position)),
			truncate(season.Title, 24), ui.Meter(v, 20)))
	}
	if len(seasons) > 0 {
		lines = append(lines, "")
		g := chart.Layout(chart.Values(b.Labels(), b.Values()), 64, 14, chart.TerminalConfig())
		lines = append(lines, strings.Split(chart.Terminal(g), "\n")...)
	}
	lines = append(lines, "", ui.Legend())
	if !s.authorized() {
		lines = append(lines, t.Muted.Render(hintVerify))
	}
	lines = append(lines, t.Muted.Render("Tip: change one with `rate set 2 85`"))
	ui.Panel(lines)
	return 0
}

func doSet(ctx context.Context, opt Options, userIndex int, arg string) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer s.Close()
	b, err := s.board(ctx)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	season, code := pick(b.Seasons(), userIndex)
	if code != 0 {
		return code
	}
	if !s.authorized() {
		ui.Fail(hintVerify)
		return 1
	}

	current, _ := b.Rating(season.ID)
	value, err := parseValue(current, arg)
	if err != nil {
		ui.Fail("set: " + err.Error())
		return 2
	}
	if err := b.SetRating(season.ID, value); err != nil {
		var verr *board.ValidationError
		if errors.As(err, &verr) {
			ui.Fail("set: " + err.Error())
			return 2
		}
		ui.Fail(err.Error())
		return 1
	}
	if !b.IsDirty() {
		ui.OK(fmt.Sprintf("%s unchanged at %d", season.Title, value))
		return 0
	}

	saveCtx, cancel := context.WithTimeout(ctx, opt.Config.SaveTimeout)
	defer cancel()
	if _, err := b.Save(saveCtx, s.persister(), s.authorized()); err != nil {
		ui.Fail(b.Status())
		return 1
	}
	ui.OK(fmt.Sprintf("%s rated %d", season.Title, value))
	return 0
}

// parseValue reads an absolute score, or a +n/-n step from current.
// Absolute scores are clamped to the rating range.
func parseValue(current int, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", arg)
	}
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		st := stepper.Stepper{Min: model.MinRating, Max: model.MaxRating}
		v, _ := st.Adjust(current, n)
		return v, nil
	}
	return model.Clamp(n), nil
}

func doExport(ctx context.Context, opt Options, path string) int {
	format, err := chart.FormatFromPath(path)
	if err != nil {
		ui.Fail("export: " + err.Error())
		return 2
	}
	s, err := openSession(ctx, opt)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer s.Close()
	b, err := s.board(ctx)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}

	cfg := chart.DefaultConfig()
	if opt.Config.SteepBelow > 0 {
		cfg.SteepBelow = float64(opt.Config.SteepBelow)
	}
	width := opt.Config.ChartWidth
	if width <= 0 {
		width = 760
	}
	g := chart.Layout(chart.Values(b.Labels(), b.Values()), float64(width), float64(opt.Config.ChartHeight), cfg)

	f, err := os.Create(path)
	if err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	if err := chart.Render(f, g, format); err != nil {
		f.Close()
		ui.Fail("export: " + err.Error())
		return 1
	}
	if err := f.Close(); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("wrote %s (%dx%d)", path, int(g.Width), int(g.Height)))
	return 0
}

// pick resolves a 1-based index, printing usage hints on failure.
func pick(seasons []model.Season, userIndex int) (model.Season, int) {
	if userIndex < 1 || userIndex > len(seasons) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(seasons), userIndex))
		fmt.Fprintln(os.Stderr, ui.Current().Muted.Render("Hint: run `rate ls` to see valid indexes"))
		return model.Season{}, 2
	}
	return seasons[userIndex-1], 0
}

func average(values []float64) string {
	if len(values) == 0 {
		return "-"
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return strconv.FormatFloat(sum/float64(len(values)), 'f', 1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
