package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/idilsaglam/rate/internal/store"
	"github.com/idilsaglam/rate/internal/ui"
)

func editor(s *session) (store.SeasonEditor, bool) {
	ed, ok := s.store.(store.SeasonEditor)
	if !ok {
		ui.Fail(store.ErrReadOnly.Error())
	}
	return ed, ok
}

func doAdd(ctx context.Context, opt Options, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	s, err := openSession(ctx, opt)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer s.Close()
	ed, ok := editor(s)
	if !ok {
		return 1
	}
	season, err := ed.AddSeason(ctx, title)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("added %d. %s", season.Position, season.Title))
	return 0
}

func doRemove(ctx context.Context, opt Options, userIndex int) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	defer s.Close()
	seasons, err := s.store.Seasons(ctx)
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	season, code := pick(seasons, userIndex)
	if code != 0 {
		return code
	}
	ed, ok := editor(s)
	if !ok {
		return 1
	}
	if err := ed.RemoveSeason(ctx, season.ID); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed " + season.Title)
	return 0
}
