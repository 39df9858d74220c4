// Package service coordinates cache reads, background fetches and
// insight builds behind a stale-while-revalidate policy: the caller
// never waits on the network when any cached data exists.
package service

import (
	"context"
	"sync"
	"time"

	"stratiles/internal/cache"
	"stratiles/internal/insights"
	"stratiles/internal/strava"
)

// CacheFreshness is how old a full cache entry may be before the next
// view triggers a background refresh.
const CacheFreshness = time.Hour

const failureMessage = "Unable to load stats right now. Please try again."

// Source fetches raw activities from the Strava API
type Source interface {
	FetchActivities(ctx context.Context, after time.Time, maxPages, perPage int, keep func(strava.Activity) bool) ([]strava.Activity, error)
}

// State is the display state of the stats surface
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateEmpty
	StateFailed
)

// Notice is the refresh overlay shown on top of a displayable state
type Notice int

const (
	NoticeNone Notice = iota
	NoticeUpdating
	NoticeOffline
)

// Result is the outcome of a cache evaluation or refresh
type Result struct {
	State    State
	Notice   Notice
	Insights *insights.Insights
	Message  string
}

// Displayable reports whether the result carries content worth keeping
// on screen through a failed background refresh.
func (r Result) Displayable() bool {
	return r.State == StateLoaded || r.State == StateEmpty
}

type flight struct {
	done       chan struct{}
	activities []strava.Activity
	err        error
}

// RefreshService orchestrates cache, fetch and build for the stats
// surface and the snapshot renderer.
type RefreshService struct {
	source Source
	cache  *cache.Cache
	opts   insights.Options
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]*flight
}

// NewRefreshService creates a refresh service with default window options
func NewRefreshService(source Source, c *cache.Cache) *RefreshService {
	return &RefreshService{
		source:   source,
		cache:    c,
		opts:     insights.DefaultOptions(),
		now:      time.Now,
		inflight: make(map[string]*flight),
	}
}

// SetOptions overrides the default window options. Call before the
// service is shared between goroutines.
func (s *RefreshService) SetOptions(opts insights.Options) {
	s.opts = opts
}

// Cached evaluates only the cache for the selection and reports whether
// a fetch is still needed. A fresh full-detail entry short-circuits the
// fetch unless force is set; a heatmap-only entry is always considered
// stale.
func (s *RefreshService) Cached(selected []insights.ActivityType, force bool) (Result, bool) {
	types := insights.NormalizeSelection(selected)
	windowEnd := s.now()

	payload := s.cache.Read(types)
	if payload == nil {
		return Result{State: StateLoading}, true
	}

	if len(payload.Activities) > 0 {
		ins := insights.Build(payload.Activities, windowEnd, s.opts)
		res := loadedOrEmpty(ins)
		if payload.IsFresh(CacheFreshness, windowEnd) && !force {
			return res, false
		}
		res.Notice = NoticeUpdating
		return res, true
	}

	if len(payload.HeatmapDays) > 0 {
		ins := insights.BuildPartial(payload.HeatmapDays, windowEnd, s.opts)
		res := loadedOrEmpty(ins)
		res.Notice = NoticeUpdating
		return res, true
	}

	return Result{State: StateLoading}, true
}

// Refresh runs the full policy: render what the cache allows, fetch if
// needed, merge and rewrite the cache. A failed fetch never regresses a
// displayable cached result; it degrades to an offline notice instead.
func (s *RefreshService) Refresh(ctx context.Context, selected []insights.ActivityType, force bool) Result {
	types := insights.NormalizeSelection(selected)

	cached, needFetch := s.Cached(types, force)
	if !needFetch {
		return cached
	}

	windowEnd := s.now()
	activities, err := s.fetch(ctx, types, windowEnd)
	if err != nil {
		if cached.Displayable() {
			cached.Notice = NoticeOffline
			return cached
		}
		return Result{State: StateFailed, Message: failureMessage}
	}

	ins := insights.Build(activities, windowEnd, s.opts)

	// A failed cache write only costs the next launch a refetch.
	_ = s.cache.Write(types, ins.HeatmapDays, activities)

	return loadedOrEmpty(ins)
}

// fetch performs the network load with at most one fetch in flight per
// selection key; concurrent callers for the same key await the same
// result. Selection-scoped cache keys make a superseded fetch harmless:
// it can only ever write its own bucket.
func (s *RefreshService) fetch(ctx context.Context, types []insights.ActivityType, windowEnd time.Time) ([]strava.Activity, error) {
	key := insights.SelectionKey(types)

	s.mu.Lock()
	if f := s.inflight[key]; f != nil {
		s.mu.Unlock()
		<-f.done
		return f.activities, f.err
	}
	f := &flight{done: make(chan struct{})}
	s.inflight[key] = f
	s.mu.Unlock()

	after := windowEnd.AddDate(0, 0, -s.opts.WindowDays)
	keep := func(a strava.Activity) bool {
		return insights.MatchesAny(types, a.Type, a.SportType)
	}
	f.activities, f.err = s.source.FetchActivities(ctx, after, strava.DefaultMaxPages, strava.DefaultPerPage, keep)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(f.done)

	return f.activities, f.err
}

func loadedOrEmpty(ins insights.Insights) Result {
	if ins.TotalActivities == 0 {
		return Result{State: StateEmpty, Insights: &ins}
	}
	return Result{State: StateLoaded, Insights: &ins}
}
