// Package routesearch drives the client-side route search flow: validate
// input, call the directions provider, expose the outcome, and write a
// best-effort history record that never affects the search result.
package routesearch

import (
	"context"
	"sync"

	"route-planner/directions"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// State of the search flow.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const msgOriginDestinationRequired = "出発地と目的地の両方を入力してください"

// HistoryRecorder persists a completed search. Failures are logged and
// swallowed; they never surface to the search result.
type HistoryRecorder interface {
	Record(ctx context.Context, origin, destination, distance, duration string) error
}

// Snapshot is a consistent view of the searcher's state.
type Snapshot struct {
	State  State
	Result *directions.RouteResult
	Err    string
}

// Searcher runs route searches against a directions provider. State is
// explicit and owned by the struct; there is no shared global session.
//
// A new search does not cancel a prior in-flight call: whichever response
// arrives last overwrites the state, the same way the web client behaved.
type Searcher struct {
	provider directions.Provider
	recorder HistoryRecorder // nil disables history writes

	mu     sync.Mutex
	state  State
	result *directions.RouteResult
	err    string

	wg sync.WaitGroup
}

// New creates a searcher in the idle state.
func New(provider directions.Provider, recorder HistoryRecorder) *Searcher {
	return &Searcher{
		provider: provider,
		recorder: recorder,
		state:    StateIdle,
	}
}

// Search starts a route search. Empty origin or destination sets a
// validation error and leaves the state machine where it is, without
// contacting the provider. Otherwise the machine enters searching and the
// provider is called asynchronously.
func (s *Searcher) Search(origin, destination string) {
	if origin == "" || destination == "" {
		s.mu.Lock()
		s.err = msgOriginDestinationRequired
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.state = StateSearching
	s.err = ""
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(origin, destination)
}

func (s *Searcher) run(origin, destination string) {
	defer s.wg.Done()

	result, err := s.provider.Route(context.Background(), origin, destination)

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.err = searchErrorMessage(err)
		s.mu.Unlock()
		logger.Error("Route search failed", zap.String("origin", origin), zap.String("destination", destination), zap.Error(err))
		return
	}

	s.state = StateSucceeded
	s.result = result
	s.err = ""
	s.mu.Unlock()

	logger.Info("Route search succeeded", zap.String("origin", origin), zap.String("destination", destination))

	// Best-effort history write, decoupled from the search outcome
	s.wg.Add(1)
	go s.saveHistory(origin, destination, result)
}

func searchErrorMessage(err error) string {
	if statusErr, ok := err.(*directions.StatusError); ok {
		return "ルート検索エラー: " + statusErr.Status
	}
	return "ルート検索エラー: " + err.Error()
}

// saveHistory records the first route's first leg. Any failure here is
// logged and absorbed; the succeeded state is already committed.
func (s *Searcher) saveHistory(origin, destination string, result *directions.RouteResult) {
	defer s.wg.Done()

	if s.recorder == nil {
		return
	}
	if len(result.Routes) == 0 || len(result.Routes[0].Legs) == 0 {
		logger.Info("Route result has no legs; skipping history write")
		return
	}

	leg := result.Routes[0].Legs[0]
	err := s.recorder.Record(context.Background(), origin, destination, leg.Distance.Text, leg.Duration.Text)
	if err != nil {
		logger.Error("Failed to save route history", zap.Error(err))
	}
}

// Clear returns the machine to idle, discarding any result and error.
func (s *Searcher) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.result = nil
	s.err = ""
}

// Snapshot returns the current state, result and error under lock.
func (s *Searcher) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Result: s.result, Err: s.err}
}

// Wait blocks until all in-flight searches and history writes have
// finished. Intended for tests and orderly shutdown.
func (s *Searcher) Wait() {
	s.wg.Wait()
}
