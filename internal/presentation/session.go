package presentation

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/render"
)

// View is an immutable snapshot of what the adapter currently shows.
type View struct {
	Inputs    packing.Inputs `json:"inputs"`
	Results   []Summary      `json:"results"`
	Selected  int            `json:"selected"`
	Empty     bool           `json:"empty"`
	Layout    *render.Layout `json:"layout,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// state is never mutated after construction; Session swaps whole values.
type state struct {
	inputs    packing.Inputs
	ranking   packing.Ranking
	selected  int
	updatedAt time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRenderer registers a renderer under kind.
func WithRenderer(kind render.Kind, r render.LayoutRenderer) SessionOption {
	return func(s *Session) {
		s.renderers[kind] = r
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) {
		s.clock = clock
	}
}

// Session holds the current ranked results and selection for one user.
type Session struct {
	enumerator packing.Enumerator
	renderers  map[render.Kind]render.LayoutRenderer
	logger     *zap.Logger
	clock      func() time.Time

	mu    sync.RWMutex
	state state
}

// NewSession creates an empty session. SVG, scene and text renderers are
// registered by default.
func NewSession(enumerator packing.Enumerator, logger *zap.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		enumerator: enumerator,
		renderers: map[render.Kind]render.LayoutRenderer{
			render.KindSVG:   render.NewSVG(),
			render.KindScene: render.NewScene(),
			render.KindText:  render.NewText(),
		},
		logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = state{ranking: packing.Ranking{}, updatedAt: s.clock()}
	return s
}

// Recompute runs the enumerator for in and replaces the whole state. The
// selection goes back to the best result.
func (s *Session) Recompute(in packing.Inputs) View {
	in = in.Sanitize()
	ranking := s.enumerator.Enumerate(in)

	next := state{
		inputs:    in,
		ranking:   ranking.Clone(),
		selected:  0,
		updatedAt: s.clock(),
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("ranking recomputed",
		zap.Int("results", len(next.ranking)),
		zap.Any("inputs", in),
	)
	return next.view()
}

// Select changes which ranked result is displayed. The ranking itself is untouched.
func (s *Session) Select(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.state.ranking) {
		return View{}, fmt.Errorf("%w: index %d, %d results", ErrSelectionOutOfRange, index, len(s.state.ranking))
	}

	next := s.state
	next.selected = index
	next.updatedAt = s.clock()
	s.state = next
	return next.view(), nil
}

// View returns the current snapshot.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.view()
}

// Inputs returns the inputs of the current ranking.
func (s *Session) Inputs() packing.Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.inputs
}

// Ranking returns a copy of the current ranking.
func (s *Session) Ranking() packing.Ranking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ranking.Clone()
}

// Layout returns the layout of the selected result.
func (s *Session) Layout() (render.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.layout()
}

// Render draws the selected result with the renderer registered for kind.
// Renderer faults, including panics, are logged and returned as ErrRenderFailed.
func (s *Session) Render(ctx context.Context, kind render.Kind, w io.Writer) (err error) {
	r, ok := s.renderers[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRenderer, kind)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	layout, err := s.Layout()
	if err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("renderer panicked", zap.String("kind", string(kind)), zap.Any("panic", rec))
			err = fmt.Errorf("%w: %s: %v", ErrRenderFailed, kind, rec)
		}
	}()

	if renderErr := r.Render(w, layout); renderErr != nil {
		s.logger.Warn("render failed", zap.String("kind", string(kind)), zap.Error(renderErr))
		return fmt.Errorf("%w: %s: %w", ErrRenderFailed, kind, renderErr)
	}
	return nil
}

// ContentType reports the media type produced by the renderer for kind.
func (s *Session) ContentType(kind render.Kind) (string, error) {
	r, ok := s.renderers[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRenderer, kind)
	}
	return r.ContentType(), nil
}

func (st state) layout() (render.Layout, error) {
	if len(st.ranking) == 0 {
		return render.Layout{}, ErrNoResults
	}
	res := st.ranking[st.selected]
	return render.LayoutFor(res, st.inputs.PalletLength, st.inputs.PalletWidth), nil
}

func (st state) view() View {
	v := View{
		Inputs:    st.inputs,
		Results:   Summarize(st.ranking),
		Selected:  st.selected,
		Empty:     len(st.ranking) == 0,
		UpdatedAt: st.updatedAt,
	}
	if layout, err := st.layout(); err == nil {
		v.Layout = &layout
	}
	return v
}
