// internal/browser/layout/engine.go
package layout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// DefaultAutoRepeatLimit caps the repetitions generated by auto-fill/auto-fit.
const DefaultAutoRepeatLimit = 1000

// -- External Oracles --

// FontSpec is the font a text run is measured with.
type FontSpec struct {
	Family     string
	Size       float64
	LineHeight float64
	Weight     int
}

// TextMetrics is the result of measuring a run. LineBreaks holds the byte
// offsets where the run wrapped.
type TextMetrics struct {
	Width, Height float64
	Baseline      float64
	LineBreaks    []int
}

// TextMeasurer shapes text runs. Implementations must be deterministic and
// must not block on I/O. availableWidth is +Inf for an unconstrained run.
type TextMeasurer interface {
	MeasureText(run string, font FontSpec, availableWidth float64) TextMetrics
}

// ImageSizer reports the natural size of a replaced element's resource.
type ImageSizer interface {
	IntrinsicImageSize(resource string) (width, height float64, ok bool)
}

type noText struct{}

func (noText) MeasureText(string, FontSpec, float64) TextMetrics { return TextMetrics{} }

type noImages struct{}

func (noImages) IntrinsicImageSize(string) (float64, float64, bool) { return 0, 0, false }

// -- Engine Core --

// Engine lays out box trees. It keeps no state between calls, so one Engine
// may serve concurrent Layout calls on different trees.
type Engine struct {
	text            TextMeasurer
	images          ImageSizer
	logger          *zap.Logger
	autoRepeatLimit int
	workers         int
}

// Option is a function that configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAutoRepeatLimit caps auto-fill/auto-fit repetitions.
func WithAutoRepeatLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.autoRepeatLimit = limit
		}
	}
}

// WithParallelism lays out sibling flex and grid items on up to workers
// goroutines once their sizes are known. Values below 2 keep layout sequential.
func WithParallelism(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// NewEngine builds an engine around the text and image oracles. Either may be
// nil, in which case text measures as empty and images have no natural size.
func NewEngine(text TextMeasurer, images ImageSizer, opts ...Option) *Engine {
	e := &Engine{
		text:            text,
		images:          images,
		logger:          zap.NewNop(),
		autoRepeatLimit: DefaultAutoRepeatLimit,
		workers:         1,
	}
	if e.text == nil {
		e.text = noText{}
	}
	if e.images == nil {
		e.images = noImages{}
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "layout"))
	return e
}

// Layout validates tree and computes the geometry of every box for the given
// viewport. A fresh MeasureCache is used for the call.
func (e *Engine) Layout(ctx context.Context, tree *BoxTree, viewport Size) error {
	return e.LayoutWithCache(ctx, tree, viewport, NewMeasureCache())
}

// LayoutWithCache is Layout with a caller-owned measurement cache. The cache
// must only be shared between calls on an unchanged tree.
func (e *Engine) LayoutWithCache(ctx context.Context, tree *BoxTree, viewport Size, cache *MeasureCache) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tree == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidTree)
	}
	if err := tree.Validate(); err != nil {
		return err
	}
	if cache == nil {
		cache = NewMeasureCache()
	}

	p := &layoutPass{
		tree:            tree,
		text:            e.text,
		images:          e.images,
		cache:           cache,
		logger:          e.logger,
		viewport:        viewport,
		autoRepeatLimit: e.autoRepeatLimit,
		workers:         e.workers,
	}
	p.layoutRoot()

	hits, misses := cache.Stats()
	e.logger.Debug("Layout pass complete",
		zap.Int("boxes", tree.Len()),
		zap.Float64("viewport_width", viewport.Width),
		zap.Float64("viewport_height", viewport.Height),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses),
	)
	return nil
}

// -- Layout Pass --

// layoutPass holds everything one Layout call needs. It is discarded when the
// call returns.
type layoutPass struct {
	tree            *BoxTree
	text            TextMeasurer
	images          ImageSizer
	cache           *MeasureCache
	logger          *zap.Logger
	viewport        Size
	autoRepeatLimit int
	workers         int
}

// constraints is what a parent hands a child: the containing block for
// percentage resolution and, optionally, border-box sizes the parent has
// already decided.
type constraints struct {
	cbWidth, cbHeight style.AvailableSpace

	width, height       float64
	hasWidth, hasHeight bool

	// shrinkToFit sizes an auto width to fit-content instead of filling the
	// containing block.
	shrinkToFit bool
}

func (c constraints) withWidth(w float64) constraints {
	c.width, c.hasWidth = math.Max(0, w), true
	return c
}

func (c constraints) withHeight(h float64) constraints {
	c.height, c.hasHeight = math.Max(0, h), true
	return c
}

func (p *layoutPass) box(id BoxID) *LayoutBox { return &p.tree.boxes[id] }

func (p *layoutPass) layoutRoot() {
	root := p.tree.root
	c := constraints{
		cbWidth:  style.Definite(p.viewport.Width),
		cbHeight: style.Definite(p.viewport.Height),
	}
	b := p.box(root)
	if b.isHidden() {
		p.hideSubtree(root)
		return
	}
	p.layoutBox(root, c)
	b.placeMarginBox(0, 0)
}

// hideSubtree gives a display: none box and its descendants empty geometry.
func (p *layoutPass) hideSubtree(id BoxID) {
	b := p.box(id)
	b.Dimensions = Dimensions{}
	b.Baseline, b.HasBaseline = 0, false
	for _, c := range b.Children {
		p.hideSubtree(c)
	}
}

// jobPanic carries a panic out of a parallel job so it is raised again on
// the goroutine running the pass.
type jobPanic struct {
	value any
}

func (j jobPanic) Error() string {
	return fmt.Sprintf("layout job panicked: %v", j.value)
}

// runJobs runs independent subtree layouts, fanning out when parallelism is on.
// Each job must only write boxes inside its own subtree.
func (p *layoutPass) runJobs(jobs []func()) {
	if p.workers < 2 || len(jobs) < 2 {
		for _, job := range jobs {
			job()
		}
		return
	}
	// A pass is never cancelled by its caller once started. The group
	// context only stops queued jobs after a sibling has panicked.
	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.workers)
	for _, job := range jobs {
		g.Go(func() (err error) {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					err = jobPanic{value: r}
				}
			}()
			job()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var jp jobPanic
		if errors.As(err, &jp) {
			panic(jp.value)
		}
		panic(err)
	}
}
