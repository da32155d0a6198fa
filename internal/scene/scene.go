// internal/scene/scene.go
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
	"github.com/xkilldash9x/boxlayout/internal/browser/parser"
	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// ErrUnsupportedFormat is returned for scene files whose extension names no
// known format.
var ErrUnsupportedFormat = errors.New("scene: unsupported format")

// Format is the encoding of a scene file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatHTML:
		return "html"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Document is the declarative scene layout read from TOML or YAML.
type Document struct {
	Viewport ViewportSpec         `toml:"viewport" yaml:"viewport"`
	Images   map[string]ImageSpec `toml:"images" yaml:"images"`
	Root     NodeSpec             `toml:"root" yaml:"root"`
}

// ViewportSpec overrides the configured viewport when both sides are set.
type ViewportSpec struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
}

// ImageSpec is the natural size of an image resource.
type ImageSpec struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
}

// NodeSpec describes one box. Style holds CSS declarations. A node with Text
// becomes a text run and one with Image a replaced box; both ignore Children.
type NodeSpec struct {
	Label    string     `toml:"label" yaml:"label"`
	Style    string     `toml:"style" yaml:"style"`
	Text     string     `toml:"text" yaml:"text"`
	Image    string     `toml:"image" yaml:"image"`
	Children []NodeSpec `toml:"children" yaml:"children"`
}

// Scene is a box tree ready for layout.
type Scene struct {
	Tree   *layout.BoxTree
	Images ImageTable
	// Viewport is zero unless the scene file sets one.
	Viewport layout.Size
	// Diagnostics joins every declaration the style computer rejected.
	Diagnostics error
}

// Loader reads scene files.
type Loader struct {
	logger     *zap.Logger
	viewport   layout.Size
	fontSize   float64
	fontFamily string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseFont sets the root box's font, which also sizes rem units. Zero
// values keep the style defaults.
func WithBaseFont(size float64, family string) LoaderOption {
	return func(l *Loader) {
		if size > 0 {
			l.fontSize = size
		}
		l.fontFamily = strings.TrimSpace(family)
	}
}

// NewLoader returns a loader. viewport is used to resolve vw and vh units
// when the scene sets no viewport of its own.
func NewLoader(logger *zap.Logger, viewport layout.Size, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{logger: logger.Named("scene"), viewport: viewport}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FormatForPath picks the format from the file extension. A trailing .br or
// .gz is reported as the compression to undo first.
func FormatForPath(path string) (Format, Encoding, error) {
	enc := EncodingIdentity
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".br":
		enc = EncodingBrotli
	case ".gz":
		enc = EncodingGzip
	}
	if enc != EncodingIdentity {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	switch ext {
	case ".toml":
		return FormatTOML, enc, nil
	case ".yaml", ".yml":
		return FormatYAML, enc, nil
	case ".html", ".htm":
		return FormatHTML, enc, nil
	}
	return 0, enc, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
}

// Load reads, decompresses and parses the scene at path.
func (l *Loader) Load(path string) (*Scene, error) {
	format, enc, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer f.Close()

	r, err := Decompress(f, enc)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	s, err := l.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	l.logger.Debug("Scene loaded",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.String("encoding", string(enc)),
		zap.Int("boxes", s.Tree.Len()),
		zap.Int("images", len(s.Images)),
	)
	return s, nil
}

// Parse builds a scene from raw file contents.
func (l *Loader) Parse(data []byte, format Format) (*Scene, error) {
	switch format {
	case FormatTOML:
		var doc Document
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
		return l.Build(doc)
	case FormatYAML:
		var doc Document
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		return l.Build(doc)
	case FormatHTML:
		return l.parseHTML(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Build turns a document into a scene. Style errors do not stop the build;
// they are collected in Diagnostics.
func (l *Loader) Build(doc Document) (*Scene, error) {
	s := &Scene{Tree: layout.NewBoxTree(), Images: make(ImageTable, len(doc.Images))}
	for name, img := range doc.Images {
		if err := s.Images.Set(name, img.Width, img.Height); err != nil {
			return nil, err
		}
	}
	if doc.Viewport.Width > 0 && doc.Viewport.Height > 0 {
		s.Viewport = layout.Size{Width: doc.Viewport.Width, Height: doc.Viewport.Height}
	}

	b := l.newBuilder(s)
	b.addNode(layout.NoBox, nil, doc.Root, "root")
	s.Diagnostics = errors.Join(b.errs...)
	if err := s.Tree.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// builder adds boxes to a scene's tree, computing styles as it goes.
type builder struct {
	scene    *Scene
	computer style.Computer
	// rootCSS is prepended to the root box's declarations.
	rootCSS string
	errs    []error
}

func (l *Loader) newBuilder(s *Scene) *builder {
	vp := s.Viewport
	if vp == (layout.Size{}) {
		vp = l.viewport
	}
	b := &builder{scene: s, computer: style.NewComputer(vp.Width, vp.Height), rootCSS: "display: block; "}
	if l.fontSize > 0 {
		b.computer.RootFontSize = l.fontSize
		b.rootCSS += fmt.Sprintf("font-size: %gpx; ", l.fontSize)
	}
	if l.fontFamily != "" {
		b.rootCSS += "font-family: " + l.fontFamily + "; "
	}
	return b
}

func (b *builder) compute(css, where string, parent *style.ComputedStyle) *style.ComputedStyle {
	s, err := b.computer.Compute(parser.ParseInline(css), parent)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s: %w", where, err))
	}
	return s
}

func (b *builder) addNode(parent layout.BoxID, parentStyle *style.ComputedStyle, n NodeSpec, path string) layout.BoxID {
	tree := b.scene.Tree
	css := n.Style
	if parent == layout.NoBox {
		css = b.rootCSS + css
	}
	s := b.compute(css, path, parentStyle)

	var id layout.BoxID
	switch {
	case n.Text != "":
		id = tree.AddText(parent, n.Text, s)
	case n.Image != "":
		id = tree.AddReplaced(parent, n.Image, s)
	default:
		id = tree.Add(parent, layout.ModeForStyle(s), s)
		for i, child := range n.Children {
			b.addNode(id, s, child, fmt.Sprintf("%s.children[%d]", path, i))
		}
	}
	tree.Box(id).Label = n.Label
	return id
}
