package document

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// FaceSource records which tier of the fallback chain supplied a face pair.
type FaceSource string

const (
	SourcePlatform FaceSource = "platform"
	SourceBundled  FaceSource = "bundled"
	SourceBuiltin  FaceSource = "builtin"
)

// BuiltinFamily is the layout engine's core face. It has no Cyrillic glyphs.
const BuiltinFamily = "Helvetica"

// BundledFamily names the embedded Go fonts.
const BundledFamily = "GoSans"

// DefaultRequiredRunes must all map to glyphs before a platform face is used.
var DefaultRequiredRunes = []rune("АБВЖЯабвжяЁё")

// Face is one registered text face. Data is nil for builtin faces.
type Face struct {
	Family  string
	Style   string
	Path    string
	Data    []byte
	Builtin bool
}

// FacePair is the body/bold selection returned by the resolver.
type FacePair struct {
	Body   Face
	Bold   Face
	Source FaceSource
}

// Unicode reports whether the pair can render non-Latin glyphs.
func (p FacePair) Unicode() bool {
	return p.Source != SourceBuiltin
}

// BuiltinFaces returns the layout engine's default face pair.
func BuiltinFaces() FacePair {
	return FacePair{
		Body:   Face{Family: BuiltinFamily, Builtin: true},
		Bold:   Face{Family: BuiltinFamily, Style: "B", Builtin: true},
		Source: SourceBuiltin,
	}
}

// BundledFaces returns the embedded Go Regular/Bold pair.
func BundledFaces() FacePair {
	return FacePair{
		Body:   Face{Family: BundledFamily, Data: goregular.TTF},
		Bold:   Face{Family: BundledFamily, Style: "B", Data: gobold.TTF},
		Source: SourceBundled,
	}
}

// FontCandidate is a platform face pair probed in order.
type FontCandidate struct {
	Family      string
	RegularPath string
	BoldPath    string
}

var knownFontFiles = []struct {
	family, regular, bold string
}{
	{"DejaVuSans", "DejaVuSans.ttf", "DejaVuSans-Bold.ttf"},
	{"LiberationSans", "LiberationSans-Regular.ttf", "LiberationSans-Bold.ttf"},
	{"Arial", "arial.ttf", "arialbd.ttf"},
	{"Calibri", "calibri.ttf", "calibrib.ttf"},
	{"Tahoma", "tahoma.ttf", "tahomabd.ttf"},
	{"Arial", "Arial.ttf", "Arial Bold.ttf"},
}

var defaultFontDirs = []string{
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts/dejavu",
	"/usr/share/fonts/truetype/liberation",
	"/usr/share/fonts/liberation",
	"C:/Windows/Fonts",
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
}

// DefaultFontCandidates lists the well-known Linux, Windows and macOS
// locations of Cyrillic-capable sans faces.
func DefaultFontCandidates() []FontCandidate {
	return CandidatesFromDirs(defaultFontDirs)
}

// CandidatesFromDirs expands each directory into the known face file names.
func CandidatesFromDirs(dirs []string) []FontCandidate {
	out := make([]FontCandidate, 0, len(dirs)*len(knownFontFiles))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, known := range knownFontFiles {
			out = append(out, FontCandidate{
				Family:      known.family,
				RegularPath: filepath.Join(dir, known.regular),
				BoldPath:    filepath.Join(dir, known.bold),
			})
		}
	}
	return out
}

// FontResolverConfig configures face discovery.
type FontResolverConfig struct {
	Candidates     []FontCandidate
	ReadFile       func(path string) ([]byte, error)
	DisableBundled bool
	RequiredRunes  []rune
	Logger         Logger
}

// FontResolver selects a body/bold face pair once per process.
type FontResolver struct {
	cfg    FontResolverConfig
	logger Logger

	once sync.Once
	pair FacePair
}

// NewFontResolver creates a resolver. Nothing is read until Resolve.
func NewFontResolver(cfg FontResolverConfig) *FontResolver {
	if cfg.ReadFile == nil {
		cfg.ReadFile = os.ReadFile
	}
	if len(cfg.RequiredRunes) == 0 {
		cfg.RequiredRunes = DefaultRequiredRunes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return &FontResolver{cfg: cfg, logger: logger}
}

// Resolve returns the selected face pair. The first call probes the
// candidates; later calls return the cached result. It never fails: when no
// Unicode face is available the builtin face is returned.
func (r *FontResolver) Resolve() FacePair {
	r.once.Do(func() {
		r.pair = r.resolve()
		if r.pair.Source == SourceBuiltin {
			r.logger.Errorf("docflow: no unicode face available, using builtin %s", BuiltinFamily)
			return
		}
		r.logger.Infof("docflow: fonts resolved family=%s source=%s", r.pair.Body.Family, r.pair.Source)
	})
	return r.pair
}

func (r *FontResolver) resolve() FacePair {
	for _, candidate := range r.cfg.Candidates {
		pair, ok := r.load(candidate)
		if ok {
			return pair
		}
	}
	if !r.cfg.DisableBundled {
		return BundledFaces()
	}
	return BuiltinFaces()
}

func (r *FontResolver) load(candidate FontCandidate) (FacePair, bool) {
	regular, err := r.cfg.ReadFile(candidate.RegularPath)
	if err != nil || !Covers(regular, r.cfg.RequiredRunes) {
		return FacePair{}, false
	}

	boldPath := candidate.BoldPath
	bold, err := r.cfg.ReadFile(boldPath)
	if err != nil || !Covers(bold, r.cfg.RequiredRunes) {
		// Bold falls back to the regular face.
		bold = regular
		boldPath = candidate.RegularPath
	}

	r.logger.Debugf("docflow: font candidate accepted path=%s", candidate.RegularPath)
	return FacePair{
		Body:   Face{Family: candidate.Family, Path: candidate.RegularPath, Data: regular},
		Bold:   Face{Family: candidate.Family, Style: "B", Path: boldPath, Data: bold},
		Source: SourcePlatform,
	}, true
}

// Covers reports whether the TrueType/OpenType data maps every rune to a
// glyph.
func Covers(data []byte, runes []rune) bool {
	if len(data) == 0 {
		return false
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return false
	}
	var buf sfnt.Buffer
	for _, r := range runes {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}
