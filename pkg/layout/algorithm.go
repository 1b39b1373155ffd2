package layout

import (
	"sort"

	"github.com/matzehuels/raggedblocks/pkg/errors"
)

// Algorithm names.
const (
	NamePebble    = "l1p"
	NameRocks     = "l1s"
	NameRocksPlus = "l1s+"
	NameBlocks    = "blocks"
	NameSBlocks   = "s-blocks"
)

// Algorithm is one of the closed set of layout strategies. Implementations
// are immutable: WithSettings returns an updated copy.
type Algorithm interface {
	// Name returns the algorithm's registry name.
	Name() string

	// Settings returns the current settings value.
	Settings() Settings

	// WithSettings returns a copy of the algorithm with the given settings.
	WithSettings(Settings) Algorithm

	// ViewSettings describes the settings this algorithm honors, for generic
	// UI rendering.
	ViewSettings() []SettingField

	// Layout runs the algorithm over the input tree. It returns ErrAborted
	// when an abort token fires at a checkpoint.
	Layout(tree Tree, opts ...Option) (*Result, error)
}

// New returns the named algorithm with default settings.
func New(name string) (Algorithm, error) {
	switch name {
	case NamePebble:
		return pebbleAlgorithm{settings: DefaultSettings()}, nil
	case NameRocks:
		return rocksAlgorithm{settings: DefaultSettings()}, nil
	case NameRocksPlus:
		return rocksPlusAlgorithm{settings: DefaultSettings()}, nil
	case NameBlocks:
		return blocksAlgorithm{}, nil
	case NameSBlocks:
		return sblocksAlgorithm{settings: DefaultSettings()}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q", name)
}

// Names returns the registry names in stable order.
func Names() []string {
	names := []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks}
	sort.Strings(names)
	return names
}

// prepare reassociates the tree and resolves options.
func prepare(tree Tree, opts []Option) (Expr, config, error) {
	cfg := newConfig(opts)
	expr, err := Reassociate(tree, cfg.measurer)
	if err != nil {
		return nil, cfg, err
	}
	return expr, cfg, nil
}

// stampFont records the measuring font on the result when the measurer
// exposes it.
func stampFont(res *Result, cfg config, name string) {
	res.Algorithm = name
	type fontInfo interface {
		Family() string
		Size() float64
	}
	if fi, ok := cfg.measurer.(fontInfo); ok {
		res.FontFamily = fi.Family()
		res.FontSize = fi.Size()
	}
}

type pebbleAlgorithm struct {
	settings Settings
}

func (a pebbleAlgorithm) Name() string                      { return NamePebble }
func (a pebbleAlgorithm) Settings() Settings                { return a.settings }
func (a pebbleAlgorithm) WithSettings(s Settings) Algorithm { a.settings = s; return a }

func (a pebbleAlgorithm) ViewSettings() []SettingField {
	return []SettingField{fieldTranslateWraps, fieldIdealLeading}
}

func (a pebbleAlgorithm) Layout(tree Tree, opts ...Option) (*Result, error) {
	expr, cfg, err := prepare(tree, opts)
	if err != nil {
		return nil, err
	}
	res, err := layoutPebble(expr, a.settings, cfg)
	if err != nil {
		return nil, err
	}
	stampFont(res, cfg, a.Name())
	return res, nil
}

type rocksAlgorithm struct {
	settings Settings
}

func (a rocksAlgorithm) Name() string                      { return NameRocks }
func (a rocksAlgorithm) Settings() Settings                { return a.settings }
func (a rocksAlgorithm) WithSettings(s Settings) Algorithm { a.settings = s; return a }

func (a rocksAlgorithm) ViewSettings() []SettingField {
	return []SettingField{fieldTranslateWraps, fieldIdealLeading}
}

func (a rocksAlgorithm) Layout(tree Tree, opts ...Option) (*Result, error) {
	expr, cfg, err := prepare(tree, opts)
	if err != nil {
		return nil, err
	}
	res, err := layoutRocks(expr, a.settings, cfg, false)
	if err != nil {
		return nil, err
	}
	stampFont(res, cfg, a.Name())
	return res, nil
}

type rocksPlusAlgorithm struct {
	settings Settings
}

func (a rocksPlusAlgorithm) Name() string                      { return NameRocksPlus }
func (a rocksPlusAlgorithm) Settings() Settings                { return a.settings }
func (a rocksPlusAlgorithm) WithSettings(s Settings) Algorithm { a.settings = s; return a }

func (a rocksPlusAlgorithm) ViewSettings() []SettingField {
	return []SettingField{fieldTranslateWraps, fieldIdealLeading, fieldSimplification}
}

func (a rocksPlusAlgorithm) Layout(tree Tree, opts ...Option) (*Result, error) {
	expr, cfg, err := prepare(tree, opts)
	if err != nil {
		return nil, err
	}
	res, err := layoutRocks(expr, a.settings, cfg, true)
	if err != nil {
		return nil, err
	}
	stampFont(res, cfg, a.Name())
	return res, nil
}

type blocksAlgorithm struct{}

func (a blocksAlgorithm) Name() string                    { return NameBlocks }
func (a blocksAlgorithm) Settings() Settings              { return Settings{} }
func (a blocksAlgorithm) WithSettings(Settings) Algorithm { return a }
func (a blocksAlgorithm) ViewSettings() []SettingField    { return nil }

func (a blocksAlgorithm) Layout(tree Tree, opts ...Option) (*Result, error) {
	expr, cfg, err := prepare(tree, opts)
	if err != nil {
		return nil, err
	}
	res, err := layoutBlocks(expr, cfg)
	if err != nil {
		return nil, err
	}
	stampFont(res, cfg, a.Name())
	return res, nil
}

type sblocksAlgorithm struct {
	settings Settings
}

func (a sblocksAlgorithm) Name() string                      { return NameSBlocks }
func (a sblocksAlgorithm) Settings() Settings                { return a.settings }
func (a sblocksAlgorithm) WithSettings(s Settings) Algorithm { a.settings = s; return a }

func (a sblocksAlgorithm) ViewSettings() []SettingField {
	return []SettingField{fieldIdealLeading}
}

func (a sblocksAlgorithm) Layout(tree Tree, opts ...Option) (*Result, error) {
	expr, cfg, err := prepare(tree, opts)
	if err != nil {
		return nil, err
	}
	res, err := layoutSBlocks(expr, a.settings, cfg)
	if err != nil {
		return nil, err
	}
	stampFont(res, cfg, a.Name())
	return res, nil
}
