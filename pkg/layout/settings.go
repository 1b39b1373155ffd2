package layout

// Settings carries the tunable knobs shared by the layout algorithms. Each
// algorithm reads the subset that applies to it; ViewSettings reports which.
type Settings struct {
	// TranslateWraps selects the wrap-origin convention: with true (the
	// default) wrapping translates the wrapped rectangles rightward by the
	// padding; with false the line origin shifts left instead so the
	// lead-out advances identically. Both conventions are supported.
	TranslateWraps bool

	// IdealLeading is the minimum distance between consecutive baselines.
	IdealLeading float64

	// EnableSimplification turns on outline simplification where the
	// algorithm computes polygons.
	EnableSimplification bool
}

// DefaultSettings returns the settings every algorithm starts from.
func DefaultSettings() Settings {
	return Settings{
		TranslateWraps:       true,
		IdealLeading:         4,
		EnableSimplification: true,
	}
}

// FieldKind discriminates the control type of a SettingField.
type FieldKind int

// Setting field kinds.
const (
	FieldToggle FieldKind = iota
	FieldNumber
)

// SettingField describes one tunable setting generically, so a UI can render
// controls without per-algorithm code. Accessors and updaters close over a
// Settings value; updaters return the modified copy.
type SettingField struct {
	Name        string
	Description string
	Kind        FieldKind

	GetBool func(Settings) bool
	SetBool func(Settings, bool) Settings

	GetNumber func(Settings) float64
	SetNumber func(Settings, float64) Settings
}

var (
	fieldTranslateWraps = SettingField{
		Name:        "translate-wraps",
		Description: "translate wrapped rectangles instead of shifting line origins",
		Kind:        FieldToggle,
		GetBool:     func(s Settings) bool { return s.TranslateWraps },
		SetBool: func(s Settings, v bool) Settings {
			s.TranslateWraps = v
			return s
		},
	}
	fieldIdealLeading = SettingField{
		Name:        "ideal-leading",
		Description: "minimum distance between consecutive baselines",
		Kind:        FieldNumber,
		GetNumber:   func(s Settings) float64 { return s.IdealLeading },
		SetNumber: func(s Settings, v float64) Settings {
			if v < 0 {
				v = 0
			}
			s.IdealLeading = v
			return s
		},
	}
	fieldSimplification = SettingField{
		Name:        "simplification",
		Description: "simplify outlines within parent and sibling constraints",
		Kind:        FieldToggle,
		GetBool:     func(s Settings) bool { return s.EnableSimplification },
		SetBool: func(s Settings, v bool) Settings {
			s.EnableSimplification = v
			return s
		},
	}
)
