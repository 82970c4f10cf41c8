package config

// Global settings stored in the etc section alongside the schema version
// and the default profile pointer.
const (
	// KeyColorScheme selects the highlighting style used by pretty output.
	KeyColorScheme = "color_scheme"
	// KeyOutput selects the response rendering: json or py.
	KeyOutput = "output"
	// KeyVerbosity selects how chatty commands are: auto, quiet or verbose.
	KeyVerbosity = "verbosity"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputPy   = "py"
)

// Verbosity levels. Auto means quiet when stdout is not a terminal.
const (
	VerbosityAuto    = "auto"
	VerbosityQuiet   = "quiet"
	VerbosityVerbose = "verbose"
)

// Setting describes one global display setting.
type Setting struct {
	Default string
	Options []string
}

// CommonSettings maps each etc display setting to its default and, where
// the value set is closed, its allowed options. An empty Options slice
// means free-form (color schemes are validated by the renderer, which is
// outside this tool's scope).
var CommonSettings = map[string]Setting{
	KeyColorScheme: {Default: "monokai"},
	KeyOutput:      {Default: OutputJSON, Options: []string{OutputJSON, OutputPy}},
	KeyVerbosity:   {Default: VerbosityAuto, Options: []string{VerbosityAuto, VerbosityQuiet, VerbosityVerbose}},
}

// SettingValue returns the stored value for a global setting, or its
// documented default when unset.
func (st *Store) SettingValue(key string) string {
	def := ""
	if s, ok := CommonSettings[key]; ok {
		def = s.Default
	}
	return st.Get(EtcSection, key, def)
}

// ValidSettingValue reports whether value is acceptable for the given
// setting key. Unknown keys and closed-set violations are rejected.
func ValidSettingValue(key, value string) bool {
	s, ok := CommonSettings[key]
	if !ok {
		return false
	}
	if len(s.Options) == 0 {
		return value != ""
	}
	for _, opt := range s.Options {
		if value == opt {
			return true
		}
	}
	return false
}
