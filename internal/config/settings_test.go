package config

import "testing"

func TestSettingValueDefaults(t *testing.T) {
	st := tempStore(t)

	if got := st.SettingValue(KeyOutput); got != OutputJSON {
		t.Errorf("expected default output %q, got %q", OutputJSON, got)
	}
	if got := st.SettingValue(KeyVerbosity); got != VerbosityAuto {
		t.Errorf("expected default verbosity %q, got %q", VerbosityAuto, got)
	}
	if got := st.SettingValue(KeyColorScheme); got != "monokai" {
		t.Errorf("expected default color scheme monokai, got %q", got)
	}

	st.Set(EtcSection, KeyOutput, OutputPy)
	if got := st.SettingValue(KeyOutput); got != OutputPy {
		t.Errorf("expected stored output %q, got %q", OutputPy, got)
	}
}

func TestValidSettingValue(t *testing.T) {
	tests := []struct {
		key, value string
		want       bool
	}{
		{KeyOutput, OutputJSON, true},
		{KeyOutput, OutputPy, true},
		{KeyOutput, "xml", false},
		{KeyVerbosity, VerbosityQuiet, true},
		{KeyVerbosity, "loud", false},
		{KeyColorScheme, "solarized", true},
		{KeyColorScheme, "", false},
		{"unknown_key", "anything", false},
	}

	for _, tt := range tests {
		if got := ValidSettingValue(tt.key, tt.value); got != tt.want {
			t.Errorf("ValidSettingValue(%q, %q) = %v, want %v", tt.key, tt.value, got, tt.want)
		}
	}
}
