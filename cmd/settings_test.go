package cmd

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/tracker"
)

func TestParseQuietHours(t *testing.T) {
	tests := []struct {
		input   string
		want    []model.QuietRange
		wantErr bool
	}{
		{"", []model.QuietRange{}, false},
		{"22-7", []model.QuietRange{{22, 7}}, false},
		{"22-7, 12-13", []model.QuietRange{{22, 7}, {12, 13}}, false},
		{"22", nil, true},
		{"a-7", nil, true},
		{"22-b", nil, true},
	}
	for _, tt := range tests {
		got, err := parseQuietHours(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseQuietHours(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseQuietHours(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestApplySetting(t *testing.T) {
	s := model.DefaultSettings()
	steps := []struct{ key, value string }{
		{"tz", "+02:00"},
		{"notifications", "false"},
		{"session-length", "10"},
		{"focus-minutes", "50"},
		{"sound", "bell"},
		{"quiet-hours", "23-6"},
	}
	for _, st := range steps {
		if err := applySetting(&s, st.key, st.value); err != nil {
			t.Fatalf("applySetting(%s, %s): %v", st.key, st.value, err)
		}
	}
	if s.TZ != "+02:00" || s.Notifications || s.SessionLengthMinutes != 10 || s.FocusMinutes != 50 || s.Sound != "bell" {
		t.Errorf("unexpected settings %+v", s)
	}
	if !reflect.DeepEqual(s.QuietHours, []model.QuietRange{{23, 6}}) {
		t.Errorf("quiet hours = %v", s.QuietHours)
	}

	if err := applySetting(&s, "audio", "maybe"); err == nil {
		t.Error("expected error for non-bool audio")
	}
	if err := applySetting(&s, "colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSettingsYAMLRoundTrip(t *testing.T) {
	in := model.DefaultSettings()
	in.TZ = "-05:30"
	in.QuietHours = []model.QuietRange{{21, 8}}

	data, err := encodeSettings(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := decodeSettings(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestDecodeSettingsPartialAndInvalid(t *testing.T) {
	got, err := decodeSettings([]byte("tz: \"+01:00\"\nfocus_minutes: 45\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := model.DefaultSettings()
	want.TZ = "+01:00"
	want.FocusMinutes = 45
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeSettings = %+v, want %+v", got, want)
	}

	_, err = decodeSettings([]byte("quiet_hours: [[25, 3]]\n"))
	if !errors.Is(err, tracker.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
	_, err = decodeSettings([]byte("tz: [\n"))
	if !errors.Is(err, tracker.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for malformed YAML, got %v", err)
	}
}
