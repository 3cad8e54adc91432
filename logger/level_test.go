package logger

import "testing"

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOk bool
	}{
		{in: "trace", want: LevelTrace, wantOk: true},
		{in: "dbg", want: LevelDebug, wantOk: true},
		{in: "INFO", want: LevelInfo, wantOk: true},
		{in: "warn", want: LevelWarn, wantOk: true},
		{in: "error", want: LevelError, wantOk: true},
		{in: "critical", want: LevelCritical, wantOk: true},
		{in: "off", want: LevelOff, wantOk: true},
		{in: "nonsense", want: LevelInfo, wantOk: false},
	}

	for _, test := range tests {
		got, ok := LevelFromString(test.in)
		if got != test.want || ok != test.wantOk {
			t.Errorf("LevelFromString(%q) = (%v, %v), want (%v, %v)",
				test.in, got, ok, test.want, test.wantOk)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelInfo.String() != "INF" {
		t.Errorf("LevelInfo renders as %q, want INF", LevelInfo.String())
	}
	if LevelOff.String() != "OFF" {
		t.Errorf("LevelOff renders as %q, want OFF", LevelOff.String())
	}
	if Level(250).String() != "OFF" {
		t.Errorf("out-of-range level renders as %q, want OFF", Level(250).String())
	}
}
