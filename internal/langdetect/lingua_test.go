package langdetect

import "testing"

func TestIsForeignSkipsShortLines(t *testing.T) {
	t.Parallel()

	d := New(0)
	for _, line := range []string{"Lakers -5", "o215.5 -110", "Chiefs ML", ""} {
		if d.IsForeign(line) {
			t.Fatalf("short line %q must never be reported", line)
		}
	}
}

func TestIsForeign(t *testing.T) {
	t.Parallel()

	d := New(0.5)
	if !d.IsForeign("Apuesta realizada con éxito, consulte su historial de apuestas") {
		t.Fatalf("expected Spanish sportsbook chrome to be foreign")
	}
	if d.IsForeign("Taking the home side tonight with plenty of confidence") {
		t.Fatalf("expected English prose to pass")
	}
}
