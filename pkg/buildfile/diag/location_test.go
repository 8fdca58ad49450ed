package diag

import "testing"

func TestLocation_String(t *testing.T) {
	loc := Location{File: "build.anvil", Line: 3, Column: 5}
	if got := loc.String(); got != "build.anvil:3:5" {
		t.Errorf("String() = %q, want %q", got, "build.anvil:3:5")
	}

	if got := (Location{}).String(); got != "<unknown>" {
		t.Errorf("String() = %q, want %q", got, "<unknown>")
	}
}

func TestLocation_Annotate(t *testing.T) {
	loc := Location{File: "build.anvil", Line: 3, Column: 5}
	if got := loc.Annotate("bad value"); got != "3:5: bad value" {
		t.Errorf("Annotate() = %q, want %q", got, "3:5: bad value")
	}

	if got := (Location{}).Annotate("bad value"); got != "bad value" {
		t.Errorf("Annotate() without position = %q, want unchanged message", got)
	}
}

func TestSplitAnnotation(t *testing.T) {
	line, column, bare := SplitAnnotation("2:3: invalid value type in 'tools' map")
	if line != 2 || column != 3 || bare != "invalid value type in 'tools' map" {
		t.Errorf("SplitAnnotation() = (%d, %d, %q)", line, column, bare)
	}

	line, column, bare = SplitAnnotation("missing document in stream")
	if line != 0 || column != 0 || bare != "missing document in stream" {
		t.Errorf("SplitAnnotation() without prefix = (%d, %d, %q)", line, column, bare)
	}
}

func TestDiagnostic_Error(t *testing.T) {
	d := Diagnostic{
		Location: Location{File: "build.anvil", Line: 2, Column: 3},
		Message:  "invalid value type in 'tools' map",
	}
	want := "build.anvil: 2:3: invalid value type in 'tools' map"
	if got := d.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	d = Diagnostic{Message: "missing document in stream"}
	if got := d.Error(); got != "missing document in stream" {
		t.Errorf("Error() without location = %q", got)
	}
}
