package testkit

import "testing"

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "lease busy for torvalds__linux", "busy")
}

func TestJSONFiles(t *testing.T) {
	p := WriteJSON(t, "commits.json", []map[string]string{{"hash": "abc"}})
	var got []map[string]string
	ReadJSON(t, p, &got)
	if len(got) != 1 || got[0]["hash"] != "abc" {
		t.Fatalf("unexpected %v", got)
	}
}

var now = func() string { return "real" }

func TestSwap(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &now, func() string { return "fake" })
		if now() != "fake" {
			t.Fatalf("swap did not take effect")
		}
	})
	if now() != "real" {
		t.Fatalf("swap not restored")
	}
}
