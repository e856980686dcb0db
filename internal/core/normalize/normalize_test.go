package normalize

import "testing"

func TestLabel_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "identity ascii", in: "acked-by", out: "acked-by"},
		{name: "case fold", in: "Signed-Off-By", out: "signed-off-by"},
		{name: "utf8 repair drops invalid bytes", in: string([]byte{0xff, 'a', 'c', 'k', 0x80}), out: "ack"},
		{name: "remove zero-widths", in: "re\u200bviewed-by", out: "reviewed-by"},
		{name: "width fold fullwidth", in: "ＴＥＳＴＥＤ-by", out: "tested-by"},
		{name: "collapse whitespace", in: "  acked \t and--reviewed   by ", out: "acked and--reviewed by"},
		{name: "en dash survives", in: "Reviewed–by", out: "reviewed–by"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Label(tc.in); got != tc.out {
				t.Fatalf("Label(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestLabel_Idempotent(t *testing.T) {
	in := "  \uff23o-Developed\u200d By  "
	once := Label(in)
	if twice := Label(once); twice != once {
		t.Fatalf("not idempotent: %q then %q", once, twice)
	}
}
