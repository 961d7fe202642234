package valueobject

import (
	"testing"
)

func TestNewFileName_StripsClientPath(t *testing.T) {
	tests := map[string]string{
		"report.pdf":                 "report.pdf",
		"C:\\Users\\me\\report.pdf":  "report.pdf",
		"/tmp/uploads/manual v2.doc": "manual v2.doc",
		"  spaced.txt  ":             "spaced.txt",
		"bad\x00name\r\n.pdf":        "badname.pdf",
	}
	for input, want := range tests {
		fn, err := NewFileName(input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		if fn.Value() != want {
			t.Errorf("%q: got %q, want %q", input, fn.Value(), want)
		}
	}
}

func TestNewFileName_Empty_ReturnsErrFileNameEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "dir/", "..", "\x01\x02", " \t\x7f "} {
		if _, err := NewFileName(input); err != ErrFileNameEmpty {
			t.Errorf("%q: expected ErrFileNameEmpty, got: %v", input, err)
		}
	}
}

func TestFileName_Extension(t *testing.T) {
	fn, _ := NewFileName("policy.final.docx")

	if fn.Extension() != ".docx" {
		t.Errorf("got %q, want %q", fn.Extension(), ".docx")
	}
}
