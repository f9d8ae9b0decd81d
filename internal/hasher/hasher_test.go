package hasher

import (
	"bytes"
	"errors"
	"testing"
)

func TestContentHash_Length(t *testing.T) {
	data := []byte("dithered pixels")
	if got := ContentHash(data, 0); len(got) != 16 {
		t.Errorf("full hash length: got %d", len(got))
	}
	if got := ContentHash(data, 8); len(got) != 8 {
		t.Errorf("truncated hash length: got %d", len(got))
	}
	if got := ContentHash(data, 99); len(got) != 16 {
		t.Errorf("oversized hexLen: got %d", len(got))
	}
}

func TestContentHash_KnownValue(t *testing.T) {
	// xxHash64 of the empty input.
	if got := ContentHash(nil, 0); got != "ef46db3751d8e999" {
		t.Errorf("empty hash: got %s", got)
	}
}

func TestContentHashReader_MatchesBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0, 127, 255}, 10000)
	want := ContentHash(data, DefaultHexLen)
	got, err := ContentHashReader(bytes.NewReader(data), DefaultHexLen)
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestContentHashReader_Error(t *testing.T) {
	if _, err := ContentHashReader(failingReader{}, 8); err == nil {
		t.Error("expected read error")
	}
}
