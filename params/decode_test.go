package params

import (
	"errors"
	"testing"
)

func TestDecodeOptions(t *testing.T) {
	opts := NewDecodeOptions()
	if opts.SkipResolutions() != 0 || opts.LayersToDecode() != 0 || !opts.Premultiplied() {
		t.Fatalf("unexpected defaults: %+v", opts)
	}

	opts, err := opts.WithSkipResolutions(2)
	if err != nil {
		t.Fatalf("WithSkipResolutions(2) failed: %v", err)
	}
	opts, err = opts.WithLayersToDecode(3)
	if err != nil {
		t.Fatalf("WithLayersToDecode(3) failed: %v", err)
	}
	opts = opts.WithoutPremultiplication()

	if opts.SkipResolutions() != 2 {
		t.Errorf("SkipResolutions() = %d, want 2", opts.SkipResolutions())
	}
	if opts.LayersToDecode() != 3 {
		t.Errorf("LayersToDecode() = %d, want 3", opts.LayersToDecode())
	}
	if opts.Premultiplied() {
		t.Error("Premultiplied() = true after WithoutPremultiplication")
	}
}

func TestDecodeOptionsRejectNegative(t *testing.T) {
	opts := NewDecodeOptions()

	if _, err := opts.WithSkipResolutions(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WithSkipResolutions(-1) error = %v, want %v", err, ErrOutOfRange)
	}
	if _, err := opts.WithLayersToDecode(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WithLayersToDecode(-1) error = %v, want %v", err, ErrOutOfRange)
	}
}
