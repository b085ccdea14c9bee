package export

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"ScriptBoard/internal/render"
	"ScriptBoard/internal/state"
)

// PNG rasterizes snap at w×h pixels.
func PNG(out io.Writer, snap state.Snapshot, w, h int) error {
	if err := png.Encode(out, render.Image(w, h, snap)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func PNGFile(path string, snap state.Snapshot, w, h int) error {
	return writeFile(path, func(out io.Writer) error { return PNG(out, snap, w, h) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
