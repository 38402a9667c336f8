/*
Package pixl is a pixel grid drawing engine: it models a square canvas of
colored cells, the pointer protocol painting them, a full undo/redo history
and the rasterizer exporting the grid as PNG, JPEG or BMP images.

The package provides a command line interface which replays drawing scripts
into images, one by one or in batch, and an interactive Gio editor.
To check the supported commands type:

	$ pixl --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/cheryl-qian/pixl"
	)

	func main() {
		s, _ := pixl.NewSession(32)
		s.SetHue(210)
		s.Press(4, 4)
		s.Hover(4, 5)
		s.Release()

		f, _ := os.Create("out.png")
		defer f.Close()

		opts := pixl.ExportOptions{Format: pixl.PNG, Scale: 10, Quality: 100}
		if err := s.Export(f, opts); err != nil {
			fmt.Printf("Error exporting image: %s", err.Error())
		}
	}
*/
package pixl
