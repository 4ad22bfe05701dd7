// Stitchery converts images into counted-thread embroidery patterns.
package main

import "github.com/philpinto/stitchery/internal/cli"

func main() {
	cli.Execute()
}
