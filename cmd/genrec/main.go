package main

import (
	"flag"
	"fmt"
	"os"

	"handpose/internal/replay"
	"handpose/internal/sensor/synthetic"
)

func main() {
	out := flag.String("out", "synthetic.jsonl", "Output recording path")
	fps := flag.Float64("fps", 30, "Frames per second")
	seconds := flag.Float64("seconds", 4, "Recording length in seconds")
	period := flag.Float64("period", synthetic.DefaultMotion.Period, "Seconds per grip cycle")
	drop := flag.Int("drop", 0, "Drop tracking every N-th frame (0: never)")

	flag.Parse()

	motion := synthetic.DefaultMotion
	motion.Period = *period
	motion.DropRate = *drop
	frames := int(*seconds * *fps)

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := replay.Record(f, synthetic.NewSource(motion, *fps), *fps, frames); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d frames (%.1fs at %.0f fps) to %s\n", frames, *seconds, *fps, *out)
}
