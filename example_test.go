package flacparse_test

import (
	"fmt"
	"log"

	"github.com/audefa/flacparse"
)

// Parse a bare frame sequence in streaming mode: the stream parameters are
// derived from the first frame header, and the final frame is drained with
// Flush once the input ends.
func Example() {
	var stream []byte
	for i := 0; i < 2; i++ {
		stream = append(stream, buildFrameHeader(uint64(i), 3, 5)...)
		stream = append(stream, payloadBytes(40, byte(i+1))...)
	}

	p := flacparse.New(flacparse.Streaming())
	recs, err := p.Parse(stream)
	if err != nil {
		log.Fatal(err)
	}
	recs = append(recs, p.Flush())

	for _, rec := range recs {
		switch rec := rec.(type) {
		case flacparse.Format:
			info := rec.Info
			fmt.Printf("format: %d Hz, %d channel, %d bits-per-sample\n",
				info.SampleRate, info.NChannels, info.BitsPerSample)
		case flacparse.Frame:
			fmt.Printf("frame: sample %d, %d samples, %d bytes\n",
				rec.Header.SampleNum, rec.Header.BlockSize, len(rec.Data))
		}
	}

	// Output:
	// format: 16000 Hz, 1 channel, 16 bits-per-sample
	// frame: sample 0, 1152 samples, 46 bytes
	// frame: sample 1152, 1152 samples, 46 bytes
}
