// flacparse lists the records of FLAC files: the stream info, the metadata
// blocks and the audio frames, in the order they appear in the stream.
//
// Usage: flacparse [OPTION]... FILE...
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/audefa/flacparse"
	"github.com/audefa/flacparse/frame"
)

var (
	// flagStreaming accepts input that lacks the fLaC signature and metadata
	// blocks.
	flagStreaming bool
	// flagFrames lists every audio frame rather than only the frame count.
	flagFrames bool
	// flagChunkSize is the read size in bytes used when feeding the parser.
	flagChunkSize int
)

func init() {
	flag.BoolVar(&flagStreaming, "streaming", false, "Accept input without fLaC signature and metadata blocks.")
	flag.BoolVar(&flagFrames, "frames", false, "List every audio frame.")
	flag.IntVar(&flagChunkSize, "chunk", 4096, "Read size in bytes.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: flacparse [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 || flagChunkSize < 1 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := list(path); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// list feeds the file at path through a parser chunk by chunk and prints its
// records.
func list(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var opts []flacparse.Option
	if flagStreaming {
		opts = append(opts, flacparse.Streaming())
	}
	p := flacparse.New(opts...)

	var (
		nblocks int
		nframes int
	)
	buf := make([]byte, flagChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			recs, perr := p.Parse(buf[:n])
			if perr != nil {
				return perr
			}
			for _, rec := range recs {
				switch rec := rec.(type) {
				case flacparse.Format:
					listInfo(path, rec)
				case flacparse.Opaque:
					if nblocks > 0 || string(rec.Data) != "fLaC" {
						fmt.Printf("%s: METADATA block (%d bytes)\n", path, len(rec.Data))
					}
					nblocks++
				case flacparse.Frame:
					nframes++
					if flagFrames {
						listFrame(path, nframes, rec.Header, len(rec.Data))
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	last := p.Flush()
	nframes++
	if flagFrames {
		listFrame(path, nframes, last.Header, len(last.Data))
	}
	fmt.Printf("%s: %d frames, %d bytes\n", path, nframes, p.Pos()+uint64(len(last.Data)))
	return nil
}

// listInfo prints the stream info the way metaflac --list does.
func listInfo(path string, rec flacparse.Format) {
	info := rec.Info
	fmt.Printf("%s: STREAMINFO\n", path)
	fmt.Printf("  minimum blocksize: %d samples\n", info.BlockSizeMin)
	fmt.Printf("  maximum blocksize: %d samples\n", info.BlockSizeMax)
	fmt.Printf("  minimum framesize: %d bytes\n", info.FrameSizeMin)
	fmt.Printf("  maximum framesize: %d bytes\n", info.FrameSizeMax)
	fmt.Printf("  sample_rate: %d Hz\n", info.SampleRate)
	fmt.Printf("  channels: %d\n", info.NChannels)
	fmt.Printf("  bits-per-sample: %d\n", info.BitsPerSample)
	fmt.Printf("  total samples: %d\n", info.NSamples)
	fmt.Printf("  MD5 signature: %x\n", info.MD5sum)
}

func listFrame(path string, n int, hdr frame.Header, size int) {
	fmt.Printf("%s: FRAME %d\n", path, n)
	fmt.Printf("  sample number: %d\n", hdr.SampleNum)
	fmt.Printf("  block size: %d samples\n", hdr.BlockSize)
	fmt.Printf("  size: %d bytes\n", size)
}
