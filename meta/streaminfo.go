package meta

import (
	"bytes"
	"io"

	"github.com/eaburns/bit"
)

// StreamInfoLen is the length in bytes of a STREAMINFO block body.
const StreamInfoLen = 34

// StreamInfo contains the basic properties of the audio stream, such as its
// sample rate and channel count. It must be present as the first metadata
// block of a FLAC stream.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// Minimum block size (in samples) used in the stream; between 16 and
	// 65535 samples. 0 means unknown.
	BlockSizeMin uint16
	// Maximum block size (in samples) used in the stream; between 16 and
	// 65535 samples. 0 means unknown.
	BlockSizeMax uint16
	// Minimum frame size in bytes; a 24-bit value. 0 means unknown.
	FrameSizeMin uint32
	// Maximum frame size in bytes; a 24-bit value. 0 means unknown.
	FrameSizeMax uint32
	// Sample rate in Hz; a 20-bit value.
	SampleRate uint32
	// Number of channels; between 1 and 8.
	NChannels uint8
	// Sample size in bits-per-sample; between 4 and 32.
	BitsPerSample uint8
	// Total number of inter-channel samples in the stream. One inter-channel
	// sample is one sample for each channel. 0 means unknown.
	NSamples uint64
	// MD5 signature of the unencoded audio data. All zero means unknown.
	MD5sum [16]byte
}

// ParseStreamInfo parses and returns the STREAMINFO block body at the start
// of data. It returns io.ErrUnexpectedEOF if fewer than StreamInfoLen bytes
// are available.
//
// Block body format (pseudo code):
//
//	type METADATA_BLOCK_STREAMINFO struct {
//	   block_size_min  uint16
//	   block_size_max  uint16
//	   frame_size_min  uint24
//	   frame_size_max  uint24
//	   sample_rate     uint20
//	   nchannels       uint3 // (number of channels)-1
//	   bits_per_sample uint5 // (bits-per-sample)-1
//	   nsamples        uint36
//	   md5sum          [16]byte
//	}
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
func ParseStreamInfo(data []byte) (info *StreamInfo, err error) {
	if len(data) < StreamInfoLen {
		return nil, io.ErrUnexpectedEOF
	}
	br := bit.NewReader(bytes.NewReader(data[:StreamInfoLen]))
	fields, err := br.ReadFields(16, 16, 24, 24, 20, 3, 5, 36)
	if err != nil {
		return nil, err
	}

	info = &StreamInfo{
		BlockSizeMin:  uint16(fields[0]),
		BlockSizeMax:  uint16(fields[1]),
		FrameSizeMin:  uint32(fields[2]),
		FrameSizeMax:  uint32(fields[3]),
		SampleRate:    uint32(fields[4]),
		NChannels:     uint8(fields[5]) + 1,
		BitsPerSample: uint8(fields[6]) + 1,
		NSamples:      fields[7],
	}
	// The bit fields above cover the first 18 bytes; the MD5 signature
	// occupies the remaining 16.
	copy(info.MD5sum[:], data[18:StreamInfoLen])
	return info, nil
}
