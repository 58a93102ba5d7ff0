package frame

import (
	"encoding/binary"
	"io"

	"github.com/mewkiz/pkg/hashutil/crc8"
	"github.com/pkg/errors"

	"github.com/audefa/flacparse/internal/bits"
	"github.com/audefa/flacparse/meta"
)

// SyncCode is the sync code of a frame header. Bit representation:
// 11111111111110.
const SyncCode = 0x3FFE

// SyncLen is the length in bytes of the sync pattern, i.e. the sync code,
// the reserved zero bit and the blocking strategy bit.
const SyncLen = 2

var (
	// ErrInvalidSync is returned when the bytes at a prospective frame start
	// do not carry the sync pattern, or carry the blocking strategy bit of
	// the opposite strategy than the one established for the stream.
	ErrInvalidSync = errors.New("frame: invalid sync code")
	// ErrReserved is returned when a reserved bit pattern is used by the
	// channel assignment or sample size, or the reserved bit following the
	// sample size is not zero.
	ErrReserved = errors.New("frame: reserved bit pattern")
	// ErrInvalidHeaderCRC is returned when the CRC-8 at the end of a frame
	// header does not match the checksum of the header bytes.
	ErrInvalidHeaderCRC = errors.New("frame: frame header CRC-8 mismatch")
	// ErrInvalidHeader is returned when a frame header decodes but
	// contradicts the stream info or the preceding frame.
	ErrInvalidHeader = errors.New("frame: frame header inconsistent with stream")
	// ErrInvalidFrame is returned when no valid frame boundary exists within
	// the maximum frame size of a frame start.
	ErrInvalidFrame = errors.New("frame: no valid frame boundary found")
)

// ParseHeader decodes and validates the frame header at the start of data.
// It returns the decoded header and its total length in bytes, including the
// trailing CRC-8 byte; the audio payload of the frame follows at data[n:].
//
// info is the stream info established for the stream, or nil if none is
// known yet; when known, the header is checked for consistency against it.
// blocking is the established blocking strategy, or BlockingUnknown to
// accept either. prev, if non-nil, is the header of the directly preceding
// frame; the decoded header must then continue its sample numbering.
//
// ParseHeader returns io.ErrUnexpectedEOF when data ends before the header
// does.
//
// Frame header format (pseudo code):
//
//	type FRAME_HEADER struct {
//	   sync_code          uint14
//	   _                  uint1
//	   blocking_strategy  uint1
//	   block_size_spec    uint4
//	   sample_rate_spec   uint4
//	   channel_assignment uint4
//	   sample_size_spec   uint3
//	   _                  uint1
//	   // "UTF-8" coded frame number (fixed) or sample number (variable).
//	   num                uint36
//	   // 0-2 bytes, as directed by block_size_spec.
//	   block_size         uint16
//	   // 0-2 bytes, as directed by sample_rate_spec.
//	   sample_rate        uint16
//	   crc8               uint8
//	}
//
// ref: https://www.xiph.org/flac/format.html#frame_header
func ParseHeader(data []byte, info *meta.StreamInfo, blocking Blocking, prev *Header) (hdr *Header, n int, err error) {
	if len(data) < 4 {
		return nil, 0, io.ErrUnexpectedEOF
	}

	// The first 32 bits are arranged according to the following masks.
	const (
		syncCodeMask   = 0xFFFC0000 // 14 bits   shift right: 18
		reserved1Mask  = 0x00020000 // 1 bit     shift right: 17
		blockingMask   = 0x00010000 // 1 bit     shift right: 16
		blockSizeMask  = 0x0000F000 // 4 bits    shift right: 12
		sampleRateMask = 0x00000F00 // 4 bits    shift right: 8
		channelsMask   = 0x000000F0 // 4 bits    shift right: 4
		sampleSizeMask = 0x0000000E // 3 bits    shift right: 1
		reserved2Mask  = 0x00000001 // 1 bit     shift right: 0
	)
	word := binary.BigEndian.Uint32(data)

	// Sync code. The reserved bit following it must be zero for the pattern
	// to count as a sync occurrence at all.
	if word&syncCodeMask>>18 != SyncCode || word&reserved1Mask != 0 {
		return nil, 0, errors.Wrapf(ErrInvalidSync, "got %016b", word>>16)
	}

	// Blocking strategy.
	//    0: fixed block size.
	//    1: variable block size.
	hdr = new(Header)
	hdr.HasFixedBlockSize = word&blockingMask == 0
	switch blocking {
	case BlockingFixed:
		if !hdr.HasFixedBlockSize {
			return nil, 0, errors.Wrap(ErrInvalidSync, "blocking strategy changed to variable")
		}
	case BlockingVariable:
		if hdr.HasFixedBlockSize {
			return nil, 0, errors.Wrap(ErrInvalidSync, "blocking strategy changed to fixed")
		}
	}

	// Channel assignment.
	//    0000-0111: (number of independent channels)-1.
	//    1000: left/side stereo.
	//    1001: side/right stereo.
	//    1010: mid/side stereo.
	//    1011-1111: reserved.
	if c := word & channelsMask >> 4; c <= uint32(ChannelsMidSide) {
		hdr.Channels = Channels(c)
	} else {
		return nil, 0, errors.Wrapf(ErrReserved, "channel assignment %04b", c)
	}

	// Sample size.
	//    000: get from STREAMINFO metadata block.
	//    001: 8 bits per sample.
	//    010: 12 bits per sample.
	//    011: reserved.
	//    100: 16 bits per sample.
	//    101: 20 bits per sample.
	//    110: 24 bits per sample.
	//    111: reserved.
	switch c := word & sampleSizeMask >> 1; c {
	case 0:
		if info != nil {
			hdr.BitsPerSample = info.BitsPerSample
		}
	case 1:
		hdr.BitsPerSample = 8
	case 2:
		hdr.BitsPerSample = 12
	case 4:
		hdr.BitsPerSample = 16
	case 5:
		hdr.BitsPerSample = 20
	case 6:
		hdr.BitsPerSample = 24
	default:
		return nil, 0, errors.Wrapf(ErrReserved, "sample size %03b", c)
	}

	// Reserved.
	if word&reserved2Mask != 0 {
		return nil, 0, errors.Wrap(ErrReserved, "nonzero reserved bit")
	}

	// "UTF-8" coded frame number or sample number.
	num, m, err := bits.DecodeUTF8Int(data[4:])
	if err != nil {
		return nil, 0, err
	}
	n = 4 + m

	// Block size tail.
	hdr.BlockSize, m, err = bits.DecodeBlockSize(uint8(word&blockSizeMask>>12), data[n:])
	if err != nil {
		return nil, 0, err
	}
	n += m

	// Sample rate tail.
	hdr.SampleRate, m, err = bits.DecodeSampleRate(uint8(word&sampleRateMask>>8), data[n:])
	if err != nil {
		return nil, 0, err
	}
	n += m
	if hdr.SampleRate == 0 && info != nil {
		hdr.SampleRate = info.SampleRate
	}

	// Verify the CRC-8 of the header bytes.
	if len(data) < n+1 {
		return nil, 0, io.ErrUnexpectedEOF
	}
	got := crc8.ChecksumATM(data[:n])
	if want := data[n]; want != got {
		return nil, 0, errors.Wrapf(ErrInvalidHeaderCRC, "expected 0x%02X, got 0x%02X", want, got)
	}
	n++

	// Derive the starting sample number. Under the fixed blocking strategy
	// num is a frame number; all frames but the last hold the same number of
	// samples, so the stream-wide minimum block size converts it. Before any
	// stream info exists the frame's own block size is the best available
	// stand-in.
	switch {
	case !hdr.HasFixedBlockSize:
		hdr.SampleNum = num
	case info != nil && info.BlockSizeMin > 0:
		hdr.SampleNum = num * uint64(info.BlockSizeMin)
	default:
		hdr.SampleNum = num * uint64(hdr.BlockSize)
	}

	// Consistency with the established stream info. The minimum block size
	// is deliberately not checked: the last frame of a fixed block size
	// stream may be shorter.
	if info != nil {
		if hdr.Channels.Count() != int(info.NChannels) {
			return nil, 0, errors.Wrapf(ErrInvalidHeader, "channel count %d, stream has %d", hdr.Channels.Count(), info.NChannels)
		}
		if hdr.SampleRate != info.SampleRate {
			return nil, 0, errors.Wrapf(ErrInvalidHeader, "sample rate %d, stream has %d", hdr.SampleRate, info.SampleRate)
		}
		if hdr.BitsPerSample != info.BitsPerSample {
			return nil, 0, errors.Wrapf(ErrInvalidHeader, "sample size %d, stream has %d", hdr.BitsPerSample, info.BitsPerSample)
		}
		if info.BlockSizeMax > 0 && hdr.BlockSize > info.BlockSizeMax {
			return nil, 0, errors.Wrapf(ErrInvalidHeader, "block size %d exceeds maximum %d", hdr.BlockSize, info.BlockSizeMax)
		}
	}

	// Continuity with the preceding frame.
	if prev != nil {
		if want := prev.SampleNum + uint64(prev.BlockSize); hdr.SampleNum != want {
			return nil, 0, errors.Wrapf(ErrInvalidHeader, "sample number %d, expected %d", hdr.SampleNum, want)
		}
	}

	return hdr, n, nil
}
