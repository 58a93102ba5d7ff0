// Package frame implements decoding and validation of FLAC audio frame
// headers and location of frame boundaries. The audio samples within a frame
// are not decoded; a frame passes through as its raw bytes together with the
// metadata of its header.
package frame

// A Header contains the decoded metadata of an audio frame, such as its
// block size, sample rate and channel count.
//
// ref: https://www.xiph.org/flac/format.html#frame_header
type Header struct {
	// Blocking strategy of the stream the frame belongs to:
	//    true:  fixed block size.
	//    false: variable block size.
	HasFixedBlockSize bool
	// Block size of the frame in inter-channel samples.
	BlockSize uint16
	// Sample rate in Hz; 0 if the header defers to the STREAMINFO block and
	// no stream info is known.
	SampleRate uint32
	// Channel assignment of the frame's subframes.
	Channels Channels
	// Sample size in bits-per-sample; 0 if the header defers to the
	// STREAMINFO block and no stream info is known.
	BitsPerSample uint8
	// Inter-channel sample number of the first sample in the frame.
	SampleNum uint64
}

// Channels specifies the number of channels of a frame and their order,
// and whether stereo decorrelation is used between the subframes.
type Channels uint8

// Channel assignments. The following abbreviations are used:
//
//	C:   center
//	L:   left
//	Lfe: low-frequency effects
//	Ls:  left surround
//	R:   right
//	Rs:  right surround
//	S:   side (difference)
//	Sl:  side left
//	Sr:  side right
//
// The defined channel constants follow the SMPTE/ITU-R channel order.
const (
	ChannelsMono           Channels = iota // 1 channel: mono
	ChannelsLR                             // 2 channels: left, right
	ChannelsLRC                            // 3 channels: left, right, center
	ChannelsLRLsRs                         // 4 channels: left, right, left surround, right surround
	ChannelsLRCLsRs                        // 5 channels: left, right, center, left surround, right surround
	ChannelsLRCLfeLsRs                     // 6 channels: left, right, center, LFE, left surround, right surround
	ChannelsLRCLfeCsSlSr                   // 7 channels: left, right, center, LFE, center surround, side left, side right
	ChannelsLRCLfeLsRsSlSr                 // 8 channels: left, right, center, LFE, left surround, right surround, side left, side right
	ChannelsLeftSide                       // left/side stereo:  left, side
	ChannelsSideRight                      // side/right stereo: side, right
	ChannelsMidSide                        // mid/side stereo:   mid, side
)

// nChannels maps from a channel assignment to its number of channels.
var nChannels = [...]int{
	ChannelsMono:           1,
	ChannelsLR:             2,
	ChannelsLRC:            3,
	ChannelsLRLsRs:         4,
	ChannelsLRCLsRs:        5,
	ChannelsLRCLfeLsRs:     6,
	ChannelsLRCLfeCsSlSr:   7,
	ChannelsLRCLfeLsRsSlSr: 8,
	ChannelsLeftSide:       2,
	ChannelsSideRight:      2,
	ChannelsMidSide:        2,
}

// Count returns the number of channels used by the provided channel
// assignment.
func (channels Channels) Count() int {
	if int(channels) < len(nChannels) {
		return nChannels[channels]
	}
	return 0
}

// StereoMode specifies the inter-channel decorrelation used between the two
// subframes of a stereo frame.
type StereoMode uint8

// Stereo decorrelation modes.
const (
	// StereoIndependent: channels are coded independently of one another.
	StereoIndependent StereoMode = iota
	// StereoLeftSide: left channel and the difference of left and right.
	StereoLeftSide
	// StereoRightSide: right channel and the difference of left and right.
	StereoRightSide
	// StereoMidSide: average of the channels and their difference.
	StereoMidSide
)

// Mode returns the stereo decorrelation mode of the channel assignment.
func (channels Channels) Mode() StereoMode {
	switch channels {
	case ChannelsLeftSide:
		return StereoLeftSide
	case ChannelsSideRight:
		return StereoRightSide
	case ChannelsMidSide:
		return StereoMidSide
	}
	return StereoIndependent
}

// Blocking is the blocking strategy of a stream. The strategy is established
// by the first frame header and never changes for the lifetime of the
// stream.
type Blocking uint8

// Blocking strategies.
const (
	// BlockingUnknown: no frame header has been seen yet.
	BlockingUnknown Blocking = iota
	// BlockingFixed: all frames but the last carry the same block size; the
	// coded number of a frame header is a frame number.
	BlockingFixed
	// BlockingVariable: frames carry individual block sizes; the coded
	// number of a frame header is a sample number.
	BlockingVariable
)

func (blocking Blocking) String() string {
	switch blocking {
	case BlockingFixed:
		return "fixed"
	case BlockingVariable:
		return "variable"
	}
	return "unknown"
}
