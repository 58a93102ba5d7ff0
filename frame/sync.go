package frame

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/audefa/flacparse/meta"
)

// FindBoundary locates the end of the frame that starts at data[0], whose
// header cur has already been decoded. A frame carries no length of its own;
// it ends where the next frame header begins, so the finder scans for the
// next sync occurrence whose candidate header decodes and is consistent with
// the stream. Sync occurrences inside the audio payload can mimic a header;
// they are rejected by the CRC-8 and consistency checks and skipped.
//
// On success it returns the frame length end and the validated header of the
// next frame. It returns io.ErrUnexpectedEOF when the search is undecided
// until more bytes arrive: either no occurrence was found before data ran
// out, or a candidate header straddles the end of data. It returns
// ErrInvalidFrame when stream info bounds the frame size and no boundary was
// found within FrameSizeMax+SyncLen bytes.
func FindBoundary(data []byte, info *meta.StreamInfo, blocking Blocking, cur *Header) (end int, next *Header, err error) {
	// The next header cannot start inside the sync pattern, nor before the
	// stream-wide minimum frame size.
	start := SyncLen
	if info != nil && int(info.FrameSizeMin) > start {
		start = int(info.FrameSizeMin)
	}
	limit := len(data)
	bounded := false
	if info != nil && info.FrameSizeMax > 0 {
		if max := int(info.FrameSizeMax) + SyncLen; max <= len(data) {
			limit = max
			bounded = true
		}
	}

	// The second sync byte pins the blocking strategy bit, so the scan can
	// match the full 16-bit pattern.
	second := byte(0xF8)
	if blocking == BlockingVariable {
		second = 0xF9
	}

	for i := start; i+SyncLen <= limit; i++ {
		skip := bytes.IndexByte(data[i:limit-1], 0xFF)
		if skip < 0 {
			break
		}
		i += skip
		if data[i+1] != second {
			continue
		}
		hdr, _, err := ParseHeader(data[i:], info, blocking, cur)
		switch {
		case err == nil:
			return i, hdr, nil
		case err == io.ErrUnexpectedEOF:
			// The candidate straddles the end of data; whether it is the
			// boundary is not decidable yet.
			return 0, nil, io.ErrUnexpectedEOF
		}
		// A rejected candidate is audio payload; keep scanning.
	}

	if !bounded {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return 0, nil, errors.WithStack(ErrInvalidFrame)
}
