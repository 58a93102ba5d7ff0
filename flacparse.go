// Package flacparse implements incremental segmentation of FLAC (Free
// Lossless Audio Codec) streams. [1]
//
// The basic structure of a FLAC bitstream is:
//   - The four byte string signature "fLaC".
//   - The StreamInfo metadata block.
//   - Zero or more other metadata blocks.
//   - One or more audio frames.
//
// A Parser is fed the bitstream in chunks of any size and emits an ordered
// sequence of records: the stream parameters (Format), the marker and
// metadata blocks as raw bytes (Opaque), and the audio frames as raw bytes
// with their decoded header metadata (Frame). Audio samples are not decoded.
// Input that a record cannot yet be produced from is buffered until the next
// call, so chunk boundaries never affect the emitted records.
//
// [1]: https://www.xiph.org/flac/format.html
package flacparse

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/audefa/flacparse/frame"
	"github.com/audefa/flacparse/meta"
)

// flacSignature marks the beginning of a FLAC stream.
const flacSignature = "fLaC"

// minStreamStart is the smallest useful amount of leading input: the
// signature, a metadata block header and a STREAMINFO block body. The Stream
// phase holds input until that much has arrived.
const minStreamStart = len(flacSignature) + meta.HeaderLen + meta.StreamInfoLen

// ErrNotStream is returned when the input does not begin with the FLAC
// stream signature and streaming mode is off.
var ErrNotStream = errors.New("flacparse: missing fLaC signature")

// phase is the parsing phase a Parser is in.
type phase uint8

const (
	// phaseStream: before the stream signature has been recognized.
	phaseStream phase = iota
	// phaseMetadata: inside the metadata block sequence.
	phaseMetadata
	// phaseFrame: inside the audio frame sequence.
	phaseFrame
)

// A Parser segments a FLAC bitstream into records. It is fed with Parse and
// drained with Flush; a Parser handles a single stream and is not safe for
// concurrent use.
type Parser struct {
	// Bytes received but not yet consumed into records.
	queue []byte
	// Current parsing phase.
	phase phase
	// Absolute offset of the first queued byte within the stream.
	pos uint64
	// Stream info; nil until the STREAMINFO block is parsed, or until
	// derived from the first frame header in streaming mode.
	info *meta.StreamInfo
	// Blocking strategy established by the first frame header.
	blocking frame.Blocking
	// Header of the in-flight frame: decoded, but its terminal boundary not
	// yet located. The in-flight frame starts at queue[0] while in
	// phaseFrame.
	cur *frame.Header
	// Accept input that lacks the signature and metadata blocks.
	streaming bool
}

// An Option configures a Parser.
type Option func(*Parser)

// Streaming configures a Parser to accept a bare frame sequence: input may
// begin at any frame boundary and omit the stream signature and metadata
// blocks. The stream info is then derived from the first frame header.
func Streaming() Option {
	return func(p *Parser) { p.streaming = true }
}

// New returns a new Parser for a single FLAC stream.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pos returns the absolute byte offset of the next unconsumed byte; the sum
// of the lengths of all Opaque and Frame payloads returned by Parse. Flush
// does not advance it.
func (p *Parser) Pos() uint64 {
	return p.pos
}

// Parse ingests the next chunk of the stream and returns the records that
// became complete, in stream order. Input that no record could be produced
// from stays buffered for the next call. On error the Parser is spent; the
// error carries the byte position where parsing stopped.
func (p *Parser) Parse(chunk []byte) (recs []Record, err error) {
	p.queue = append(p.queue, chunk...)
	for {
		switch p.phase {
		case phaseStream:
			if len(p.queue) < minStreamStart {
				return recs, nil
			}
			if !bytes.HasPrefix(p.queue, []byte(flacSignature)) {
				if p.streaming {
					p.phase = phaseFrame
					continue
				}
				return recs, errors.Wrapf(ErrNotStream, "pos %d", p.pos)
			}
			recs = append(recs, Opaque{Data: p.take(len(flacSignature))})
			p.phase = phaseMetadata

		case phaseMetadata:
			done, rs, err := p.parseBlock(recs)
			recs = rs
			if err != nil {
				return recs, err
			}
			if !done {
				return recs, nil
			}

		case phaseFrame:
			done, rs, err := p.parseFrame(recs)
			recs = rs
			if err != nil {
				return recs, err
			}
			if !done {
				return recs, nil
			}
		}
	}
}

// parseBlock consumes one whole metadata block from the queue. It reports
// done=false when the block is not complete yet.
func (p *Parser) parseBlock(recs []Record) (done bool, _ []Record, err error) {
	hdr, err := meta.ParseHeader(p.queue)
	if err == io.ErrUnexpectedEOF {
		return false, recs, nil
	}
	if err != nil {
		return false, recs, errors.Wrapf(err, "pos %d", p.pos)
	}
	total := meta.HeaderLen + hdr.Length
	if len(p.queue) < total {
		return false, recs, nil
	}

	if p.info == nil {
		if hdr.Type != meta.TypeStreamInfo {
			return false, recs, errors.Errorf("flacparse: first metadata block is %s, not %s (pos %d)", hdr.Type, meta.TypeStreamInfo, p.pos)
		}
		info, err := meta.ParseStreamInfo(p.queue[meta.HeaderLen:total])
		if err != nil {
			return false, recs, errors.Wrapf(err, "pos %d", p.pos)
		}
		p.info = info
		// The stream parameters go ahead of the bytes they were decoded
		// from. The Stream phase holds input until signature and STREAMINFO
		// are both complete, so all records of the stream head surface in
		// one call and their order is independent of chunking.
		recs = append([]Record{Format{Info: info}}, recs...)
	}

	recs = append(recs, Opaque{Data: p.take(total)})
	if hdr.IsLast {
		p.phase = phaseFrame
	}
	return true, recs, nil
}

// parseFrame decodes the in-flight frame header if none is established and
// consumes one whole frame from the queue. It reports done=false when the
// frame's terminal boundary cannot be located in the queued bytes.
func (p *Parser) parseFrame(recs []Record) (done bool, _ []Record, err error) {
	if p.cur == nil {
		hdr, _, err := frame.ParseHeader(p.queue, p.info, p.blocking, nil)
		if err == io.ErrUnexpectedEOF {
			return false, recs, nil
		}
		if err != nil {
			return false, recs, errors.Wrapf(err, "pos %d", p.pos)
		}
		if p.blocking == frame.BlockingUnknown {
			if hdr.HasFixedBlockSize {
				p.blocking = frame.BlockingFixed
			} else {
				p.blocking = frame.BlockingVariable
			}
		}
		if p.info == nil {
			p.info = deriveInfo(hdr)
			recs = append(recs, Format{Info: p.info})
		}
		p.cur = hdr
	}

	end, next, err := frame.FindBoundary(p.queue, p.info, p.blocking, p.cur)
	if err == io.ErrUnexpectedEOF {
		return false, recs, nil
	}
	if err != nil {
		return false, recs, errors.Wrapf(err, "pos %d", p.pos)
	}
	hdr := *p.cur
	recs = append(recs, Frame{Data: p.take(end), Header: hdr})
	p.cur = next
	return true, recs, nil
}

// Flush drains the Parser and returns the final frame of the stream: the
// boundary finder can only terminate a frame at the start of the next one,
// so the last frame is emitted by flushing once the whole stream has been
// ingested. The queued bytes are returned unvalidated, with the metadata of
// the in-flight frame header.
func (p *Parser) Flush() Frame {
	f := Frame{Data: p.queue}
	if p.cur != nil {
		f.Header = *p.cur
	}
	p.queue = nil
	p.cur = nil
	return f
}

// take removes the first n queued bytes and returns them as an owned copy,
// advancing the stream position.
func (p *Parser) take(n int) []byte {
	data := bytes.Clone(p.queue[:n])
	p.queue = p.queue[n:]
	p.pos += uint64(n)
	return data
}

// deriveInfo builds stream info from the first frame header of a bare frame
// sequence. Only parameters the header states are filled in; the rest stay
// unknown. A fixed blocking strategy pins both block size bounds to the
// frame's block size; under variable blocking the bounds stay unknown.
func deriveInfo(hdr *frame.Header) *meta.StreamInfo {
	info := &meta.StreamInfo{
		SampleRate:    hdr.SampleRate,
		NChannels:     uint8(hdr.Channels.Count()),
		BitsPerSample: hdr.BitsPerSample,
	}
	if hdr.HasFixedBlockSize {
		info.BlockSizeMin = hdr.BlockSize
		info.BlockSizeMax = hdr.BlockSize
	}
	return info
}
