package flacparse

import (
	"github.com/audefa/flacparse/frame"
	"github.com/audefa/flacparse/meta"
)

// A Record is one parsed segment of a FLAC stream. Concatenating the Data of
// all Opaque and Frame records in emission order reproduces the consumed
// input byte for byte.
//
// Record is implemented by Format, Opaque and Frame.
type Record interface {
	isRecord()
}

// A Format record reports the stream-wide audio parameters. It is emitted
// once per stream: decoded from the STREAMINFO block, or derived from the
// first frame header when parsing a bare frame sequence in streaming mode.
// Format carries no stream bytes of its own.
type Format struct {
	Info *meta.StreamInfo
}

// An Opaque record carries raw stream bytes that pass through without
// interpretation: the "fLaC" stream marker, or a whole metadata block
// including its header.
type Opaque struct {
	Data []byte
}

// A Frame record carries the raw bytes of one audio frame, header and
// payload, together with the metadata decoded from the header.
type Frame struct {
	Data   []byte
	Header frame.Header
}

func (Format) isRecord() {}
func (Opaque) isRecord() {}
func (Frame) isRecord()  {}
