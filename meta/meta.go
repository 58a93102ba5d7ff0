// Package meta implements parsing of FLAC metadata block headers and of the
// STREAMINFO block body. The bodies of all other block types are treated as
// opaque byte ranges.
package meta

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/eaburns/bit"
)

// HeaderLen is the length in bytes of a metadata block header.
const HeaderLen = 4

// Type identifies the metadata block type.
type Type uint8

// Metadata block types.
//
//	0:     Streaminfo
//	1:     Padding
//	2:     Application
//	3:     Seektable
//	4:     Vorbis_comment
//	5:     Cuesheet
//	6:     Picture
//	7-126: reserved
//	127:   invalid, to avoid confusion with a frame sync code
const (
	TypeStreamInfo Type = iota
	TypePadding
	TypeApplication
	TypeSeekTable
	TypeVorbisComment
	TypeCueSheet
	TypePicture
)

// typeName is a map from Type to name.
var typeName = map[Type]string{
	TypeStreamInfo:    "stream info",
	TypePadding:       "padding",
	TypeApplication:   "application",
	TypeSeekTable:     "seek table",
	TypeVorbisComment: "vorbis comment",
	TypeCueSheet:      "cue sheet",
	TypePicture:       "picture",
}

func (t Type) String() string {
	if name, ok := typeName[t]; ok {
		return name
	}
	return fmt.Sprintf("<unknown block type %d>", uint8(t))
}

// A Header contains type and length information about a metadata block.
type Header struct {
	// IsLast is true if this block is the last metadata block before the
	// audio frames, and false otherwise.
	IsLast bool
	// Block type.
	Type Type
	// Length in bytes of the metadata body.
	Length int
}

// ParseHeader parses and returns a metadata block header from the start of
// data. It returns io.ErrUnexpectedEOF if fewer than HeaderLen bytes are
// available.
//
// Block header format (pseudo code):
//
//	type METADATA_BLOCK_HEADER struct {
//	   is_last    bool
//	   block_type uint7
//	   length     uint24
//	}
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_header
func ParseHeader(data []byte) (hdr Header, err error) {
	if len(data) < HeaderLen {
		return Header{}, io.ErrUnexpectedEOF
	}
	br := bit.NewReader(bytes.NewReader(data[:HeaderLen]))
	// is_last:    1 bit
	// block_type: 7 bits
	// length:     24 bits
	fields, err := br.ReadFields(1, 7, 24)
	if err != nil {
		return Header{}, err
	}

	hdr = Header{
		IsLast: fields[0] != 0,
		Type:   Type(fields[1]),
		// int won't overflow since the max value of Length is 0x00FFFFFF.
		Length: int(fields[2]),
	}
	if hdr.Type > TypePicture {
		if hdr.Type == 127 {
			return Header{}, errors.New("meta: invalid metadata block type")
		}
		return Header{}, errors.New("meta: reserved metadata block type")
	}
	return hdr, nil
}
