package bits

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	// ErrInvalidBlockSize is returned for the reserved block size bit
	// pattern 0000.
	ErrInvalidBlockSize = errors.New("bits: invalid block size; reserved bit pattern")
	// ErrInvalidSampleRate is returned for the sample rate bit pattern 1111,
	// which is invalid to prevent sync-fooling strings of 1s.
	ErrInvalidSampleRate = errors.New("bits: invalid sample rate bit pattern")
)

// DecodeBlockSize resolves a 4-bit coded block size to a sample count. Codes
// 0110 and 0111 take their value from the bytes that follow the coded
// frame/sample number; tail holds those bytes and n reports how many were
// consumed.
//
// Block size codes:
//
//	0000: reserved.
//	0001: 192 samples.
//	0010-0101: 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608.
//	0110: get 8 bit (block size)-1 from end of header.
//	0111: get 16 bit (block size)-1 from end of header.
//	1000-1111: 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/
//	           16384/32768.
func DecodeBlockSize(code uint8, tail []byte) (size uint16, n int, err error) {
	switch {
	case code == 0:
		return 0, 0, ErrInvalidBlockSize
	case code == 1:
		return 192, 0, nil
	case code <= 5:
		return 576 << (code - 2), 0, nil
	case code == 6:
		if len(tail) < 1 {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return uint16(tail[0]) + 1, 1, nil
	case code == 7:
		if len(tail) < 2 {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return binary.BigEndian.Uint16(tail) + 1, 2, nil
	default:
		return 1 << code, 0, nil
	}
}

// fixedSampleRates holds the sample rates of codes 0001 through 1011.
var fixedSampleRates = [...]uint32{
	88200, 176400, 192000, 8000, 16000, 22050, 24000, 32000, 44100, 48000, 96000,
}

// DecodeSampleRate resolves a 4-bit coded sample rate to a rate in Hz. Codes
// 1100 through 1110 take their value from the bytes following the coded
// block size; tail holds those bytes and n reports how many were consumed.
// Code 0000 yields rate 0, meaning the rate of the STREAMINFO block applies.
//
// Sample rate codes:
//
//	0000: get from STREAMINFO metadata block.
//	0001-1011: 88.2/176.4/192/8/16/22.05/24/32/44.1/48/96 kHz.
//	1100: get 8 bit sample rate (in kHz) from end of header.
//	1101: get 16 bit sample rate (in Hz) from end of header.
//	1110: get 16 bit sample rate (in tens of Hz) from end of header.
//	1111: invalid.
func DecodeSampleRate(code uint8, tail []byte) (rate uint32, n int, err error) {
	switch {
	case code == 0:
		return 0, 0, nil
	case code <= 11:
		return fixedSampleRates[code-1], 0, nil
	case code == 12:
		if len(tail) < 1 {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return uint32(tail[0]) * 1000, 1, nil
	case code == 13:
		if len(tail) < 2 {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return uint32(binary.BigEndian.Uint16(tail)), 2, nil
	case code == 14:
		if len(tail) < 2 {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return uint32(binary.BigEndian.Uint16(tail)) * 10, 2, nil
	default:
		return 0, 0, ErrInvalidSampleRate
	}
}
