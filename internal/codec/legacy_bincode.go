package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

// Earlier desktop releases stored .bin bodies as little-endian fixed-width
// records: strings and sequences carry a u64 length prefix, integers are
// 8 bytes, booleans 1 byte. Those bodies are decoded read-only.

var errShortBincode = errors.New("unexpected end of data")

type bincodeReader struct {
	b   []byte
	err error
}

func (r *bincodeReader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	if len(r.b) < 8 {
		r.err = errShortBincode
		return 0
	}
	v := binary.LittleEndian.Uint64(r.b)
	r.b = r.b[8:]
	return v
}

func (r *bincodeReader) i64() int64 { return int64(r.u64()) }

func (r *bincodeReader) str() string {
	n := r.u64()
	if r.err != nil {
		return ""
	}
	if n > uint64(len(r.b)) {
		r.err = fmt.Errorf("string length %d exceeds remaining %d bytes", n, len(r.b))
		return ""
	}
	s := string(r.b[:n])
	r.b = r.b[n:]
	return s
}

func (r *bincodeReader) boolean() bool {
	if r.err != nil {
		return false
	}
	if len(r.b) < 1 {
		r.err = errShortBincode
		return false
	}
	v := r.b[0]
	r.b = r.b[1:]
	if v > 1 {
		r.err = fmt.Errorf("invalid bool byte %#x", v)
	}
	return v == 1
}

// DecodeLegacyBincode parses a legacy fixed-width body. Trailing bytes are
// an error so that sniffing only accepts exact parses.
func DecodeLegacyBincode(data []byte) (*model.Snapshot, error) {
	s, err := decodeBincode(data, true)
	if err != nil {
		return nil, fmt.Errorf("%w: legacy bincode: %v", pulse.ErrCorruptSnapshot, err)
	}
	return s, nil
}

func decodeBincode(data []byte, withFiles bool) (*model.Snapshot, error) {
	r := &bincodeReader{b: data}
	s := &model.Snapshot{
		ID:           r.str(),
		DrivePath:    r.str(),
		Timestamp:    r.i64(),
		TotalFiles:   int64(r.u64()),
		TotalSize:    int64(r.u64()),
		ScanDuration: int64(r.u64()),
	}

	count := r.u64()
	if r.err != nil {
		return nil, r.err
	}
	// Each entry takes at least 25 bytes.
	if count > uint64(len(r.b))/25 || count > math.MaxInt32 {
		return nil, fmt.Errorf("entry count %d exceeds remaining %d bytes", count, len(r.b))
	}
	if withFiles && count > 0 {
		s.Files = make([]model.FileEntry, 0, count)
	}

	for range count {
		f := model.FileEntry{
			Path:     r.str(),
			Size:     int64(r.u64()),
			Modified: r.i64(),
			IsDir:    r.boolean(),
		}
		if r.err != nil {
			return nil, r.err
		}
		if withFiles {
			s.Files = append(s.Files, f)
		}
	}

	if len(r.b) != 0 {
		return nil, fmt.Errorf("%d trailing bytes", len(r.b))
	}
	return s, nil
}

func isLegacyBincode(data []byte) bool {
	_, err := decodeBincode(data, false)
	return err == nil
}
