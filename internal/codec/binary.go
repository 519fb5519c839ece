package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
	"google.golang.org/protobuf/encoding/protowire"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

// Binary layout:
//
//	magic    "DPSNAP"
//	version  1 byte
//	body     protowire fields (see field numbers below)
//	trailer  xxh3-64 of everything before it, big-endian
const (
	binaryMagic   = "DPSNAP"
	binaryVersion = 1
	headerLen     = len(binaryMagic) + 1
	trailerLen    = 8
)

// Snapshot fields.
const (
	fieldID           protowire.Number = 1
	fieldDrivePath    protowire.Number = 2
	fieldTimestamp    protowire.Number = 3
	fieldTotalFiles   protowire.Number = 4
	fieldTotalSize    protowire.Number = 5
	fieldScanDuration protowire.Number = 6
	fieldFile         protowire.Number = 7
)

// FileEntry fields.
const (
	fieldPath     protowire.Number = 1
	fieldSize     protowire.Number = 2
	fieldModified protowire.Number = 3
	fieldIsDir    protowire.Number = 4
)

// EncodeBinary serializes a snapshot in the current binary format.
func EncodeBinary(s *model.Snapshot) []byte {
	buf := make([]byte, 0, headerLen+64+len(s.Files)*48+trailerLen)
	buf = append(buf, binaryMagic...)
	buf = append(buf, binaryVersion)

	buf = protowire.AppendTag(buf, fieldID, protowire.BytesType)
	buf = protowire.AppendString(buf, s.ID)
	buf = protowire.AppendTag(buf, fieldDrivePath, protowire.BytesType)
	buf = protowire.AppendString(buf, s.DrivePath)
	buf = protowire.AppendTag(buf, fieldTimestamp, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(s.Timestamp))
	buf = protowire.AppendTag(buf, fieldTotalFiles, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(s.TotalFiles))
	buf = protowire.AppendTag(buf, fieldTotalSize, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(s.TotalSize))
	buf = protowire.AppendTag(buf, fieldScanDuration, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(s.ScanDuration))

	var entry []byte
	for i := range s.Files {
		entry = appendEntry(entry[:0], &s.Files[i])
		buf = protowire.AppendTag(buf, fieldFile, protowire.BytesType)
		buf = protowire.AppendBytes(buf, entry)
	}

	return binary.BigEndian.AppendUint64(buf, xxh3.Hash(buf))
}

func appendEntry(buf []byte, f *model.FileEntry) []byte {
	buf = protowire.AppendTag(buf, fieldPath, protowire.BytesType)
	buf = protowire.AppendString(buf, f.Path)
	buf = protowire.AppendTag(buf, fieldSize, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(f.Size))
	buf = protowire.AppendTag(buf, fieldModified, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(f.Modified))
	if f.IsDir {
		buf = protowire.AppendTag(buf, fieldIsDir, protowire.VarintType)
		buf = protowire.AppendVarint(buf, protowire.EncodeBool(true))
	}
	return buf
}

// DecodeBinary parses a snapshot written by EncodeBinary.
func DecodeBinary(data []byte) (*model.Snapshot, error) {
	body, err := unframe(data)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(body, true)
}

// DecodeBinarySummary parses only the summary fields, skipping file entries.
func DecodeBinarySummary(data []byte) (*model.SnapshotSummary, error) {
	body, err := unframe(data)
	if err != nil {
		return nil, err
	}
	s, err := decodeSnapshot(body, false)
	if err != nil {
		return nil, err
	}
	summary := s.Summary()
	return &summary, nil
}

func isBinary(data []byte) bool {
	return len(data) >= len(binaryMagic) && string(data[:len(binaryMagic)]) == binaryMagic
}

// unframe checks magic, version and checksum and returns the body.
func unframe(data []byte) ([]byte, error) {
	if len(data) < headerLen+trailerLen {
		return nil, fmt.Errorf("binary snapshot truncated at %d bytes: %w", len(data), pulse.ErrCorruptSnapshot)
	}
	if !isBinary(data) {
		return nil, fmt.Errorf("missing binary snapshot magic: %w", pulse.ErrCorruptSnapshot)
	}
	if v := data[len(binaryMagic)]; v != binaryVersion {
		return nil, fmt.Errorf("unsupported binary snapshot version %d: %w", v, pulse.ErrCorruptSnapshot)
	}

	end := len(data) - trailerLen
	want := binary.BigEndian.Uint64(data[end:])
	if got := xxh3.Hash(data[:end]); got != want {
		return nil, fmt.Errorf("checksum mismatch (got %016x, want %016x): %w", got, want, pulse.ErrCorruptSnapshot)
	}
	return data[headerLen:end], nil
}

func decodeSnapshot(b []byte, withFiles bool) (*model.Snapshot, error) {
	s := &model.Snapshot{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, corrupt(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldID && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			s.ID = string(v)
		case num == fieldDrivePath && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			s.DrivePath = string(v)
		case num == fieldTimestamp && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			s.Timestamp = protowire.DecodeZigZag(v)
		case num == fieldTotalFiles && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			s.TotalFiles = int64(v)
		case num == fieldTotalSize && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			s.TotalSize = int64(v)
		case num == fieldScanDuration && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			s.ScanDuration = int64(v)
		case num == fieldFile && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 && withFiles {
				entry, err := decodeEntry(v)
				if err != nil {
					return nil, err
				}
				s.Files = append(s.Files, entry)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, corrupt(protowire.ParseError(n))
		}
		b = b[n:]
	}
	return s, nil
}

func decodeEntry(b []byte) (model.FileEntry, error) {
	var f model.FileEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return f, corrupt(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldPath && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			f.Path = string(v)
		case num == fieldSize && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			f.Size = int64(v)
		case num == fieldModified && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			f.Modified = protowire.DecodeZigZag(v)
		case num == fieldIsDir && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			f.IsDir = protowire.DecodeBool(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return f, corrupt(protowire.ParseError(n))
		}
		b = b[n:]
	}
	return f, nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", pulse.ErrCorruptSnapshot, err)
}
