package codec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
	"google.golang.org/protobuf/encoding/protowire"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		ID:           "0f8fad5b-d9cb-469f-a165-70867728950e",
		DrivePath:    "/mnt/data",
		Timestamp:    1705314600,
		TotalFiles:   2,
		TotalSize:    300,
		ScanDuration: 4,
		Files: []model.FileEntry{
			{Path: "/mnt/data/docs", Size: 0, Modified: 1705300000, IsDir: true},
			{Path: "/mnt/data/docs/a.txt", Size: 100, Modified: 1705300001},
			{Path: "/mnt/data/b.bin", Size: 200, Modified: -5},
		},
	}
}

func TestBinary_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		snap *model.Snapshot
	}{
		{name: "typical", snap: sampleSnapshot()},
		{name: "empty file set", snap: &model.Snapshot{ID: "empty", DrivePath: "/e", Timestamp: 1}},
		{name: "zero value", snap: &model.Snapshot{}},
		{
			name: "non-ascii paths",
			snap: &model.Snapshot{
				ID:        "u",
				DrivePath: "/données",
				Files: []model.FileEntry{
					{Path: "/données/日本語.txt", Size: 7, Modified: 1},
					{Path: "/données/emoji-🎉", Size: 1, Modified: 2},
				},
				TotalFiles: 2,
				TotalSize:  8,
			},
		},
		{
			name: "invalid utf-8 path bytes",
			snap: &model.Snapshot{
				ID:        "raw",
				DrivePath: "/raw",
				Files:     []model.FileEntry{{Path: "/raw/\xff\xfe\x00name", Size: 3}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := EncodeBinary(tt.snap)

			got, err := DecodeBinary(data)
			require.NoError(t, err)
			assert.Equal(t, tt.snap, got)
		})
	}
}

func TestBinary_Summary(t *testing.T) {
	snap := sampleSnapshot()
	summary, err := DecodeBinarySummary(EncodeBinary(snap))
	require.NoError(t, err)
	assert.Equal(t, snap.Summary(), *summary)
}

func TestBinary_Corruption(t *testing.T) {
	valid := EncodeBinary(sampleSnapshot())

	flipped := append([]byte(nil), valid...)
	flipped[headerLen+3] ^= 0xff

	badVersion := append([]byte(nil), valid...)
	badVersion[len(binaryMagic)] = 9

	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated header", data: valid[:4]},
		{name: "truncated body", data: valid[:len(valid)/2]},
		{name: "missing trailer", data: valid[:len(valid)-trailerLen]},
		{name: "flipped body byte", data: flipped},
		{name: "unsupported version", data: badVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBinary(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, pulse.ErrCorruptSnapshot)
		})
	}
}

func TestBinary_SkipsUnknownFields(t *testing.T) {
	snap := &model.Snapshot{ID: "x", DrivePath: "/x", Timestamp: 10}

	buf := []byte(binaryMagic)
	buf = append(buf, binaryVersion)
	buf = protowire.AppendTag(buf, 99, protowire.BytesType)
	buf = protowire.AppendString(buf, "future field")
	buf = protowire.AppendTag(buf, fieldID, protowire.BytesType)
	buf = protowire.AppendString(buf, snap.ID)
	buf = protowire.AppendTag(buf, fieldDrivePath, protowire.BytesType)
	buf = protowire.AppendString(buf, snap.DrivePath)
	buf = protowire.AppendTag(buf, fieldTimestamp, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(snap.Timestamp))
	buf = protowire.AppendTag(buf, 100, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 42)
	buf = binary.BigEndian.AppendUint64(buf, xxh3.Hash(buf))

	got, err := DecodeBinary(buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}
