package mfs

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEntryMarshalRoundTrip(t *testing.T) {
	entry := &DirectoryEntry{
		Flags:       entryFlagInUse,
		Type:        fourCC("PNTG"),
		Creator:     fourCC("MPNT"),
		FinderFlags: 0x0100,
		IconVert:    -12,
		IconHoriz:   34,
		FolderNum:   -2,
		FileNum:     77,
		DataStart:   2,
		DataLen:     1000,
		DataAlloc:   1024,
		RsrcStart:   3,
		RsrcLen:     10,
		RsrcAlloc:   1024,
		CreateDate:  0x9FE8A83C,
		ModifyDate:  0x9FE8A840,
		Name:        "Drawing",
	}

	if entry.size() != 58 {
		t.Fatalf("entry size %d, want 58", entry.size())
	}

	buf := make([]byte, entry.size())
	entry.marshal(buf)

	decoded := &DirectoryEntry{}
	decoded.unmarshal(buf)

	if diff := cmp.Diff(entry, decoded, cmp.AllowUnexported(DirectoryEntry{})); diff != "" {
		t.Errorf("entry round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEntrySizePadding(t *testing.T) {
	cases := []struct {
		nameLen int
		size    int
	}{
		{0, 52},
		{1, 52},
		{2, 54},
		{7, 58},
		{255, 306},
	}
	for _, c := range cases {
		if got := entrySize(c.nameLen); got != c.size {
			t.Errorf("entrySize(%d) = %d, want %d", c.nameLen, got, c.size)
		}
	}
}

func TestFourCCPadding(t *testing.T) {
	if got := fourCC("AB"); got != [4]byte{'A', 'B', '?', '?'} {
		t.Errorf("fourCC(\"AB\") = %q", got[:])
	}
	if got := fourCC("TEXT"); got != [4]byte{'T', 'E', 'X', 'T'} {
		t.Errorf("fourCC(\"TEXT\") = %q", got[:])
	}
}

// A tombstone ends the scan of its own sector but not of the ones
// after it.
func TestScanStopsPerSector(t *testing.T) {
	v := newTestVolume(t)

	// Nine 56-byte entries fill directory sector 0; the tenth lands
	// in sector 1.
	names := make([]string, 10)
	for i := range names {
		names[i] = string([]byte{'A' + byte(i), 'x', 'y', 'z'})
		mustWrite(t, v, names[i], []byte("data"), nil)
	}

	sectorOf := func(name string) int {
		return v.lookup(name).offset / SectorSize
	}
	if sectorOf(names[0]) == sectorOf(names[9]) {
		t.Fatal("test premise broken: entries share a sector")
	}

	if err := v.DeleteFile(names[0]); err != nil {
		t.Fatal(err)
	}

	v2, err := Load(v.DiskImage())
	if err != nil {
		t.Fatal(err)
	}

	listed := make(map[string]bool)
	for _, f := range v2.ListFiles() {
		listed[f.Name] = true
	}
	// The tombstone hides the rest of sector 0, but sector 1 is
	// still scanned.
	if listed[names[0]] {
		t.Errorf("%s listed after deletion", names[0])
	}
	if !listed[names[9]] {
		t.Errorf("%s missing: scan stopped at the first unused entry", names[9])
	}
}

func TestLookupComparesRawBytes(t *testing.T) {
	v := newTestVolume(t)

	// 0xA5 is a MacRoman bullet; the byte is stored and compared
	// untranslated.
	name := "Notes \xa5"
	mustWrite(t, v, name, []byte("x"), nil)

	if v.lookup(name) == nil {
		t.Fatal("high-bit name not found by raw bytes")
	}
	if v.lookup("Notes •") != nil {
		t.Error("UTF-8 spelling of the name should not match")
	}
}

func TestMacTimeConversion(t *testing.T) {
	if !macTime(0).IsZero() {
		t.Error("stored zero should read as the null date")
	}
	if macStamp(time.Time{}) != 0 {
		t.Error("null date should store as zero")
	}

	instant := time.Date(1984, time.January, 24, 0, 0, 0, 0, time.UTC)
	stamp := macStamp(instant)
	if got := macTime(stamp); !got.Equal(instant) {
		t.Errorf("round trip %v -> %v", instant, got)
	}
	// 1984-01-24 is 2,526,595,200 seconds into the Mac epoch.
	if stamp != 2526595200 {
		t.Errorf("stamp %d", stamp)
	}
}

func TestPascalStrings(t *testing.T) {
	slot := make([]byte, 28)
	putPascalString(slot, "MyDisk")
	if slot[0] != 6 || string(slot[1:7]) != "MyDisk" {
		t.Errorf("encoded %v", slot[:8])
	}
	if got := pascalString(slot); got != "MyDisk" {
		t.Errorf("decoded %q", got)
	}

	putPascalString(slot, "")
	if got := pascalString(slot); got != "" {
		t.Errorf("decoded empty string as %q", got)
	}
}
