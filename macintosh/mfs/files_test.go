package mfs

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func TestWriteReadRoundTrip(t *testing.T) {
	v := newTestVolume(t)

	info := mustWrite(t, v, "Hello.txt", []byte("Hello MFS!"), nil)

	if info.DataSize != 10 {
		t.Errorf("data size %d, want 10", info.DataSize)
	}
	if v.Info.FileCount != 1 {
		t.Errorf("file count %d, want 1", v.Info.FileCount)
	}
	if v.Info.FreeBlocks != 391 {
		t.Errorf("free blocks %d, want 391", v.Info.FreeBlocks)
	}

	entry := v.lookup("Hello.txt")
	if entry.DataAlloc != 1024 {
		t.Errorf("allocated length %d, want 1024", entry.DataAlloc)
	}

	contents, err := v.ReadFile("Hello.txt", DataFork)
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "Hello MFS!" {
		t.Errorf("read back %q", contents)
	}

	// The empty fork type means the data fork.
	contents, err = v.ReadFile("Hello.txt", "")
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "Hello MFS!" {
		t.Errorf("read back %q via default fork", contents)
	}

	checkInvariants(t, v)
}

func TestDeleteRestoresState(t *testing.T) {
	v := newTestVolume(t)

	mustWrite(t, v, "Hello.txt", []byte("Hello MFS!"), nil)
	offset := v.lookup("Hello.txt").offset

	if err := v.DeleteFile("Hello.txt"); err != nil {
		t.Fatal(err)
	}

	if v.Info.FileCount != 0 {
		t.Errorf("file count %d, want 0", v.Info.FileCount)
	}
	if v.Info.FreeBlocks != 392 {
		t.Errorf("free blocks %d, want 392", v.Info.FreeBlocks)
	}
	if files := v.ListFiles(); len(files) != 0 {
		t.Errorf("%d files listed after delete", len(files))
	}
	if v.image[offset]&entryFlagInUse != 0 {
		t.Error("tombstone flag byte still has bit 7 set")
	}
	if v.Info.NextFileNumber != 2 {
		t.Errorf("next file number %d, want 2", v.Info.NextFileNumber)
	}

	if err := v.DeleteFile("Hello.txt"); errors.Cause(err) != ErrNotFound {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}

	checkInvariants(t, v)
}

func TestResourceOnlyFile(t *testing.T) {
	v := newTestVolume(t)

	rsrc := []byte("Resource Fork Data Here")
	info, err := v.WriteFile("RSRC.TST", nil, rsrc, FileMeta{Type: "APPL", Creator: "TEST"})
	if err != nil {
		t.Fatal(err)
	}
	if info.DataSize != 0 || info.RsrcSize != uint32(len(rsrc)) {
		t.Errorf("fork sizes %d/%d", info.DataSize, info.RsrcSize)
	}

	entry := v.lookup("RSRC.TST")
	if entry.DataStart != 0 {
		t.Errorf("data fork start block %d, want 0", entry.DataStart)
	}

	got, err := v.ReadFile("RSRC.TST", ResourceFork)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, rsrc) {
		t.Errorf("resource fork read back %q", got)
	}

	data, err := v.ReadFile("RSRC.TST", DataFork)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("data fork read back %d bytes", len(data))
	}

	checkInvariants(t, v)
}

func TestOverwriteReplacesFile(t *testing.T) {
	v := newTestVolume(t)

	mustWrite(t, v, "Note", []byte("first"), nil)
	first := v.lookup("Note").FileNum

	mustWrite(t, v, "Note", []byte("second version"), nil)

	if v.Info.FileCount != 1 {
		t.Errorf("file count %d, want 1", v.Info.FileCount)
	}
	contents, err := v.ReadFile("Note", DataFork)
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "second version" {
		t.Errorf("read back %q", contents)
	}
	if second := v.lookup("Note").FileNum; second <= first {
		t.Errorf("file number %d not above replaced %d", second, first)
	}

	checkInvariants(t, v)
}

func TestWriteValidation(t *testing.T) {
	v := newTestVolume(t)

	cases := []struct {
		name string
		file string
		meta FileMeta
	}{
		{"empty name", "", FileMeta{Type: "TEXT", Creator: "EDIT"}},
		{"long name", string(make([]byte, 256)), FileMeta{Type: "TEXT", Creator: "EDIT"}},
		{"short type", "File", FileMeta{Type: "TX", Creator: "EDIT"}},
		{"long creator", "File", FileMeta{Type: "TEXT", Creator: "EDITS"}},
	}
	for _, c := range cases {
		if _, err := v.WriteFile(c.file, nil, nil, c.meta); errors.Cause(err) != ErrInvalidArgument {
			t.Errorf("%s: %v, want ErrInvalidArgument", c.name, err)
		}
	}

	if _, err := v.ReadFile("nowhere", DataFork); errors.Cause(err) != ErrNotFound {
		t.Errorf("missing file: %v, want ErrNotFound", err)
	}
	mustWrite(t, v, "File", nil, nil)
	if _, err := v.ReadFile("File", "forkless"); errors.Cause(err) != ErrInvalidArgument {
		t.Errorf("bad fork type: %v, want ErrInvalidArgument", err)
	}
}

func TestExactBlockSizeFork(t *testing.T) {
	v := newTestVolume(t)

	data := bytes.Repeat([]byte{0xAB}, 1024)
	mustWrite(t, v, "OneBlock", data, nil)

	entry := v.lookup("OneBlock")
	if entry.DataAlloc != 1024 || entry.DataLen != 1024 {
		t.Errorf("lengths %d/%d, want 1024/1024", entry.DataLen, entry.DataAlloc)
	}
	if next := v.abm[entry.DataStart-firstAllocBlock]; next != blockChainEnd {
		t.Errorf("single-block chain ends with 0x%03X, want 0x001", next)
	}

	got, err := v.ReadFile("OneBlock", DataFork)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("block-sized fork did not round trip")
	}

	checkInvariants(t, v)
}

func TestDiskFull(t *testing.T) {
	v := newTestVolume(t)

	// Exactly fills all 392 allocation blocks.
	huge := make([]byte, 392*1024)
	for i := range huge {
		huge[i] = byte(i)
	}
	mustWrite(t, v, "Everything", huge, nil)
	if v.Info.FreeBlocks != 0 {
		t.Errorf("free blocks %d, want 0", v.Info.FreeBlocks)
	}

	got, err := v.ReadFile("Everything", DataFork)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, huge) {
		t.Error("full-volume fork did not round trip")
	}

	if _, err := v.WriteFile("More", []byte("x"), nil, FileMeta{Type: "TEXT", Creator: "EDIT"}); errors.Cause(err) != ErrDiskFull {
		t.Errorf("write on full volume: %v, want ErrDiskFull", err)
	}
	// The failed write must not leak blocks or directory entries.
	if v.Info.FileCount != 1 || v.Info.FreeBlocks != 0 {
		t.Errorf("state after failed write: %d files, %d free", v.Info.FileCount, v.Info.FreeBlocks)
	}

	if err := v.DeleteFile("Everything"); err != nil {
		t.Fatal(err)
	}
	if v.Info.FreeBlocks != 392 {
		t.Errorf("free blocks %d after delete, want 392", v.Info.FreeBlocks)
	}

	checkInvariants(t, v)
}

func TestDirectoryFull(t *testing.T) {
	v := newTestVolume(t)

	// 56-byte entries pack nine to a sector across twelve sectors.
	wrote := 0
	var err error
	for i := 0; i < 200; i++ {
		name := []byte{'F', 'i', 'l', 'e'}
		name[0] = 'A' + byte(i/26)
		name[1] = 'A' + byte(i%26)
		_, err = v.CreateFile(string(name), FileMeta{Type: "TEXT", Creator: "EDIT"})
		if err != nil {
			break
		}
		wrote++
	}

	if errors.Cause(err) != ErrDirectoryFull {
		t.Fatalf("error %v, want ErrDirectoryFull", err)
	}
	if wrote != 9*12 {
		t.Errorf("directory held %d entries, want %d", wrote, 9*12)
	}

	checkInvariants(t, v)
}

// TestOperationSequence drives a random create/write/delete workload
// and checks the structural invariants at every quiescent point.
func TestOperationSequence(t *testing.T) {
	v := newTestVolume(t)
	rng := rand.New(rand.NewSource(1904))

	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	baseline := v.Info.FreeBlocks

	for step := 0; step < 100; step++ {
		name := names[rng.Intn(len(names))]
		switch rng.Intn(3) {
		case 0, 1:
			data := make([]byte, rng.Intn(8*1024))
			rng.Read(data)
			var rsrc []byte
			if rng.Intn(2) == 0 {
				rsrc = make([]byte, rng.Intn(4*1024))
				rng.Read(rsrc)
			}
			if _, err := v.WriteFile(name, data, rsrc, FileMeta{Type: "TEXT", Creator: "EDIT"}); err != nil {
				t.Fatalf("step %d: write %s: %v", step, name, err)
			}
			got, err := v.ReadFile(name, DataFork)
			if err != nil {
				t.Fatalf("step %d: read %s: %v", step, name, err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("step %d: %s did not round trip", step, name)
			}
		case 2:
			err := v.DeleteFile(name)
			if err != nil && errors.Cause(err) != ErrNotFound {
				t.Fatalf("step %d: delete %s: %v", step, name, err)
			}
		}
		checkInvariants(t, v)
	}

	for _, name := range names {
		if err := v.DeleteFile(name); err != nil && errors.Cause(err) != ErrNotFound {
			t.Fatal(err)
		}
	}
	if v.Info.FreeBlocks != baseline {
		t.Errorf("free blocks %d after deleting everything, want %d", v.Info.FreeBlocks, baseline)
	}
	checkInvariants(t, v)
}

func TestGetFileInfo(t *testing.T) {
	v := newTestVolume(t)
	mustWrite(t, v, "Hello.txt", []byte("hi"), nil)

	info, err := v.GetFileInfo("Hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	if info.Type != "TEXT" || info.Creator != "EDIT" {
		t.Errorf("type/creator %s/%s", info.Type, info.Creator)
	}
	if info.FileNum != 1 {
		t.Errorf("file number %d, want 1", info.FileNum)
	}
	if info.Created.IsZero() || info.Modified.IsZero() {
		t.Error("dates missing")
	}

	if _, err := v.GetFileInfo("Missing"); errors.Cause(err) != ErrNotFound {
		t.Errorf("missing file: %v, want ErrNotFound", err)
	}
}
