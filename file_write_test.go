package coverart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dhowden/tag"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simonhull/coverart/internal/fixture"
	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

// newObserved returns an Accessor for backend whose log entries are recorded.
func newObserved(t *testing.T, backend string) (*Accessor, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	acc, err := New(WithBackend(backend), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return acc, logs
}

// readOther reads path with dhowden/tag, which shares no code with either
// backend.
func readOther(t *testing.T, path string) tag.Metadata {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		t.Fatalf("tag.ReadFrom() error = %v", err)
	}
	return m
}

func mustRead(t *testing.T, acc *Accessor, path string) Snapshot {
	t.Helper()
	snap, err := acc.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error = %v", err)
	}
	return snap
}

func TestSaveTags_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		artist string
	}{
		{"ascii", "Hello", "World"},
		{"hebrew", "שיר", "להקה"},
		{"mixed scripts", "Ünïcödé 日本語", "Мир"},
		{"empty", "", ""},
	}

	for _, backend := range registry.Names() {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				acc, _ := newObserved(t, backend)
				path := fixture.Write(t, t.TempDir(), "song.mp3", fixture.MP3(20))

				if err := acc.SaveTags(path, "", tt.title, tt.artist); err != nil {
					t.Fatalf("SaveTags() error = %v", err)
				}

				snap := mustRead(t, acc, path)
				if got := snap.TitleOr(""); got != tt.title {
					t.Errorf("Title = %q, want %q", got, tt.title)
				}
				if got := snap.ArtistOr(""); got != tt.artist {
					t.Errorf("Artist = %q, want %q", got, tt.artist)
				}

				m := readOther(t, path)
				if m.Title() != tt.title {
					t.Errorf("independent reader Title = %q, want %q", m.Title(), tt.title)
				}
				if m.Artist() != tt.artist {
					t.Errorf("independent reader Artist = %q, want %q", m.Artist(), tt.artist)
				}
			})
		}
	}
}

func TestSaveTags_KeepsCoverWithoutImage(t *testing.T) {
	cover := fixture.JPEG(42)
	data := fixture.TaggedMP3(20,
		fixture.TextFrame("TIT2", "Old"),
		fixture.PictureFrame("image/jpeg", 3, "Cover", cover),
	)

	for _, backend := range registry.Names() {
		t.Run(backend, func(t *testing.T) {
			acc, _ := newObserved(t, backend)
			path := fixture.Write(t, t.TempDir(), "song.mp3", data)

			if err := acc.SaveTags(path, "", "New", "Artist"); err != nil {
				t.Fatalf("SaveTags() error = %v", err)
			}

			snap := mustRead(t, acc, path)
			if snap.TitleOr("") != "New" {
				t.Errorf("Title = %v, want New", snap.Title)
			}
			if !snap.HasCover() || !bytes.Equal(snap.Cover.Data, cover) {
				t.Error("existing cover not preserved byte for byte")
			}
		})
	}
}

func TestSaveTags_ReplacesCover(t *testing.T) {
	old := fixture.JPEG(1)
	data := fixture.TaggedMP3(20,
		fixture.PictureFrame("image/jpeg", 3, "front", old),
		fixture.PictureFrame("image/jpeg", 4, "back", fixture.JPEG(2)),
	)
	replacement := fixture.PNG(77)

	for _, backend := range registry.Names() {
		t.Run(backend, func(t *testing.T) {
			acc, logs := newObserved(t, backend)
			dir := t.TempDir()
			path := fixture.Write(t, dir, "song.mp3", data)
			img := fixture.Write(t, dir, "new.png", replacement)

			if err := acc.SaveTags(path, img, "T", "A"); err != nil {
				t.Fatalf("SaveTags() error = %v", err)
			}

			snap := mustRead(t, acc, path)
			if !snap.HasCover() {
				t.Fatal("expected cover")
			}
			if !bytes.Equal(snap.Cover.Data, replacement) {
				t.Error("cover bytes are not the new image")
			}
			if snap.Cover.MIMEType != "image/png" {
				t.Errorf("MIMEType = %q, want image/png", snap.Cover.MIMEType)
			}
			if logs.FilterMessage("embedded cover").Len() != 1 {
				t.Error("expected an \"embedded cover\" log entry")
			}
		})
	}
}

func TestSaveTags_ReplacedCoverIsOnlyPicture(t *testing.T) {
	old := fixture.JPEG(1)
	data := fixture.TaggedMP3(20,
		fixture.PictureFrame("image/jpeg", 3, "front", old),
		fixture.PictureFrame("image/jpeg", 4, "back", fixture.JPEG(2)),
	)
	dir := t.TempDir()
	path := fixture.Write(t, dir, "song.mp3", data)
	img := fixture.Write(t, dir, "new.jpg", fixture.JPEG(99))

	acc, _ := newObserved(t, "id3v2")
	if err := acc.SaveTags(path, img, "T", "A"); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(raw, []byte("APIC")); n != 1 {
		t.Errorf("found %d APIC frames, want 1", n)
	}
	if bytes.Contains(raw, old) {
		t.Error("old cover bytes still present")
	}
}

func TestSaveTags_MissingImageKeepsCover(t *testing.T) {
	cover := fixture.JPEG(5)
	data := fixture.TaggedMP3(20, fixture.PictureFrame("image/jpeg", 3, "", cover))
	dir := t.TempDir()
	path := fixture.Write(t, dir, "song.mp3", data)

	acc, logs := newObserved(t, "id3v2")
	if err := acc.SaveTags(path, filepath.Join(dir, "gone.png"), "T", "A"); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	snap := mustRead(t, acc, path)
	if !snap.HasCover() || !bytes.Equal(snap.Cover.Data, cover) {
		t.Error("cover should be untouched")
	}
	if logs.FilterMessage("image not found, keeping existing cover").Len() != 1 {
		t.Error("expected a warning for the missing image")
	}
}

func TestSaveTags_UnknownExtensionIsJPEG(t *testing.T) {
	dir := t.TempDir()
	path := fixture.Write(t, dir, "song.mp3", fixture.MP3(20))
	img := fixture.Write(t, dir, "cover.bmp", fixture.JPEG(8))

	acc, logs := newObserved(t, "id3v2")
	if err := acc.SaveTags(path, img, "T", "A"); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte("image/jpeg")) {
		t.Error("picture frame should declare image/jpeg")
	}
	if logs.FilterMessage("unrecognised image extension, assuming JPEG").Len() != 1 {
		t.Error("expected a warning for the unknown extension")
	}
}

func TestSaveTags_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mp3")

	err := SaveTags(path, "", "T", "A")
	var fnf *FileNotFoundError
	if !errors.As(err, &fnf) {
		t.Fatalf("expected *FileNotFoundError, got %T: %v", err, err)
	}
	if fnf.Role != "mp3" {
		t.Errorf("Role = %q, want mp3", fnf.Role)
	}
}

func TestSaveTags_InvalidVersion(t *testing.T) {
	path := fixture.Write(t, t.TempDir(), "song.mp3", fixture.MP3(4))

	if err := SaveTags(path, "", "T", "A", WithTagVersion(2)); err == nil {
		t.Fatal("expected error for ID3v2.2")
	}
}

func TestSaveTags_Backup(t *testing.T) {
	data := fixture.MP3(20)
	path := fixture.Write(t, t.TempDir(), "song.mp3", data)

	if err := SaveTags(path, "", "T", "A", WithBackup(".bak")); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !bytes.Equal(backup, data) {
		t.Error("backup does not hold the original bytes")
	}
}

func TestSaveTags_PreserveModTime(t *testing.T) {
	path := fixture.Write(t, t.TempDir(), "song.mp3", fixture.MP3(20))
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	if err := SaveTags(path, "", "T", "A", WithPreserveModTime()); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), past)
	}
}

func TestSaveTags_Validation(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		artist string
	}{
		{"ascii", "Valid", "Check"},
		{"hebrew", "שיר בדיקה", "אמן בדיקה"},
		{"mixed scripts", "Ünïcödé 日本語", "Мир"},
	}

	for _, backend := range registry.Names() {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				dir := t.TempDir()
				path := fixture.Write(t, dir, "song.mp3", fixture.MP3(20))
				img := fixture.Write(t, dir, "c.jpg", fixture.JPEG(4))

				acc, _ := newObserved(t, backend)
				if err := acc.SaveTags(path, img, tt.title, tt.artist, WithValidation()); err != nil {
					t.Fatalf("SaveTags() error = %v", err)
				}

				m := readOther(t, path)
				if pic := m.Picture(); pic == nil || !bytes.Equal(pic.Data, fixture.JPEG(4)) {
					t.Error("independent reader did not find the new cover")
				}
			})
		}
	}
}

func TestSaveTags_ValidationKeepsExistingFrames(t *testing.T) {
	// an album frame already in UTF-16 must survive the rewrite readable
	album := fixture.Frame{ID: "TALB", Data: []byte{0x01, 0xFF, 0xFE, 'A', 0, 'l', 0, 'b', 0}}
	path := fixture.Write(t, t.TempDir(), "song.mp3", fixture.TaggedMP3(20, album))

	if err := SaveTags(path, "", "T", "A", WithValidation()); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}
	if got := readOther(t, path).Album(); got != "Alb" {
		t.Errorf("Album = %q, want Alb", got)
	}
}

func TestSaveTags_ID3v24(t *testing.T) {
	path := fixture.Write(t, t.TempDir(), "song.mp3", fixture.MP3(20))

	if err := SaveTags(path, "", "Four", "Tag", WithTagVersion(ID3v24)); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if raw[3] != 4 {
		t.Errorf("tag major version = %d, want 4", raw[3])
	}
}

// failingBackend fails every write after scribbling on the file.
type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Read(string) (types.Snapshot, error) {
	return types.Snapshot{}, nil
}

func (failingBackend) Write(path string, _ types.Edit) error {
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		return err
	}
	return errors.New("disk on fire")
}

func TestSaveTags_FailureLeavesOriginal(t *testing.T) {
	data := fixture.MP3(20)
	dir := t.TempDir()
	path := fixture.Write(t, dir, "song.mp3", data)

	acc := &Accessor{backend: failingBackend{}, logger: zap.NewNop()}
	err := acc.SaveTags(path, "", "T", "A")

	var libErr *LibraryError
	if !errors.As(err, &libErr) {
		t.Fatalf("expected *LibraryError, got %T: %v", err, err)
	}
	if libErr.Op != "write" || libErr.Backend != "failing" {
		t.Errorf("LibraryError = %+v", libErr)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("original file was modified")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".coverart-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestSaveTags_ValidationMismatch(t *testing.T) {
	// writes a different title than requested
	data := fixture.MP3(20)
	dir := t.TempDir()
	path := fixture.Write(t, dir, "song.mp3", data)
	acc := &Accessor{backend: liarBackend{}, logger: zap.NewNop()}

	err := acc.SaveTags(path, "", "Asked", "A", WithValidation(), WithBackup(".bak"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != "title" || vErr.Want != "Asked" || vErr.Path != path {
		t.Errorf("ValidationError = %+v", vErr)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("original file was replaced despite the failed validation")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "song.mp3" {
			t.Errorf("unexpected file %s left behind", e.Name())
		}
	}
}

func TestSaveTags_TagLargerThanFile(t *testing.T) {
	// the header claims far more bytes than the file holds
	audio := fixture.Audio(5)
	data := append([]byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x7F, 0x7F, 0x7F, 0x7F, 'j', 'u', 'n', 'k'}, audio...)

	acc, _ := newObserved(t, "id3v2")
	path := fixture.Write(t, t.TempDir(), "song.mp3", data)

	if snap := mustRead(t, acc, path); !snap.IsEmpty() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}

	if err := acc.SaveTags(path, "", "Fresh", "Start"); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	snap := mustRead(t, acc, path)
	if snap.TitleOr("") != "Fresh" || snap.ArtistOr("") != "Start" {
		t.Errorf("snap = %q / %q", snap.TitleOr(""), snap.ArtistOr(""))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(raw, audio) {
		t.Error("audio bytes were not preserved")
	}
}

type liarBackend struct{}

func (liarBackend) Name() string { return "liar" }

func (liarBackend) Read(string) (types.Snapshot, error) {
	return types.Snapshot{}, nil
}

func (liarBackend) Write(path string, edit types.Edit) error {
	b, err := registry.Get("id3v2")
	if err != nil {
		return err
	}
	edit.Title = "Something else"
	return b.Write(path, edit)
}
