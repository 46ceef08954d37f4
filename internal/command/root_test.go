package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/coverart"
	"github.com/simonhull/coverart/internal/fixture"
)

// run executes the app with args, feeding stdin, and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := App()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"coverart", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "coverart" {
		t.Errorf("Name = %q", app.Name)
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"show", "save", "edit", "version"} {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"config", "backend", "log-level", "log-format"} {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestShow(t *testing.T) {
	dir := t.TempDir()
	cover := fixture.PNG(5)
	path := fixture.Write(t, dir, "song.mp3", fixture.TaggedMP3(20,
		fixture.TextFrame("TIT2", "Shown"),
		fixture.PictureFrame("image/png", 3, "Cover", cover),
	))

	out, err := run(t, "", "show", "--export", filepath.Join(dir, "cover"), path)
	if err != nil {
		t.Fatalf("show error = %v", err)
	}

	for _, s := range []string{`Title:  "Shown"`, "Artist: (none)", "Front cover (PNG", "MP3 44.1kHz"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "cover.png"))
	if err != nil {
		t.Fatalf("export missing: %v", err)
	}
	if !bytes.Equal(data, cover) {
		t.Error("exported bytes differ")
	}
}

func TestShow_Errors(t *testing.T) {
	if _, err := run(t, "", "show"); err == nil {
		t.Error("expected usage error without argument")
	}
	if _, err := run(t, "", "show", filepath.Join(t.TempDir(), "x.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := run(t, "", "--backend", "nope", "show", "x.mp3"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := fixture.Write(t, dir, "song.mp3", fixture.MP3(20))
	img := fixture.Write(t, dir, "c.jpg", fixture.JPEG(2))

	_, err := run(t, "", "save",
		"--title", "CLI Title", "--artist", "CLI Artist",
		"--image", img, "--backup", ".bak", "--validate", "--tag-version", "4",
		path)
	if err != nil {
		t.Fatalf("save error = %v", err)
	}

	snap, err := coverart.ReadTags(path)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TitleOr("") != "CLI Title" || snap.ArtistOr("") != "CLI Artist" {
		t.Errorf("snap = %q / %q", snap.TitleOr(""), snap.ArtistOr(""))
	}
	if !snap.HasCover() || !bytes.Equal(snap.Cover.Data, fixture.JPEG(2)) {
		t.Error("cover not embedded")
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("backup missing: %v", err)
	}

	if _, err := run(t, "", "save", "--title", "x", "--artist", "y", "--tag-version", "2", path); err == nil {
		t.Error("expected error for tag version 2")
	}
}

func TestEdit(t *testing.T) {
	dir := t.TempDir()
	path := fixture.Write(t, dir, "track.mp3", fixture.MP3(20))

	out, err := run(t, "title Typed\nsave\nquit\n", "edit", path)
	if err != nil {
		t.Fatalf("edit error = %v", err)
	}
	if !strings.Contains(out, "MP3 Loaded:") || !strings.Contains(out, "Saved successfully!") {
		t.Errorf("unexpected output:\n%s", out)
	}

	snap, err := coverart.ReadTags(path)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TitleOr("") != "Typed" || snap.ArtistOr("") != "Unknown Artist" {
		t.Errorf("snap = %q / %q", snap.TitleOr(""), snap.ArtistOr(""))
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "coverart "+coverart.Version) || !strings.Contains(out, "id3v2") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
