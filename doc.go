// Package coverart reads and writes the title, artist and cover art of MP3
// files.
//
// All ID3 parsing and rendering is done by a tagging backend: either
// github.com/bogem/id3v2 ("id3v2", the default) or TagLib via
// go.senan.xyz/taglib ("taglib"). coverart adds the merge rules, an atomic
// save pipeline and typed errors on top.
//
// # Quick Start
//
//	snap, err := coverart.ReadTags("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(snap.TitleOr("song"), snap.ArtistOr("Unknown Artist"))
//
//	err = coverart.SaveTags("song.mp3", "cover.png", "Title", "Artist")
//
// # Merge Rules
//
// SaveTags always overwrites the title and the artist. A new image replaces
// every existing picture frame with a single front cover; without one, the
// existing cover is kept byte for byte. Tags that cannot be parsed are
// treated as empty, both when reading and when saving.
//
// # Error Handling
//
//   - *FileNotFoundError: the MP3 does not exist (checked first)
//   - *LibraryError: the backend failed to read or write
//   - *ValidationError: WithValidation found a mismatch after saving
//
// Use errors.As to inspect them; errors.Is(err, fs.ErrNotExist) also
// matches *FileNotFoundError.
package coverart
