package id3

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// encodingUTF16 is the ID3v2 text encoding byte for UTF-16 with BOM.
const encodingUTF16 = 0x01

var (
	// The BOM is written by hand so that an empty string still carries one.
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	bomLE   = []byte{0xFF, 0xFE}
)

// utf16TextFrame renders a text frame body as UTF-16 with BOM and no
// terminator.
//
// bogem/id3v2 appends a pad byte to UTF-16 text before the terminator,
// leaving an odd-length payload that other readers reject, so UTF-16 text
// frames are rendered here instead.
func utf16TextFrame(text string) (id3v2.UnknownFrame, error) {
	encoded, err := utf16LE.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return id3v2.UnknownFrame{}, fmt.Errorf("encode UTF-16: %w", err)
	}

	body := make([]byte, 0, 1+len(bomLE)+len(encoded))
	body = append(body, encodingUTF16)
	body = append(body, bomLE...)
	body = append(body, encoded...)
	return id3v2.UnknownFrame{Body: body}, nil
}

// setText writes a text frame in the encoding the tag version allows:
// UTF-8 on ID3v2.4, UTF-16 with BOM on ID3v2.3.
func setText(tag *id3v2.Tag, id, text string, utf8 bool) error {
	if utf8 {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
		return nil
	}

	frame, err := utf16TextFrame(text)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	tag.AddFrame(id, frame)
	return nil
}

// reencodeUTF16 re-renders the UTF-16 text frames kept from the old tag so
// that they are written with an even-length payload too.
func reencodeUTF16(tag *id3v2.Tag) error {
	for id, frames := range tag.AllFrames() {
		if len(id) != 4 || id[0] != 'T' || id == "TXXX" || len(frames) != 1 {
			continue
		}
		tf, ok := frames[0].(id3v2.TextFrame)
		if !ok || !tf.Encoding.Equals(id3v2.EncodingUTF16) {
			continue
		}
		if err := setText(tag, id, strings.TrimRight(tf.Text, "\x00"), false); err != nil {
			return err
		}
	}
	return nil
}

// pictureEncoding picks the encoding of an APIC description. ID3v2.3
// descriptions use ISO-8859-1 whenever the text fits in it.
func pictureEncoding(desc string, utf8 bool) id3v2.Encoding {
	if utf8 {
		return id3v2.EncodingUTF8
	}
	if _, err := charmap.ISO8859_1.NewEncoder().String(desc); err == nil {
		return id3v2.EncodingISO
	}
	return id3v2.EncodingUTF16
}
