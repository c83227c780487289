package importer

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// decodeWindows1252 converts legacy custodian exports to UTF-8. Byte 0x92 in
// these files is the typographic apostrophe of "Int’l Equity".
func decodeWindows1252(data []byte) ([]byte, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Windows-1252 text: %w", err)
	}
	return out, nil
}
