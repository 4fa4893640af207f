package export

import (
	"encoding/json"
	"io"

	"github.com/user/retroboard/internal/types"
)

// JSONExporter passes the ledger through unchanged.
type JSONExporter struct{}

func (e *JSONExporter) Export(items []*types.Item, w io.Writer) error {
	if items == nil {
		items = []*types.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func (e *JSONExporter) Filename() string {
	return "retrospective.json"
}

func (e *JSONExporter) ContentType() string {
	return "application/json"
}
