package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/user/retroboard/internal/types"
)

// YAMLExporter writes the items grouped under their category keys.
type YAMLExporter struct{}

type yamlBoard struct {
	WentWell    []*types.Item `yaml:"went-well"`
	DidntGoWell []*types.Item `yaml:"didnt-go-well"`
	Ideas       []*types.Item `yaml:"ideas"`
	ActionItems []*types.Item `yaml:"action-items"`
}

func (e *YAMLExporter) Export(items []*types.Item, w io.Writer) error {
	grouped := Group(items)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(yamlBoard{
		WentWell:    grouped[types.WentWell],
		DidntGoWell: grouped[types.DidntGoWell],
		Ideas:       grouped[types.Ideas],
		ActionItems: grouped[types.ActionItems],
	})
}

func (e *YAMLExporter) Filename() string {
	return "retrospective.yaml"
}

func (e *YAMLExporter) ContentType() string {
	return "application/yaml"
}
