package pattern

import (
	"io"

	"gopkg.in/yaml.v3"
)

func yamlEncode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
