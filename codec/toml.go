package codec

import "github.com/pelletier/go-toml/v2"

// TOML encodes through github.com/pelletier/go-toml/v2.
type TOML struct{}

func (TOML) Name() string { return "toml" }

func (TOML) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func (TOML) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
