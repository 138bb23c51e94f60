package manifest

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSON updates the "version" field of a JSON manifest such as package.json while keeping
// the rest of the document byte-for-byte.
type JSON struct {
	field string
}

// NewJSON creates a JSON manifest updater
func NewJSON() *JSON {
	return &JSON{field: "version"}
}

// Update sets the version field. Content that is not a JSON object is rejected.
func (m *JSON) Update(content []byte, version string) ([]byte, error) {
	if !gjson.ValidBytes(content) {
		return nil, goerr.New("manifest is not valid JSON")
	}
	if !gjson.ParseBytes(content).IsObject() {
		return nil, goerr.New("manifest is not a JSON object")
	}

	updated, err := sjson.SetBytes(content, m.field, version)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set manifest version", goerr.V("version", version))
	}
	return updated, nil
}

// Version returns the version currently recorded in the manifest, empty when absent
func (m *JSON) Version(content []byte) string {
	return gjson.GetBytes(content, m.field).String()
}
