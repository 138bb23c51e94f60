package manifest_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/infra/manifest"
)

func TestJSON_Update(t *testing.T) {
	m := manifest.NewJSON()

	t.Run("replaces existing version and keeps layout", func(t *testing.T) {
		src := "{\n  \"name\": \"lib-a\",\n  \"version\": \"1.0.0\",\n  \"private\": true\n}\n"

		updated, err := m.Update([]byte(src), "1.1.0")
		gt.NoError(t, err)
		gt.Value(t, string(updated)).Equal("{\n  \"name\": \"lib-a\",\n  \"version\": \"1.1.0\",\n  \"private\": true\n}\n")
		gt.Value(t, m.Version(updated)).Equal("1.1.0")
	})

	t.Run("adds missing version", func(t *testing.T) {
		updated, err := m.Update([]byte(`{"name":"lib-a"}`), "0.1.0")
		gt.NoError(t, err)
		gt.Value(t, m.Version(updated)).Equal("0.1.0")
		gt.Value(t, m.Version([]byte(`{"name":"lib-a"}`))).Equal("")
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := m.Update([]byte(`{"name":`), "1.0.0")
		gt.Error(t, err)
	})

	t.Run("rejects non object", func(t *testing.T) {
		_, err := m.Update([]byte(`["1.0.0"]`), "1.0.0")
		gt.Error(t, err)
	})
}
