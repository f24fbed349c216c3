package inline

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jutdl/jutdl/catalog"
	"github.com/jutdl/jutdl/source"
)

// Entry is a planned episode, with its resolved video when requested.
type Entry struct {
	*source.Entry
	// Video is the selected source of the episode page.
	Video *source.Video `json:"video,omitempty" jsonschema:"description=Selected video source. Only present when videos are resolved."`
	// Substituted is set when Video is below the requested quality.
	Substituted bool `json:"substituted,omitempty" jsonschema:"description=Whether a lower quality than requested was selected."`
}

type Output struct {
	AnimeURL string         `json:"anime_url" jsonschema:"description=Listing page the plan was built from."`
	Policy   catalog.Policy `json:"policy" jsonschema:"description=Start season, start episode and film inclusion of the plan."`
	Entries  []*Entry       `json:"entries" jsonschema:"description=Planned episodes in download order."`
}

func asJson(output *Output) ([]byte, error) {
	if output.Entries == nil {
		output.Entries = []*Entry{}
	}
	return json.Marshal(output)
}

// Schema describes the JSON written by Run.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "entry", "video", "identity", "policy", "output":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	return reflector.Reflect(&Output{})
}
