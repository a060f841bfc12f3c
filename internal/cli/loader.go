package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/grifola/internal/geom"
	"github.com/roach88/grifola/internal/harness"
)

// cueScenario mirrors the scenario shape of a CUE file. CUE decoding
// honours the json tags.
type cueScenario struct {
	Name      string        `json:"name"`
	App       string        `json:"app"`
	Ints      []int         `json:"ints"`
	CloudA    []cuePoint    `json:"cloud_a"`
	CloudB    []cuePoint    `json:"cloud_b"`
	Mutations []cueMutation `json:"mutations"`
}

type cuePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type cueMutation struct {
	Index int      `json:"index"`
	Value int      `json:"value"`
	Point cuePoint `json:"point"`
}

// LoadScenario reads and compiles a CUE scenario file.
//
// The file must carry a top-level `scenario` struct:
//
//	scenario: {
//	    name: "witness"
//	    app:  "list_unique"
//	    ints: [0, 1, 2]
//	    mutations: [{index: 1, value: 9}]
//	}
func LoadScenario(path string) (*harness.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(raw, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile scenario %s: %w", path, err)
	}

	scVal := value.LookupPath(cue.ParsePath("scenario"))
	if !scVal.Exists() {
		return nil, fmt.Errorf("scenario %s: no top-level \"scenario\" struct", path)
	}

	var decoded cueScenario
	if err := scVal.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}

	sc := &harness.Scenario{
		Name:   decoded.Name,
		App:    decoded.App,
		Ints:   decoded.Ints,
		CloudA: toPoints(decoded.CloudA),
		CloudB: toPoints(decoded.CloudB),
	}
	for _, m := range decoded.Mutations {
		sc.Mutations = append(sc.Mutations, harness.Mutation{
			Index: m.Index,
			Value: m.Value,
			Point: geom.Point{X: m.Point.X, Y: m.Point.Y},
		})
	}

	if err := validateScenario(sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

func toPoints(pts []cuePoint) []geom.Point {
	if pts == nil {
		return nil
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return out
}

func validateScenario(sc *harness.Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("missing name")
	}
	switch sc.App {
	case harness.AppListUnique, harness.AppQuickHull, harness.AppCloudMaxDist:
		return nil
	case "":
		return fmt.Errorf("missing app")
	default:
		return fmt.Errorf("unknown app %q", sc.App)
	}
}
