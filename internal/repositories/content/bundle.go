package content

import (
	"embed"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-narrative/internal/errors"
)

// DefaultStartScenarioID is used when a bundle names no start scenario
const DefaultStartScenarioID = "start"

//go:embed data/*.yaml
var defaultData embed.FS

// Bundle is the YAML authoring format. Effects stay raw strings until the
// bundle is compiled.
type Bundle struct {
	StartScenario string        `yaml:"start_scenario,omitempty"`
	Campaigns     []CampaignDoc `yaml:"campaigns,omitempty"`
	Scenarios     []ScenarioDoc `yaml:"scenarios,omitempty"`
}

// CampaignDoc is one authored campaign
type CampaignDoc struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description,omitempty"`
	StartScenario string `yaml:"start_scenario"`
	Faction       string `yaml:"faction,omitempty"`
	StartStats    string `yaml:"start_stats,omitempty"`
}

// ScenarioDoc is one authored scenario
type ScenarioDoc struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Choices     []ChoiceDoc `yaml:"choices,omitempty"`
}

// ChoiceDoc is one authored choice
type ChoiceDoc struct {
	Text   string `yaml:"text"`
	Next   string `yaml:"next"`
	Effect string `yaml:"effect,omitempty"`
}

// StartScenarioID returns the bundle's start scenario or the default
func (b *Bundle) StartScenarioID() string {
	if b.StartScenario != "" {
		return b.StartScenario
	}
	return DefaultStartScenarioID
}

// Merge appends other into b. Duplicate scenario or campaign IDs are an
// error; a second, different start scenario is an error too.
func (b *Bundle) Merge(other *Bundle) error {
	if other.StartScenario != "" {
		if b.StartScenario != "" && b.StartScenario != other.StartScenario {
			return errors.InvalidArgumentf("conflicting start scenarios %q and %q", b.StartScenario, other.StartScenario)
		}
		b.StartScenario = other.StartScenario
	}

	seenScenarios := make(map[string]bool, len(b.Scenarios))
	for _, sc := range b.Scenarios {
		seenScenarios[sc.ID] = true
	}
	for _, sc := range other.Scenarios {
		if seenScenarios[sc.ID] {
			return errors.AlreadyExistsf("scenario %q defined twice", sc.ID)
		}
		seenScenarios[sc.ID] = true
		b.Scenarios = append(b.Scenarios, sc)
	}

	seenCampaigns := make(map[string]bool, len(b.Campaigns))
	for _, c := range b.Campaigns {
		seenCampaigns[c.ID] = true
	}
	for _, c := range other.Campaigns {
		if seenCampaigns[c.ID] {
			return errors.AlreadyExistsf("campaign %q defined twice", c.ID)
		}
		seenCampaigns[c.ID] = true
		b.Campaigns = append(b.Campaigns, c)
	}

	return nil
}

// LoadBundle decodes a single YAML bundle
func LoadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		if err == io.EOF {
			return &b, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode content bundle")
	}
	return &b, nil
}

// LoadDir merges every *.yaml and *.yml file in dir, in name order
func LoadDir(dir string) (*Bundle, error) {
	return loadFS(os.DirFS(dir), ".")
}

// LoadDefault loads the embedded campaigns
func LoadDefault() (*Bundle, error) {
	return loadFS(defaultData, "data")
}

func loadFS(fsys fs.FS, dir string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read content directory %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	merged := &Bundle{}
	for _, name := range names {
		f, err := fsys.Open(path.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", name)
		}
		b, err := LoadBundle(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", name)
		}
		if err := merged.Merge(b); err != nil {
			return nil, errors.Wrapf(err, "failed to merge %s", name)
		}
	}

	return merged, nil
}
