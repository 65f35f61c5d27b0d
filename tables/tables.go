// Package tables loads and serves the read-only reference data: the
// cartography value table, the exobiology value table, and the FSD module
// table. Tables are loaded once at startup; lookups are lock-free.
package tables

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/starpilot/norm"
	"github.com/nathoo/starpilot/types"
)

// GenericBodyType is the last-resort cartography row key when a planet
// class maps to nothing known.
const GenericBodyType = "Planet Type"

type bodyKey struct {
	bodyType      string
	terraformable string // "Yes" / "No"
}

// Tables holds all reference data, immutable after Load.
type Tables struct {
	bodies  map[bodyKey]types.BodyValueRow
	species map[string]types.SpeciesRow
	fsd     []types.FSDSpec
	eng     *types.FSDEngineering
}

// tableFile is the on-disk YAML shape. One file carries all three sections
// so a data update is a single-file swap.
type tableFile struct {
	Cartography []types.BodyValueRow  `yaml:"cartography"`
	Exobiology  []types.SpeciesRow    `yaml:"exobiology"`
	FSD         []types.FSDSpec       `yaml:"fsd_modules"`
	Engineering *types.FSDEngineering `yaml:"fsd_engineering"`
}

// Empty returns tables with no rows. Every lookup misses; the value engine
// degrades to zero accumulation.
func Empty() *Tables {
	return &Tables{
		bodies:  map[bodyKey]types.BodyValueRow{},
		species: map[string]types.SpeciesRow{},
	}
}

// Load reads reference.yaml from dir. Missing or corrupt data is non-fatal:
// the returned tables are empty and the error describes the degradation.
func Load(dir string) (*Tables, error) {
	path := filepath.Join(dir, "reference.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return Empty(), fmt.Errorf("reading reference tables: %w", err)
	}
	var tf tableFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return Empty(), fmt.Errorf("parsing reference tables: %w", err)
	}
	return Build(tf.Cartography, tf.Exobiology, tf.FSD, tf.Engineering)
}

// Build assembles tables from already-decoded rows and validates them.
func Build(carto []types.BodyValueRow, exo []types.SpeciesRow, fsd []types.FSDSpec, eng *types.FSDEngineering) (*Tables, error) {
	t := Empty()
	for _, row := range carto {
		t.bodies[bodyKey{row.BodyType, row.Terraformable}] = row
	}
	for _, row := range exo {
		t.species[norm.Species(row.Species)] = row
	}
	t.fsd = fsd
	t.eng = eng
	if err := validate(carto, exo, fsd); err != nil {
		return Empty(), err
	}
	return t, nil
}

// BodyValue resolves a journal (PlanetClass, TerraformState) pair to its
// cartography row. Resolution order: canonical mapping, soft title-cased
// match, then the generic Planet Type row.
func (t *Tables) BodyValue(planetClass, terraformState string) (types.BodyValueRow, bool) {
	bodyType, terraformable := CanonicalBody(planetClass, terraformState)
	tf := "No"
	if terraformable {
		tf = "Yes"
	}
	if row, ok := t.bodies[bodyKey{bodyType, tf}]; ok {
		return row, true
	}
	// Soft match: the raw class title-cased, for rows the canonical mapping
	// does not know about yet.
	if row, ok := t.bodies[bodyKey{norm.Title(planetClass), tf}]; ok {
		return row, true
	}
	if row, ok := t.bodies[bodyKey{GenericBodyType, tf}]; ok {
		return row, true
	}
	row, ok := t.bodies[bodyKey{GenericBodyType, "No"}]
	return row, ok
}

// Species resolves an organism name (raw or codex-wrapped) to its
// exobiology row.
func (t *Tables) Species(name string) (types.SpeciesRow, bool) {
	row, ok := t.species[norm.Species(name)]
	return row, ok
}

// FSD resolves a drive by class and rating.
func (t *Tables) FSD(class int, rating string) (types.FSDSpec, bool) {
	for _, spec := range t.fsd {
		if spec.Class == class && spec.Rating == rating {
			return spec, true
		}
	}
	return types.FSDSpec{}, false
}

// Engineering returns the coarse engineering multipliers, or nil when the
// table carries none.
func (t *Tables) Engineering() *types.FSDEngineering {
	return t.eng
}
