package tables

import (
	"fmt"
	"strings"

	"github.com/nathoo/starpilot/types"
)

// ValidationError collects all validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reference tables failed validation with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks decoded reference rows for consistency. Invalid tables
// are rejected as a whole; the caller substitutes empty tables.
func validate(carto []types.BodyValueRow, exo []types.SpeciesRow, fsd []types.FSDSpec) error {
	ve := &ValidationError{}

	seenBodies := map[bodyKey]bool{}
	for _, row := range carto {
		if row.BodyType == "" {
			ve.Errors = append(ve.Errors, "cartography row with empty body_type")
			continue
		}
		if row.Terraformable != "Yes" && row.Terraformable != "No" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"cartography row %q: terraformable must be Yes or No, got %q", row.BodyType, row.Terraformable))
		}
		if row.FSSBase < 0 || row.DSSMapped < 0 || row.FDMapped < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"cartography row %q: negative credit value", row.BodyType))
		}
		k := bodyKey{row.BodyType, row.Terraformable}
		if seenBodies[k] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"duplicate cartography row %q/%s", row.BodyType, row.Terraformable))
		}
		seenBodies[k] = true
	}

	seenSpecies := map[string]bool{}
	for _, row := range exo {
		if row.Species == "" {
			ve.Errors = append(ve.Errors, "exobiology row with empty species_name")
			continue
		}
		if row.BaseValue < 0 || row.FDBonus < 0 || row.FFTotal < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"exobiology row %q: negative credit value", row.Species))
		}
		if seenSpecies[row.Species] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate exobiology row %q", row.Species))
		}
		seenSpecies[row.Species] = true
	}

	for _, spec := range fsd {
		if spec.Class <= 0 || spec.Rating == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"fsd row %q: class and rating are required", spec.Name))
		}
		if spec.OptMass <= 0 || spec.MaxFuel <= 0 || spec.FuelPower <= 0 || spec.FuelMult <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"fsd row %dx%s: all drive parameters must be positive", spec.Class, spec.Rating))
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
