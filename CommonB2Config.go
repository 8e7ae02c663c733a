package box2d

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// World definitions can be stored as YAML documents. Keys follow the yaml tags
// of B2WorldDef. Missing keys keep their B2DefaultWorldDef values.
//
//	gravity: {x: 0, y: -10}
//	contactHertz: 30
//	enableSleep: true
//	workerCount: 4

// Same layout as B2WorldDef without the methods, so encoding does not recurse.
type b2WorldDefDocument B2WorldDef

/// Read a world definition from YAML. Unknown keys are rejected. An empty
/// document yields the default definition.
func B2LoadWorldDefYAML(r io.Reader) (B2WorldDef, error) {
	doc := b2WorldDefDocument(B2DefaultWorldDef())

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && errors.Is(err, io.EOF) == false {
		return B2DefaultWorldDef(), fmt.Errorf("world def yaml: %w", err)
	}

	def := B2WorldDef(doc)
	if err := def.validate(); err != nil {
		return B2DefaultWorldDef(), err
	}

	return def, nil
}

/// Write a world definition as YAML. The scheduler is not stored.
func B2SaveWorldDefYAML(w io.Writer, def B2WorldDef) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(def); err != nil {
		return fmt.Errorf("world def yaml: %w", err)
	}

	return encoder.Close()
}

/// Implements yaml.Marshaler.
func (def B2WorldDef) MarshalYAML() (interface{}, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}

	return b2WorldDefDocument(def), nil
}
