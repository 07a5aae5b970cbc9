package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	schemapkg "github.com/swinslow/spdx-builder/schema"
)

// AgainstSchema compiles the given schema bytes and runs it against the JSON
// in data. The name is only used to identify the schema in errors.
func AgainstSchema(name string, schemaBytes, data []byte) error {
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource(name, bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("loading schema %q: %w", name, err)
	}
	sch, err := comp.Compile(name)
	if err != nil {
		return fmt.Errorf("compiling schema %q: %w", name, err)
	}

	// unmarshal into interface{} so the validator can walk it
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON for %q: %w", name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation against %q failed: %w", name, err)
	}
	return nil
}

// ConfigJSON runs the global configuration schema against data.
func ConfigJSON(data []byte) error {
	return AgainstSchema("spdx-builder-config.schema.json", schemapkg.ConfigSchema, data)
}

// DocumentJSON runs the SPDX 2.2 document schema against data.
func DocumentJSON(data []byte) error {
	return AgainstSchema("spdx-2.2.schema.json", schemapkg.DocumentSchema, data)
}
