package schema

import _ "embed"

//go:embed spdx-builder-config.schema.json
var ConfigSchema []byte

//go:embed spdx-2.2.schema.json
var DocumentSchema []byte
