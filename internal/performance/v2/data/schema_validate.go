package data

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/provider.schema.json
var providerSchemaJSON string

var providerSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("provider.schema.json", strings.NewReader(providerSchemaJSON)); err != nil {
		panic(fmt.Sprintf("data: invalid embedded provider schema: %v", err))
	}
	providerSchema = compiler.MustCompile("provider.schema.json")
}

// ValidateAgainstSchema checks a decoded ProviderConfig against the bundled
// JSON Schema. Registry.Acquire does not call it (Acquire runs only
// ProviderConfig.Validate). It follows the same schema-assertion pattern
// exercised by internal/cli/schema_assertion_test.go, but applied to
// provider configuration instead of an HTTP response body.
func ValidateAgainstSchema(cfg *ProviderConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("data: marshal config for schema validation: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("data: unmarshal config for schema validation: %w", err)
	}

	if err := providerSchema.Validate(doc); err != nil {
		return fmt.Errorf("data: provider config failed schema validation: %w", err)
	}
	return nil
}
