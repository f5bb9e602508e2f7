package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var annoncePayloadSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	data, err := schemasFS.ReadFile("schemas/annonce_payload.json")
	if err != nil {
		log.Fatalf("failed to read annonce payload schema: %v", err)
	}
	if err := compiler.AddResource("schemas/annonce_payload.json", bytes.NewReader(data)); err != nil {
		log.Fatalf("failed to add annonce payload schema resource: %v", err)
	}
	annoncePayloadSchema, err = compiler.Compile("schemas/annonce_payload.json")
	if err != nil {
		log.Fatalf("failed to compile annonce payload schema: %v", err)
	}
}

// ValidateAnnoncePayload checks a create/update request body against the
// annonce schema before it is decoded.
func ValidateAnnoncePayload(body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("le corps de la requête n'est pas un JSON valide")
	}
	if err := annoncePayloadSchema.Validate(v); err != nil {
		return fmt.Errorf("payload d'annonce invalide: %w", err)
	}
	return nil
}
