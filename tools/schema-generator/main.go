package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/runlab/sweeprun/pkg/settings"
	"github.com/runlab/sweeprun/pkg/sweepfile"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	sweepSchema := r.Reflect(&sweepfile.File{})
	sweepSchema.Title = "Sweeprun Sweep File"
	sweepSchema.Description = "Schema for a sweeprun sweep definition."
	sweepSchema.Required = nil

	data, err := json.MarshalIndent(sweepSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling sweep schema: %v", err)
	}
	if err := os.WriteFile("sweep.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing sweep schema file: %v", err)
	}
	log.Printf("Successfully generated sweep schema at sweep.schema.json")

	settingsSchema := r.Reflect(&settings.Settings{})
	settingsSchema.Title = "Sweeprun Settings"
	settingsSchema.Description = "Schema for the sweeprun settings.yaml file."
	settingsSchema.Required = nil

	settingsData, err := json.MarshalIndent(settingsSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling settings schema: %v", err)
	}
	if err := os.WriteFile("settings.schema.json", settingsData, 0644); err != nil {
		log.Fatalf("Error writing settings schema file: %v", err)
	}
	log.Printf("Successfully generated settings schema at settings.schema.json")
}
