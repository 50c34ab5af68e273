package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/invopop/jsonschema"
)

// buildSchema 生成配置文档的 JSON Schema（字段名取 yaml 标签）
func buildSchema(doc string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	var schema *jsonschema.Schema
	switch doc {
	case "track":
		schema = reflector.Reflect(&config.TrackConfig{})
		schema.Title = "Track Config"
		schema.Description = "Procedural track generation parameters; missing fields keep their defaults."
	case "catalog":
		schema = reflector.Reflect(&config.CatalogConfig{})
		schema.Title = "Template Catalog"
		schema.Description = "Instantiable templates, weighted obstacle entries and star/finish gate references."
	default:
		return nil, fmt.Errorf("unknown schema document %q (want track or catalog)", doc)
	}
	return schema, nil
}

func writeSchema(out io.Writer, doc string) error {
	schema, err := buildSchema(doc)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
