package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formschema/pkg/converter"
	"github.com/goliatone/go-formschema/pkg/formschema"
	pkgopenapi "github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/tui"
)

func main() {
	schemaPath := flag.String("schema", "", "form schema file (JSON or YAML)")
	openapiSource := flag.String("openapi", "", "OpenAPI document path or URL")
	component := flag.String("component", "", "OpenAPI component schema to import")
	operation := flag.String("operation", "", "OpenAPI operation whose request body to import")
	renderer := flag.String("renderer", "html", "renderer to use")
	output := flag.String("output", "", "output file (stdout if empty)")
	valuesPath := flag.String("validate", "", "validate a JSON values file against the schema and exit")
	interactive := flag.Bool("tui", false, "fill the form interactively in the terminal")
	flag.Parse()

	ctx := context.Background()

	doc, err := resolveDocument(ctx, *schemaPath, *openapiSource, *component, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	if *valuesPath != "" {
		if err := validateValues(doc, *valuesPath); err != nil {
			log.Fatal(err)
		}
		fmt.Println("ok")
		return
	}

	if *interactive {
		values, err := runTUI(ctx, doc)
		if err != nil {
			log.Fatalf("Form session failed: %v", err)
		}
		payload, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode values: %v", err)
		}
		writeOutput(*output, payload)
		return
	}

	gen := orchestrator.New()
	rendered, err := gen.Generate(ctx, orchestrator.Request{
		Document:      &doc,
		Renderer:      *renderer,
		RenderOptions: render.Options{},
	})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}
	writeOutput(*output, rendered)
}

func resolveDocument(ctx context.Context, schemaPath, openapiSource, component, operation string) (formschema.Document, error) {
	switch {
	case schemaPath != "":
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return formschema.Document{}, err
		}
		switch strings.ToLower(filepath.Ext(schemaPath)) {
		case ".yaml", ".yml":
			return formschema.ParseYAML(data)
		default:
			return formschema.Parse(data)
		}
	case openapiSource != "":
		loader := pkgopenapi.NewLoader(pkgopenapi.WithHTTPFallback(0))
		loaded, err := loader.Load(ctx, parseSource(openapiSource))
		if err != nil {
			return formschema.Document{}, err
		}
		return pkgopenapi.Import(ctx, loaded, pkgopenapi.ImportOptions{
			Component:   component,
			OperationID: operation,
		})
	default:
		return formschema.Document{}, fmt.Errorf("provide -schema or -openapi")
	}
}

func validateValues(doc formschema.Document, valuesPath string) error {
	data, err := os.ReadFile(valuesPath)
	if err != nil {
		return err
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse values: %w", err)
	}
	schema, err := converter.FromFormSchema(doc)
	if err != nil {
		return err
	}
	if issues := schema.Validate(values); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "%s: %s\n", issue.FieldPath(), issue.Message)
		}
		return fmt.Errorf("%d validation issue(s)", len(issues))
	}
	return nil
}

func runTUI(ctx context.Context, doc formschema.Document) (map[string]any, error) {
	session, err := tui.NewSession(doc)
	if err != nil {
		return nil, err
	}
	return session.Run(ctx)
}

func writeOutput(path string, payload []byte) {
	if path == "" {
		fmt.Println(string(payload))
		return
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Written to %s\n", path)
}

func parseSource(raw string) pkgopenapi.Source {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return pkgopenapi.SourceFromURL(trimmed)
	}
	return pkgopenapi.SourceFromFile(trimmed)
}
