package validator

// =============================================================================
// VALIDATOR PHILOSOPHY: CRASH EARLY, CRASH LOUD
// =============================================================================
//
// The CUE validator is the "contract guard" between the Go analyzers
// and the OPA policy engine.
//
// WHY THIS EXISTS:
// Without validation, if a field name changes or a type is wrong:
// - The policy engine silently receives `undefined`
// - Rules don't fire
// - You think your script is clean
// - Silent bugs multiply
//
// With validation:
// - Immediate crash with clear error
// - "field 'assignments' not allowed" tells you exactly what's wrong
// - Fix the schema or the code, no guessing
//
// WHEN VALIDATION FAILS:
// 1. DON'T suppress the error or add a workaround
// 2. DON'T add fields to the schema without understanding why
// 3. DO trace back: reader bug? analyzer bug? table builder bug?
//
// The validator is the canary in the coal mine. When it complains, listen!
// =============================================================================

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed facts_schema.cue
var factsSchemaFS embed.FS

//go:embed output_schema.cue
var outputSchemaFS embed.FS

// FactsValidator validates relational fact tables against the facts schema.
// This is the "strict gatekeeper" that prevents silent failures in the
// policy engine. If the tables don't match the schema, we crash
// immediately with a clear error rather than letting OPA silently
// receive bad data.
type FactsValidator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewFactsValidator creates a validator for relational fact tables.
func NewFactsValidator() (*FactsValidator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := factsSchemaFS.ReadFile("facts_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading facts schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling facts schema: %w", schema.Err())
	}

	return &FactsValidator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate checks that the fact tables conform to the facts schema.
func (v *FactsValidator) Validate(data interface{}) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling facts to JSON: %w", err)
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling facts as CUE: %w", dataValue.Err())
	}

	factsDef := v.schema.LookupPath(cue.ParsePath("#FactTables"))
	if factsDef.Err() != nil {
		return fmt.Errorf("looking up #FactTables definition: %w", factsDef.Err())
	}

	unified := factsDef.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("facts schema validation failed: %w", err)
	}

	return nil
}

// ValidationErrors returns detailed information about all validation errors
func (v *FactsValidator) ValidationErrors(data interface{}) []string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return []string{fmt.Sprintf("compile error: %v", dataValue.Err())}
	}

	factsDef := v.schema.LookupPath(cue.ParsePath("#FactTables"))
	if factsDef.Err() != nil {
		return []string{fmt.Sprintf("schema lookup error: %v", factsDef.Err())}
	}

	unified := factsDef.Unify(dataValue)
	err = unified.Validate()
	if err == nil {
		return nil
	}

	// Extract all errors
	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}

// OutputValidator validates linter output against the output schema
type OutputValidator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewOutputValidator creates a validator for linter output
func NewOutputValidator() (*OutputValidator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := outputSchemaFS.ReadFile("output_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading output schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling output schema: %w", schema.Err())
	}

	return &OutputValidator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate checks that the output data conforms to the output schema
func (v *OutputValidator) Validate(data interface{}) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling output to JSON: %w", err)
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling output as CUE: %w", dataValue.Err())
	}

	outputDef := v.schema.LookupPath(cue.ParsePath("#LintOutput"))
	if outputDef.Err() != nil {
		return fmt.Errorf("looking up #LintOutput definition: %w", outputDef.Err())
	}

	unified := outputDef.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("output schema validation failed: %w", err)
	}

	return nil
}
