// Package schema turns untrusted configuration objects into the typed model.
//
// Validation runs in three passes over the input and never stops at the first
// defect:
//
//  1. the reader walks the untyped object (as decoded from JSON), checking
//     primitive types and building the typed model;
//  2. go-playground/validator checks field rules declared as struct tags on the
//     model (required fields, enumerations, address syntax, name syntax);
//  3. per-service semantic checks cover cross-field rules such as pool ranges
//     lying inside their subnet or duplicate ids within a collection.
//
// Every violation is reported as a Diagnostic whose Path locates the field in the
// input, e.g. "subnets[2].pools[0].range.start". A field already reported by an
// earlier pass is not reported again. Only a configuration with no diagnostics is
// lifted into models.ServiceConfig; this is the only place where untyped input
// becomes trusted internal data.
package schema
