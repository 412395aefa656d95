// Package validation checks configuration and request structs against
// `validate` struct tags with go-playground/validator.
//
//	type serverConfig struct {
//	    Port        int    `validate:"gte=0,lte=65535"`
//	    MaxBodySize string `validate:"size"`
//	}
//	if err := validation.Struct(cfg); err != nil { ... }
//
// Failures come back as an INVALID_INPUT *errors.AppError whose details
// list every failing field.
package validation
