// Package profile loads HCL run profiles: small declarative files that
// describe a terraform binary, its working directory, and the default
// options every invocation should carry. It translates the HCL into a
// format-agnostic Profile consumed by the app layer.
package profile
