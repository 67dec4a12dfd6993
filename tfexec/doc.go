// Package tfexec drives the Terraform command-line tool as a child process.
//
// Callers describe an invocation as a command name, positional arguments and
// an ordered set of typed option values. The package encodes those into an
// argv, materializes variable maps as ephemeral .tfvars.json files, runs the
// binary, and normalizes the outcome into an exit code plus captured output.
// On success the persisted state file is re-read into Terraform.State.
package tfexec
