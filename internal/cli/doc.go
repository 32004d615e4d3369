// Package cli is the command line front end. It parses flags with cobra,
// builds an app.Config and maps failures to process exit codes.
package cli
