package cli

// Config holds the configuration for the command-line generator
type Config struct {
	// Directories is the list of directories to scan for marked Go files.
	// Supports Go-style patterns like "./..." for recursive scanning.
	Directories []string

	// ModuleName overrides the module path resolved from go.mod
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet restricts output to errors and the final result
	Quiet bool
}
