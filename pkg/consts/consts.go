package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ConfigFileName is the name of the project configuration file looked up
	// in the project root.
	ConfigFileName = "changekeeper.yaml"
)
