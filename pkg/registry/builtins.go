package registry

import "github.com/aretw0/deckhand/pkg/domain"

// Builtins returns the specs of the five actions shipped with deckhand.
func Builtins() []domain.ActionSpec {
	return []domain.ActionSpec{
		{
			Name:        domain.ActionFindFiles,
			Description: "Recursively find files matching a pattern in a directory.",
			Params: []domain.ParamSpec{
				{Name: "pattern", Type: domain.ParamString, Description: "Glob pattern (e.g., '*.pdf', 'notes.txt').", Required: true},
				{Name: "search_path", Type: domain.ParamString, Description: "Root directory to search. Default is '.'."},
			},
		},
		{
			Name:        domain.ActionMoveFiles,
			Description: "Move a list of specific files to a destination folder.",
			Params: []domain.ParamSpec{
				{Name: "source_paths", Type: domain.ParamArray, Items: domain.ParamString, Description: "List of absolute paths of files to move.", Required: true},
				{Name: "destination_folder", Type: domain.ParamString, Description: "Target directory path.", Required: true},
			},
		},
		{
			Name:        domain.ActionCopyFiles,
			Description: "Copy a list of specific files to a destination folder.",
			Params: []domain.ParamSpec{
				{Name: "source_paths", Type: domain.ParamArray, Items: domain.ParamString, Description: "List of absolute paths of files to copy.", Required: true},
				{Name: "destination_folder", Type: domain.ParamString, Description: "Target directory path.", Required: true},
			},
		},
		{
			Name:        domain.ActionWriteFile,
			Description: "Write text content to a file, creating parent directories and replacing any existing content.",
			Params: []domain.ParamSpec{
				{Name: "path", Type: domain.ParamString, Description: "Path of the file to write.", Required: true},
				{Name: "content", Type: domain.ParamString, Description: "Full text content of the file.", Required: true},
			},
		},
		{
			Name:        domain.ActionRunTerminalCommand,
			Description: "Run a command in the system shell and return its stdout, stderr and exit code.",
			Params: []domain.ParamSpec{
				{Name: "command", Type: domain.ParamString, Description: "The shell command line to execute.", Required: true},
			},
		},
	}
}
