package actions

// FindParams are the arguments of find_files.
type FindParams struct {
	Pattern    string `mapstructure:"pattern"`
	SearchPath string `mapstructure:"search_path"`
}

// TransferParams are the arguments of move_files and copy_files.
type TransferParams struct {
	SourcePaths       []string `mapstructure:"source_paths"`
	DestinationFolder string   `mapstructure:"destination_folder"`
}

// WriteParams are the arguments of write_file.
type WriteParams struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

// CommandParams are the arguments of run_terminal_command.
type CommandParams struct {
	Command string `mapstructure:"command"`
}
