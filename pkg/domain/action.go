package domain

// Action names understood by the executor.
const (
	ActionFindFiles          = "find_files"
	ActionMoveFiles          = "move_files"
	ActionCopyFiles          = "copy_files"
	ActionWriteFile          = "write_file"
	ActionRunTerminalCommand = "run_terminal_command"
)

// Parameter types supported in an ActionSpec.
const (
	ParamString = "string"
	ParamArray  = "array"
)

// ParamSpec declares one named parameter of an action.
type ParamSpec struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Items       string `json:"items,omitempty" yaml:"items,omitempty"` // element type when Type is "array"
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// ActionSpec is the static declaration of an action.
type ActionSpec struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Params      []ParamSpec `json:"params" yaml:"params"`
}

// RequiredParams returns the names of the required parameters in declaration order.
func (s ActionSpec) RequiredParams() []string {
	var out []string
	for _, p := range s.Params {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// ActionRequest is a request to run a named action.
// Arguments holds the raw JSON text produced by the provider; it is not
// guaranteed to be valid.
type ActionRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ActionError is the uniform error value of a failed ActionResult.
type ActionError struct {
	Message string `json:"message" yaml:"message"`
}

func (e *ActionError) Error() string {
	return e.Message
}

// ActionResult is the outcome of one ActionRequest.
// Exactly one of Payload and Err is set.
type ActionResult struct {
	ID      string       `json:"id,omitempty" yaml:"id,omitempty"`
	Action  string       `json:"action" yaml:"action"`
	Payload any          `json:"result,omitempty" yaml:"result,omitempty"`
	Err     *ActionError `json:"error,omitempty" yaml:"error,omitempty"`
}

// Success builds a successful result.
func Success(req ActionRequest, payload any) ActionResult {
	return ActionResult{ID: req.ID, Action: req.Name, Payload: payload}
}

// Failure builds an error result.
func Failure(req ActionRequest, msg string) ActionResult {
	return ActionResult{ID: req.ID, Action: req.Name, Err: &ActionError{Message: msg}}
}

// IsError reports whether the result carries an error.
func (r ActionResult) IsError() bool {
	return r.Err != nil
}

// TransferReport is the payload of move_files and copy_files.
type TransferReport struct {
	Success []string `json:"success" yaml:"success"`
	Error   []string `json:"error" yaml:"error"`
}

// WriteReport is the payload of write_file. Exactly one field is non-nil.
type WriteReport struct {
	Success *string `json:"success" yaml:"success"`
	Error   *string `json:"error" yaml:"error"`
}

// CommandReport is the payload of run_terminal_command.
type CommandReport struct {
	Stdout     string `json:"stdout" yaml:"stdout"`
	Stderr     string `json:"stderr" yaml:"stderr"`
	ReturnCode int    `json:"returncode" yaml:"returncode"`
}
