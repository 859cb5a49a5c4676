package dto

// CodeExecutionRequest runs a piece of candidate code in a sandbox.
type CodeExecutionRequest struct {
	Language string `json:"language" validate:"required"`
	Source   string `json:"source" validate:"required,min=1"`
	Stdin    string `json:"stdin"`
}

// CodeExecutionResponse reports the sandboxed run outcome.
type CodeExecutionResponse struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	DurationMs int64  `json:"duration_ms"`
	TimedOut   bool   `json:"timed_out"`
}
