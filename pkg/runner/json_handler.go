package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each Event is written as one JSON object. Each input line is a JSON string, an object
// with a "text" field, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, events ...Event) error {
	for _, ev := range events {
		if err := h.Encoder.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	return SanitizeInput(decodeInputLine(text))
}

func decodeInputLine(line string) string {
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		return val
	}
	var msg struct {
		Text *string `json:"text"`
	}
	if strings.HasPrefix(line, "{") && json.Unmarshal([]byte(line), &msg) == nil && msg.Text != nil {
		return *msg.Text
	}
	return line
}
