package repl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// codec frames requests and responses the way the REPL expects: a request
// is one JSON value followed by a blank line; a response is JSON (possibly
// pretty-printed over several lines) terminated by a blank line.
type codec struct {
	w  io.Writer
	br *bufio.Reader
}

func newCodec(w io.Writer, r io.Reader) *codec {
	return &codec{w: w, br: bufio.NewReader(r)}
}

func (c *codec) writeRequest(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	data = append(data, '\n', '\n')
	if _, err := c.w.Write(data); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

func (c *codec) readResponse() (json.RawMessage, error) {
	var buf []byte
	started := false
	for {
		line, err := c.br.ReadBytes('\n')
		if len(trimEOL(line)) > 0 {
			started = true
			buf = append(buf, line...)
		} else if started {
			// Blank line terminates the response. Leading blanks are
			// build noise and are skipped.
			break
		}
		if err != nil {
			if err == io.EOF && started && json.Valid(buf) {
				break
			}
			return nil, fmt.Errorf("read response: %w", err)
		}
	}
	if !json.Valid(buf) {
		return nil, fmt.Errorf("read response: invalid JSON: %q", string(buf))
	}
	return json.RawMessage(buf), nil
}

func trimEOL(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
