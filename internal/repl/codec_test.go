package repl

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteRequestFraming(t *testing.T) {
	var buf bytes.Buffer
	c := newCodec(&buf, strings.NewReader(""))

	if err := c.writeRequest(Command{Cmd: "open MyNat"}); err != nil {
		t.Fatal(err)
	}
	want := "{\"cmd\":\"open MyNat\"}\n\n"
	if got := buf.String(); got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}

func TestReadResponseSingleLine(t *testing.T) {
	c := newCodec(&bytes.Buffer{}, strings.NewReader("{\"env\": 1}\n\n"))
	raw, err := c.readResponse()
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "{\"env\": 1}\n" {
		t.Errorf("raw = %q", string(raw))
	}
}

func TestReadResponsePrettyPrinted(t *testing.T) {
	input := "{\"env\": 2,\n \"messages\": []}\n\n"
	c := newCodec(&bytes.Buffer{}, strings.NewReader(input))
	raw, err := c.readResponse()
	if err != nil {
		t.Fatal(err)
	}
	var resp CommandResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Env != 2 {
		t.Errorf("env = %d", resp.Env)
	}
}

func TestReadResponseSkipsLeadingBlankLines(t *testing.T) {
	c := newCodec(&bytes.Buffer{}, strings.NewReader("\n\n{\"env\": 3}\n\n"))
	raw, err := c.readResponse()
	if err != nil {
		t.Fatal(err)
	}
	var resp CommandResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Env != 3 {
		t.Errorf("env = %d", resp.Env)
	}
}

func TestReadResponseEOFTerminated(t *testing.T) {
	c := newCodec(&bytes.Buffer{}, strings.NewReader("{\"env\": 4}\n"))
	raw, err := c.readResponse()
	if err != nil {
		t.Fatal(err)
	}
	var resp CommandResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Env != 4 {
		t.Errorf("env = %d", resp.Env)
	}
}

func TestReadResponseGarbage(t *testing.T) {
	c := newCodec(&bytes.Buffer{}, strings.NewReader("error: lake build failed\n\n"))
	if _, err := c.readResponse(); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}
