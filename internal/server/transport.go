package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/jsonrpc"
)

// Transport frames newline-delimited JSON-RPC messages over a reader
// and writer pair, normally stdin and stdout. Writes are serialized so
// concurrent handlers cannot interleave output.
type Transport struct {
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex
	logger  zerolog.Logger
}

// NewTransport creates a transport over the given streams.
func NewTransport(r io.Reader, w io.Writer, logger zerolog.Logger) *Transport {
	return &Transport{
		reader: bufio.NewReader(r),
		writer: w,
		logger: logger.With().Str("component", "transport").Logger(),
	}
}

// ReadLine reads one raw message. io.EOF means the peer closed the
// channel.
func (t *Transport) ReadLine() ([]byte, error) {
	line, err := t.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return nil, err
	}
	return line, nil
}

// WriteResponse marshals and writes a single response followed by a
// newline.
func (t *Transport) WriteResponse(resp *jsonrpc.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	data = append(data, '\n')

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if resp.Error != nil {
		t.logger.Debug().
			Interface("id", resp.ID).
			Int("code", int(resp.Error.Code)).
			Str("message", resp.Error.Message).
			Msg("Wrote error response")
	} else {
		t.logger.Debug().Interface("id", resp.ID).Msg("Wrote response")
	}
	return nil
}
