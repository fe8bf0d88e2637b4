package rpc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameBytes bounds a single envelope's encoded size, guarding the
// reader against an unbounded allocation driven by a malformed length
// prefix.
const maxFrameBytes = 16 << 20 // 16 MiB

// writeRequest encodes a request as: length:uint32 | method:int32 | data.
func writeRequest(w io.Writer, req Request) error {
	body := make([]byte, 4+len(req.Data))
	binary.BigEndian.PutUint32(body[0:4], uint32(req.Method))
	copy(body[4:], req.Data)
	return writeFrame(w, body)
}

// readRequest decodes a frame written by writeRequest.
func readRequest(r io.Reader) (Request, error) {
	body, err := readFrame(r)
	if err != nil {
		return Request{}, err
	}
	if len(body) < 4 {
		return Request{}, fmt.Errorf("malformed request: frame too short (%d bytes)", len(body))
	}
	method := Method(int32(binary.BigEndian.Uint32(body[0:4])))
	data := append([]byte(nil), body[4:]...)
	return Request{Method: method, Data: data}, nil
}

// writeResponse encodes a response as:
// length:uint32 | method:int32 | status:uint8 | errlen:uint32 | error | data.
func writeResponse(w io.Writer, resp Response) error {
	errBytes := []byte(resp.Error)
	body := make([]byte, 0, 4+1+4+len(errBytes)+len(resp.Data))

	methodBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(methodBuf, uint32(resp.Method))
	body = append(body, methodBuf...)

	status := byte(0)
	if resp.Status {
		status = 1
	}
	body = append(body, status)

	errLenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(errLenBuf, uint32(len(errBytes)))
	body = append(body, errLenBuf...)
	body = append(body, errBytes...)

	body = append(body, resp.Data...)

	return writeFrame(w, body)
}

// readResponse decodes a frame written by writeResponse.
func readResponse(r io.Reader) (Response, error) {
	body, err := readFrame(r)
	if err != nil {
		return Response{}, err
	}
	if len(body) < 9 {
		return Response{}, fmt.Errorf("malformed response: frame too short (%d bytes)", len(body))
	}

	method := Method(int32(binary.BigEndian.Uint32(body[0:4])))
	status := body[4] != 0
	errLen := binary.BigEndian.Uint32(body[5:9])

	offset := 9
	if uint32(len(body)-offset) < errLen {
		return Response{}, fmt.Errorf("malformed response: truncated error string")
	}
	errStr := string(body[offset : offset+int(errLen)])
	offset += int(errLen)
	data := append([]byte(nil), body[offset:]...)

	return Response{Method: method, Status: status, Data: data, Error: errStr}, nil
}

func writeFrame(w io.Writer, body []byte) error {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(body)))
	if _, err := w.Write(lenBuf); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}

func readFrame(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf)
	if n > maxFrameBytes {
		return nil, fmt.Errorf("frame too large: %d bytes", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}
