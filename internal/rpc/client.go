package rpc

import (
	"fmt"
	"net"
)

// Client is a synchronous control-plane client: each call connects, sends
// one request, awaits one reply, and disconnects. There is no persistent
// connection or pipelining on the client side either.
type Client struct {
	addr string
}

// NewClient builds a client bound to a Unix-domain socket path, accepting
// the same "ipc://"/"unix://" scheme prefixes as the server.
func NewClient(addr string) *Client {
	return &Client{addr: stripScheme(addr)}
}

func (c *Client) roundTrip(req Request) (Response, error) {
	conn, err := net.Dial("unix", c.addr)
	if err != nil {
		return Response{}, fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	defer conn.Close()

	if err := writeRequest(conn, req); err != nil {
		return Response{}, err
	}
	resp, err := readResponse(conn)
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Ping sends a ping and returns the echoed message, or an error
// describing a transport failure or a status=false reply.
func (c *Client) Ping(message string) (string, error) {
	data, err := encodePayload(PingRequest{Message: message})
	if err != nil {
		return "", err
	}
	resp, err := c.roundTrip(Request{Method: MethodPing, Data: data})
	if err != nil {
		return "", err
	}
	if !resp.Status {
		return "", fmt.Errorf("%s", resp.Error)
	}
	var payload PingResponse
	if err := decodePayload(resp.Data, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// ListUnits returns a snapshot of every managed unit.
func (c *Client) ListUnits() ([]UnitInfo, error) {
	resp, err := c.roundTrip(Request{Method: MethodListUnits})
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	var payload ListUnitsResponse
	if err := decodePayload(resp.Data, &payload); err != nil {
		return nil, err
	}
	return payload.Units, nil
}

// StartUnit requests the daemon start a unit by name.
func (c *Client) StartUnit(name string) error {
	data, err := encodePayload(UnitNameRequest{UnitName: name})
	if err != nil {
		return err
	}
	resp, err := c.roundTrip(Request{Method: MethodStartUnit, Data: data})
	if err != nil {
		return err
	}
	if !resp.Status {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// StopUnit requests the daemon stop a unit by name.
func (c *Client) StopUnit(name string) error {
	data, err := encodePayload(UnitNameRequest{UnitName: name})
	if err != nil {
		return err
	}
	resp, err := c.roundTrip(Request{Method: MethodStopUnit, Data: data})
	if err != nil {
		return err
	}
	if !resp.Status {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
