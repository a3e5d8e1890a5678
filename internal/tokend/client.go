package tokend

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Resolution is a decoded Resolve response.
type Resolution struct {
	Token    string `json:"token" yaml:"token"`
	Hex      string `json:"hex" yaml:"hex"`
	R        uint8  `json:"r" yaml:"r"`
	G        uint8  `json:"g" yaml:"g"`
	B        uint8  `json:"b" yaml:"b"`
	A        uint8  `json:"a" yaml:"a"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Client calls a remote token daemon.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial opens a plaintext connection to a daemon at target.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to tokend at %s: %w", target, err)
	}
	return conn, nil
}

// Resolve resolves token remotely.
func (c *Client) Resolve(ctx context.Context, token string) (*Resolution, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ResolveMethod, wrapperspb.String(token), out); err != nil {
		return nil, err
	}

	fields := out.GetFields()
	return &Resolution{
		Token:    fields["token"].GetStringValue(),
		Hex:      fields["hex"].GetStringValue(),
		R:        uint8(fields["r"].GetNumberValue()),
		G:        uint8(fields["g"].GetNumberValue()),
		B:        uint8(fields["b"].GetNumberValue()),
		A:        uint8(fields["a"].GetNumberValue()),
		Resolved: fields["resolved"].GetBoolValue(),
		Error:    fields["error"].GetStringValue(),
	}, nil
}

// ListTokens returns the remote table as layer -> path -> hex.
func (c *Client) ListTokens(ctx context.Context) (map[string]map[string]string, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ListTokensMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}

	table := make(map[string]map[string]string, len(out.GetFields()))
	for layer, value := range out.GetFields() {
		entries := make(map[string]string)
		for path, hex := range value.GetStructValue().GetFields() {
			entries[path] = hex.GetStringValue()
		}
		table[layer] = entries
	}
	return table, nil
}

// Status returns the remote daemon status as a plain map.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, StatusMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
