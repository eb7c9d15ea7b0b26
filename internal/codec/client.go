package codec

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region methods
// Full method names served by the remote inference process. Requests and
// responses are google.protobuf.Struct messages.
const (
	EmbedMethod    = "/promptaligner.v1.EmbeddingService/Embed"
	GenerateMethod = "/promptaligner.v1.ArtifactService/Generate"
	CaptionMethod  = "/promptaligner.v1.ArtifactService/Caption"
)

// #endregion methods

// #region client-struct
// Client wraps the gRPC connection to the remote embedding and artifact service.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
	addr string
}

// #endregion client-struct

// #region constructor
// NewClient connects to the inference gRPC server at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn, addr: addr}, nil
}

// NewClientWithConn creates a Client over an injected connection.
// Used for testing without a real gRPC server.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc, addr: "injected"}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ModelID identifies the remote provider for cache keys.
func (c *Client) ModelID() string {
	return "grpc:" + c.addr
}

// #endregion close

// #region embed
// Embed sends text to the remote service and returns its embedding.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.call(ctx, EmbedMethod, map[string]interface{}{"text": text})
	if err != nil {
		return nil, fmt.Errorf("embed rpc: %w", err)
	}
	list := resp.GetFields()["embedding"].GetListValue()
	if list == nil || len(list.GetValues()) == 0 {
		return nil, errors.New("embed rpc: response has no embedding")
	}
	vec := make([]float32, len(list.GetValues()))
	for i, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("embed rpc: element %d is not a number", i)
		}
		vec[i] = float32(n.NumberValue)
	}
	return vec, nil
}

// #endregion embed

// #region generate
// Generate asks the remote service for an artifact and returns its reference.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.call(ctx, GenerateMethod, map[string]interface{}{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("generate rpc: %w", err)
	}
	return stringField(resp, "artifact")
}

// #endregion generate

// #region caption
// Caption asks the remote service to describe an artifact.
func (c *Client) Caption(ctx context.Context, artifact string) (string, error) {
	resp, err := c.call(ctx, CaptionMethod, map[string]interface{}{"artifact": artifact})
	if err != nil {
		return "", fmt.Errorf("caption rpc: %w", err)
	}
	return stringField(resp, "caption")
}

// #endregion caption

// #region helpers
func (c *Client) call(ctx context.Context, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name].GetKind().(*structpb.Value_StringValue)
	if !ok || v.StringValue == "" {
		return "", fmt.Errorf("response has no %s", name)
	}
	return v.StringValue, nil
}

// #endregion helpers
