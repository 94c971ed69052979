package auth

import (
	"context"
	"encoding/json"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
)

// Authorizer retries JSON-RPC requests rejected as unauthorized with a token carried in params._meta
type Authorizer struct {
	Transport *RoundTripper
}

// Intercept returns the request to resend, or nil when the response needs no authorization
func (a *Authorizer) Intercept(ctx context.Context, request *jsonrpc.Request, response *jsonrpc.Response) (*jsonrpc.Request, error) {
	if response == nil || response.Error == nil || response.Error.Code != schema.Unauthorized {
		return nil, nil
	}
	token, err := a.Transport.Token(ctx)
	if err != nil {
		return nil, err
	}
	return injectToken(request, token.AccessToken)
}

func injectToken(request *jsonrpc.Request, accessToken string) (*jsonrpc.Request, error) {
	params := map[string]interface{}{}
	if len(request.Params) > 0 {
		if err := json.Unmarshal(request.Params, &params); err != nil {
			return nil, err
		}
	}
	paramMeta, ok := params["_meta"].(map[string]interface{})
	if !ok {
		paramMeta = map[string]interface{}{}
		params["_meta"] = paramMeta
	}
	authorization, ok := paramMeta["authorization"].(map[string]interface{})
	if !ok {
		authorization = map[string]interface{}{}
		paramMeta["authorization"] = authorization
	}
	authorization["token"] = accessToken
	next := *request
	var err error
	if next.Params, err = json.Marshal(params); err != nil {
		return nil, err
	}
	return &next, nil
}

// NewAuthorizer creates an authorizer backed by transport
func NewAuthorizer(transport *RoundTripper) *Authorizer {
	return &Authorizer{Transport: transport}
}
