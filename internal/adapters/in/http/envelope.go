package http

import (
	"net/http"

	"crmsync/internal/core/application/validation"

	"github.com/labstack/echo/v4"
)

const jsonRPCVersion = "2.0"

// syncRequest is a decoded sync body. CRMs built around JSON-RPC routes wrap the
// payload as {"jsonrpc":"2.0","id":...,"params":{...}} and expect the answer
// wrapped the same way.
type syncRequest struct {
	payload  validation.Payload
	envelope bool
	rpcID    any
}

type rpcResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result"`
}

// Result is the body of every sync answer.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	OrderID *int64 `json:"order_id,omitempty"`
}

func successResult() Result {
	return Result{Status: "success"}
}

func errorResult(message string) Result {
	return Result{Status: "error", Message: message}
}

func readSyncRequest(ctx echo.Context) (syncRequest, error) {
	p, err := validation.DecodePayload(ctx.Request().Body)
	if err != nil {
		return syncRequest{}, err
	}

	if _, ok := p["jsonrpc"]; !ok {
		return syncRequest{payload: p}, nil
	}

	req := syncRequest{envelope: true, rpcID: p["id"]}
	switch params := p["params"].(type) {
	case map[string]any:
		req.payload = validation.Payload(params)
	case nil:
		req.payload = validation.Payload{}
	default:
		return req, validation.ErrPayloadIsNotObject
	}
	return req, nil
}

// reply writes body with code, or wraps it in a JSON-RPC response. JSON-RPC
// answers always use 200 and carry the outcome in the result.
func (r syncRequest) reply(ctx echo.Context, code int, body Result) error {
	if r.envelope {
		return ctx.JSON(http.StatusOK, rpcResponse{
			JSONRPC: jsonRPCVersion,
			ID:      r.rpcID,
			Result:  body,
		})
	}
	return ctx.JSON(code, body)
}
