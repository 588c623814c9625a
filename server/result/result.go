// Package result contains the results that endpoints return and that are
// written out as API responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is the outcome of an endpoint. The zero value is not valid; create
// one with one of the functions in this package.
//
// Every constructor that takes internalMsg treats it as an optional format
// string followed by its arguments. The formatted message goes to the server
// log and never to the client.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string
	hdrs  [][2]string

	// set by PrepareMarshaledResponse
	respJSONBytes []byte
}

// logMsg formats an optional internalMsg argument list, falling back to def
// when it is empty.
func logMsg(def string, internalMsg []interface{}) string {
	if len(internalMsg) == 0 {
		return def
	}
	return fmt.Sprintf(internalMsg[0].(string), internalMsg[1:]...)
}

func success(status int, respObj interface{}, msg string) Result {
	return Result{IsJSON: true, Status: status, InternalMsg: msg, resp: respObj}
}

// OK returns an HTTP-200 carrying respObj.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return success(http.StatusOK, respObj, logMsg("OK", internalMsg))
}

// Created returns an HTTP-201 carrying respObj.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return success(http.StatusCreated, respObj, logMsg("created", internalMsg))
}

// NoContent returns an HTTP-204 with no body.
func NoContent(internalMsg ...interface{}) Result {
	return success(http.StatusNoContent, nil, logMsg("no content", internalMsg))
}

// Err returns an error Result whose body is an ErrorResponse with userMsg.
// internalMsg is a format string for v.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// TextErr is like Err but writes userMsg as plain text instead of JSON.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

func failure(status int, userMsg, def string, internalMsg []interface{}) Result {
	return Err(status, userMsg, "%s", logMsg(def, internalMsg))
}

// BadRequest returns an HTTP-400 telling the client userMsg.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return failure(http.StatusBadRequest, userMsg, "bad request", internalMsg)
}

// Conflict returns an HTTP-409 telling the client userMsg.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return failure(http.StatusConflict, userMsg, "conflict", internalMsg)
}

// UnprocessableEntity returns an HTTP-422 telling the client userMsg. It is for
// requests that are well-formed but describe a grammar that cannot be
// normalized, such as one whose language is empty.
func UnprocessableEntity(userMsg string, internalMsg ...interface{}) Result {
	return failure(http.StatusUnprocessableEntity, userMsg, "unprocessable entity", internalMsg)
}

// MethodNotAllowed returns an HTTP-405 naming the method and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return failure(http.StatusMethodNotAllowed, userMsg, "method not allowed", internalMsg)
}

// NotFound returns an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return failure(http.StatusNotFound, "The requested resource was not found", "not found", internalMsg)
}

// Forbidden returns an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	return failure(http.StatusForbidden, "You don't have permission to do that", "forbidden", internalMsg)
}

// Unauthorized returns an HTTP-401 with a WWW-Authenticate header for bearer
// tokens. An empty userMsg is replaced with a generic one.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return failure(http.StatusUnauthorized, userMsg, "unauthorized", internalMsg).
		WithHeader("WWW-Authenticate", `Bearer realm="cnfserver", charset="utf-8"`)
}

// InternalServerError returns an HTTP-500. The client only ever sees a
// generic message.
func InternalServerError(internalMsg ...interface{}) Result {
	return failure(http.StatusInternalServerError, "An internal server error occurred", "internal server error", internalMsg)
}

// Redirection returns a Result that permanently redirects the client to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: "redirect -> " + uri,
		redir:       uri,
	}
}

// WithHeader returns a copy of r that also sets the given header when it is
// written.
func (r Result) WithHeader(name, val string) Result {
	r.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	r.respJSONBytes = nil
	return r
}

// PrepareMarshaledResponse marshals the JSON body of r ahead of writing it so
// that marshaling problems can be turned into an error response. It does
// nothing for results without a JSON body or that are already marshaled.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil || !r.IsJSON || r.Status == http.StatusNoContent || r.redir != "" {
		return nil
	}

	var err error
	r.respJSONBytes, err = json.Marshal(r.resp)
	return err
}

// WriteResponse writes r to w. It panics if r was not created with one of the
// functions in this package or its body cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var body []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		body = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent && r.redir == "" {
			body = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(body)
	}
}
