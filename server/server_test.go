package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dekarrin/chomsky/internal/normalize"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-thirty-two-bytes"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv, err := New(Config{
		TokenSecret:       []byte(testSecret),
		UnauthDelayMillis: -1,
		AdminUsername:     "admin",
		AdminPassword:     "hunter2",
		PasswordCost:      bcrypt.MinCost,
	}, nil)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

// do sends a request with an optional JSON body and bearer token and decodes
// the JSON response body into out if out is not nil.
func do(t *testing.T, ts *httptest.Server, method, path, tok string, body, out interface{}) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+"/api/v1"+path, reqBody)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response (HTTP-%d): %v", resp.StatusCode, err)
		}
	}
	return resp.StatusCode
}

type loginResp struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type grammarResp struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Start string   `json:"start"`
	CNF   []string `json:"cnf"`
}

func login(t *testing.T, ts *httptest.Server, username, password string) loginResp {
	t.Helper()
	var lr loginResp
	status := do(t, ts, http.MethodPost, "/login", "", map[string]string{"username": username, "password": password}, &lr)
	if status != http.StatusCreated {
		t.Fatalf("login %q: got HTTP-%d", username, status)
	}
	return lr
}

func Test_Server_CreateGrammar(t *testing.T) {
	testCases := []struct {
		name         string
		body         map[string]interface{}
		noAuth       bool
		expectStatus int
		expectCNF    []string
	}{
		{
			name: "normalizes",
			body: map[string]interface{}{
				"name":         "balanced",
				"nonterminals": []string{"S"},
				"terminals":    []string{"a", "b"},
				"rules":        "S -> a S b | ε",
			},
			expectStatus: http.StatusCreated,
			expectCNF: []string{
				"E1 -> ε",
				"N4 -> T2 S",
				"S -> N4 T3 | T2 T3",
				"S0 -> N4 T3 | T2 T3 | E1",
				"T2 -> a",
				"T3 -> b",
			},
		},
		{
			name: "malformed rule",
			body: map[string]interface{}{
				"name":         "bad",
				"nonterminals": []string{"S"},
				"terminals":    []string{"a"},
				"rules":        "S a",
			},
			expectStatus: http.StatusBadRequest,
		},
		{
			name: "undeclared symbol",
			body: map[string]interface{}{
				"name":         "bad",
				"nonterminals": []string{"S"},
				"terminals":    []string{"a"},
				"rules":        "S -> a B",
			},
			expectStatus: http.StatusBadRequest,
		},
		{
			name: "empty language",
			body: map[string]interface{}{
				"name":         "empty",
				"nonterminals": []string{"S", "A"},
				"terminals":    []string{"a"},
				"rules":        "S -> A, A -> A",
			},
			expectStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "too many nullable symbols",
			body: map[string]interface{}{
				"name":         "wide",
				"nonterminals": []string{"S", "A"},
				"terminals":    []string{"a"},
				"rules":        "S -> a" + strings.Repeat(" A", normalize.MaxNullablePositions+1) + ", A -> a | ε",
			},
			expectStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing name",
			body: map[string]interface{}{
				"nonterminals": []string{"S"},
				"terminals":    []string{"a"},
				"rules":        "S -> a",
			},
			expectStatus: http.StatusBadRequest,
		},
		{
			name: "not logged in",
			body: map[string]interface{}{
				"name":         "units",
				"nonterminals": []string{"A", "B"},
				"terminals":    []string{"a"},
				"rules":        "A -> B | a, B -> A",
			},
			noAuth:       true,
			expectStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ts := newTestServer(t)

			tok := login(t, ts, "admin", "hunter2").Token
			if tc.noAuth {
				tok = ""
			}

			var created grammarResp
			var out interface{}
			if tc.expectStatus == http.StatusCreated {
				out = &created
			}

			status := do(t, ts, http.MethodPost, "/grammars", tok, tc.body, out)

			assert.Equal(tc.expectStatus, status)
			if tc.expectCNF != nil {
				assert.Equal(tc.expectCNF, created.CNF)
				assert.Equal("S", created.Start)
				assert.NotEmpty(created.ID)
			}
		})
	}
}

func Test_Server_GrammarLifecycle(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)
	tok := login(t, ts, "admin", "hunter2").Token

	var created grammarResp
	status := do(t, ts, http.MethodPost, "/grammars", tok, map[string]interface{}{
		"name":         "right",
		"nonterminals": []string{"S"},
		"terminals":    []string{"a", "b"},
		"rules":        "S -> a S | b",
	}, &created)
	if !assert.Equal(http.StatusCreated, status) {
		return
	}

	var got grammarResp
	status = do(t, ts, http.MethodGet, "/grammars/"+created.ID, tok, nil, &got)
	assert.Equal(http.StatusOK, status)
	assert.Equal([]string{"S -> T1 S | b", "S0 -> T1 S | b", "T1 -> a"}, got.CNF)

	var all []grammarResp
	status = do(t, ts, http.MethodGet, "/grammars", tok, nil, &all)
	assert.Equal(http.StatusOK, status)
	assert.Len(all, 1)

	var acc struct {
		Accepted bool `json:"accepted"`
	}
	status = do(t, ts, http.MethodPost, "/grammars/"+created.ID+"/accepts", tok, map[string][]string{"symbols": {"a", "a", "b"}}, &acc)
	assert.Equal(http.StatusOK, status)
	assert.True(acc.Accepted)

	status = do(t, ts, http.MethodPost, "/grammars/"+created.ID+"/accepts", tok, map[string][]string{"symbols": {"a"}}, &acc)
	assert.Equal(http.StatusOK, status)
	assert.False(acc.Accepted)

	status = do(t, ts, http.MethodPost, "/grammars/"+created.ID+"/accepts", tok, map[string][]string{"symbols": {"c"}}, nil)
	assert.Equal(http.StatusBadRequest, status)

	status = do(t, ts, http.MethodDelete, "/grammars/"+created.ID, tok, nil, nil)
	assert.Equal(http.StatusNoContent, status)

	status = do(t, ts, http.MethodGet, "/grammars/"+created.ID, tok, nil, nil)
	assert.Equal(http.StatusNotFound, status)
}

func Test_Server_GrammarOwnership(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)
	adminTok := login(t, ts, "admin", "hunter2").Token

	status := do(t, ts, http.MethodPost, "/users", adminTok, map[string]string{"username": "noam", "password": "syntax"}, nil)
	if !assert.Equal(http.StatusCreated, status) {
		return
	}
	userTok := login(t, ts, "noam", "syntax").Token

	var adminGrammar grammarResp
	status = do(t, ts, http.MethodPost, "/grammars", adminTok, map[string]interface{}{
		"name":         "admins",
		"nonterminals": []string{"S"},
		"terminals":    []string{"a"},
		"rules":        "S -> a",
	}, &adminGrammar)
	if !assert.Equal(http.StatusCreated, status) {
		return
	}

	status = do(t, ts, http.MethodGet, "/grammars/"+adminGrammar.ID, userTok, nil, nil)
	assert.Equal(http.StatusForbidden, status)

	status = do(t, ts, http.MethodDelete, "/grammars/"+adminGrammar.ID, userTok, nil, nil)
	assert.Equal(http.StatusForbidden, status)

	var mine []grammarResp
	status = do(t, ts, http.MethodGet, "/grammars", userTok, nil, &mine)
	assert.Equal(http.StatusOK, status)
	assert.Empty(mine)

	status = do(t, ts, http.MethodGet, "/users", userTok, nil, nil)
	assert.Equal(http.StatusForbidden, status)
}

func Test_Server_LogoutInvalidatesToken(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)
	lr := login(t, ts, "admin", "hunter2")

	status := do(t, ts, http.MethodGet, "/users/"+lr.UserID, lr.Token, nil, nil)
	assert.Equal(http.StatusOK, status)

	status = do(t, ts, http.MethodDelete, "/login/"+lr.UserID, lr.Token, nil, nil)
	assert.Equal(http.StatusNoContent, status)

	status = do(t, ts, http.MethodGet, "/users/"+lr.UserID, lr.Token, nil, nil)
	assert.Equal(http.StatusUnauthorized, status)
}

func Test_Server_LogoutOtherUser(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)
	admin := login(t, ts, "admin", "hunter2")

	status := do(t, ts, http.MethodPost, "/users", admin.Token, map[string]string{"username": "noam", "password": "syntax"}, nil)
	if !assert.Equal(http.StatusCreated, status) {
		return
	}
	user := login(t, ts, "noam", "syntax")

	status = do(t, ts, http.MethodDelete, "/login/"+admin.UserID, user.Token, nil, nil)
	assert.Equal(http.StatusForbidden, status)

	status = do(t, ts, http.MethodDelete, "/login/"+user.UserID, admin.Token, nil, nil)
	assert.Equal(http.StatusNoContent, status)

	status = do(t, ts, http.MethodGet, "/grammars", user.Token, nil, nil)
	assert.Equal(http.StatusUnauthorized, status)

	status = do(t, ts, http.MethodGet, "/grammars", admin.Token, nil, nil)
	assert.Equal(http.StatusOK, status)
}

func Test_Server_CreateToken(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)
	lr := login(t, ts, "admin", "hunter2")

	var refreshed loginResp
	status := do(t, ts, http.MethodPost, "/tokens", lr.Token, nil, &refreshed)
	if !assert.Equal(http.StatusCreated, status) {
		return
	}
	assert.Equal(lr.UserID, refreshed.UserID)
	assert.NotEmpty(refreshed.Token)

	status = do(t, ts, http.MethodGet, "/users/"+lr.UserID, refreshed.Token, nil, nil)
	assert.Equal(http.StatusOK, status)

	status = do(t, ts, http.MethodPost, "/tokens", "", nil, nil)
	assert.Equal(http.StatusUnauthorized, status)
}

func Test_Server_Info(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	var info struct {
		Version struct {
			Server  string `json:"server"`
			Chomsky string `json:"chomsky"`
		} `json:"version"`
		Limits struct {
			MaxNullableSymbols int `json:"max_nullable_symbols"`
		} `json:"limits"`
	}
	status := do(t, ts, http.MethodGet, "/info", "", nil, &info)
	assert.Equal(http.StatusOK, status)
	assert.NotEmpty(info.Version.Server)
	assert.NotEmpty(info.Version.Chomsky)
	assert.Equal(normalize.MaxNullablePositions, info.Limits.MaxNullableSymbols)

	status = do(t, ts, http.MethodGet, "/nowhere", "", nil, nil)
	assert.Equal(http.StatusNotFound, status)
}

func Test_Server_Login(t *testing.T) {
	testCases := []struct {
		name         string
		body         map[string]string
		expectStatus int
	}{
		{
			name:         "valid",
			body:         map[string]string{"username": "admin", "password": "hunter2"},
			expectStatus: http.StatusCreated,
		},
		{
			name:         "wrong password",
			body:         map[string]string{"username": "admin", "password": "wrong"},
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "unknown user",
			body:         map[string]string{"username": "chomsky", "password": "hunter2"},
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "missing username",
			body:         map[string]string{"password": "hunter2"},
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "missing password",
			body:         map[string]string{"username": "admin"},
			expectStatus: http.StatusBadRequest,
		},
	}

	ts := newTestServer(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			status := do(t, ts, http.MethodPost, "/login", "", tc.body, nil)

			assert.Equal(tc.expectStatus, status)
		})
	}
}
