package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		Chomsky string `json:"chomsky"`
	} `json:"version"`
	Limits struct {
		MaxNullableSymbols int `json:"max_nullable_symbols"`
	} `json:"limits"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

// GrammarRequest is a grammar submitted for normalization. Rules is in the
// rule text format, such as "S -> a S b | ε, A -> a".
type GrammarRequest struct {
	Name         string   `json:"name"`
	NonTerminals []string `json:"nonterminals"`
	Terminals    []string `json:"terminals"`
	Start        string   `json:"start,omitempty"`
	Rules        string   `json:"rules"`
}

// GrammarModel is a stored grammar. CNF is the canonical text of its normal
// form, one rule per element.
type GrammarModel struct {
	URI          string   `json:"uri"`
	ID           string   `json:"id"`
	Owner        string   `json:"owner"`
	Name         string   `json:"name"`
	NonTerminals []string `json:"nonterminals"`
	Terminals    []string `json:"terminals"`
	Start        string   `json:"start"`
	Rules        string   `json:"rules"`
	CNF          []string `json:"cnf"`
	Created      string   `json:"created"`
}

// AcceptsRequest holds a string of terminal symbols to test for membership.
// An empty list tests the empty string.
type AcceptsRequest struct {
	Symbols []string `json:"symbols"`
}

type AcceptsResponse struct {
	Symbols  []string `json:"symbols"`
	Accepted bool     `json:"accepted"`
}
