package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "crowdgit/internal/platform/errors"
)

type reonboard struct {
	Remote string `json:"remote" validate:"required"`
}

type lookup struct {
	Email  string `query:"email" json:"email" validate:"required,email"`
	Remote string `query:"remote" json:"remote"`
	Fuzzy  bool   `query:"fuzzy"`
	Limit  int    `query:"limit" validate:"omitempty,min=1"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[reonboard](post(`{"remote":"https://github.com/a/b"}`))
	if err != nil || got.Remote != "https://github.com/a/b" {
		t.Fatalf("got %+v, %v", got, err)
	}

	cases := map[string]perr.ErrorCode{
		``:                          perr.ErrorCodeJSON,
		`{"remote":`:                perr.ErrorCodeJSON,
		`{"remote":"x","other":1}`:  perr.ErrorCodeJSON,
		`{"remote":"x"} {}`:         perr.ErrorCodeJSON,
		`{}`:                        perr.ErrorCodeValidation,
	}
	for body, code := range cases {
		if _, err := ParseJSON[reonboard](post(body)); !perr.IsCode(err, code) {
			t.Fatalf("body %q: got %v want %v", body, err, code)
		}
	}
}

func TestParseJSON_ValidationField(t *testing.T) {
	_, err := ParseJSON[reonboard](post(`{"remote":""}`))
	pe, ok := perr.As(err)
	if !ok || pe.Field() != "remote" {
		t.Fatalf("expected field remote, got %v", err)
	}
}

func TestQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?email=a@b.io&remote=r&fuzzy=true&limit=3", nil)
	got, err := Query[lookup](r)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.Email != "a@b.io" || got.Remote != "r" || !got.Fuzzy || got.Limit != 3 {
		t.Fatalf("got %+v", got)
	}

	bad := []string{"/?remote=r", "/?email=nope", "/?email=a@b.io&fuzzy=maybe", "/?email=a@b.io&limit=x"}
	for _, u := range bad {
		if _, err := Query[lookup](httptest.NewRequest(http.MethodGet, u, nil)); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", u, err)
		}
	}
}
