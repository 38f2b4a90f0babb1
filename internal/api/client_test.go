package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *logtest.Hook) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log, hook := logtest.NewNullLogger()
	c, err := New(srv.URL, WithLogger(log.WithField("component", "api")))
	require.NoError(t, err)
	return c, hook
}

func TestPostFormEncodesFields(t *testing.T) {
	var gotCT, gotID string
	var gotForm map[string]string
	c, hook := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, EndpointCreateAccount, r.URL.Path)
		gotCT = r.Header.Get("Content-Type")
		gotID = r.Header.Get(RequestIDHeader)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "created"}`))
	}))

	res, err := c.PostForm(context.Background(), EndpointCreateAccount, map[string]string{"name": "Alice", "phone": "555-0100"})
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, "created", res.Message)
	require.Nil(t, res.Account)
	require.Equal(t, "application/x-www-form-urlencoded", gotCT)
	require.NotEmpty(t, gotID)
	require.Equal(t, map[string]string{"name": "Alice", "phone": "555-0100"}, gotForm)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, 200, entry.Data["status"])
	require.Equal(t, gotID, entry.Data["request_id"])
	require.Equal(t, EndpointCreateAccount, entry.Data["endpoint"])
}

func TestPostFormNonOKIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "message": "insufficient funds"}`))
	}))
	res, err := c.PostForm(context.Background(), EndpointWithdraw, map[string]string{"id": "1", "amount": "9"})
	require.NoError(t, err)
	require.False(t, res.OK())
	require.Equal(t, http.StatusBadRequest, res.Status)
	require.Equal(t, "insufficient funds", res.Message)
}

func TestPostFormDecodesAccount(t *testing.T) {
	cases := map[string]string{
		"string id": `{"account":{"id":"123","name":"Bob","phone":"555","balance":42.5}}`,
		"number id": `{"success": true, "account": { "id": 123, "name": "Bob", "phone": "555", "balance": 42.500000} }`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			res, err := c.PostForm(context.Background(), EndpointViewAccount, map[string]string{"id": "123"})
			require.NoError(t, err)
			require.NotNil(t, res.Account)
			require.Equal(t, Account{ID: "123", Name: "Bob", Phone: "555", Balance: 42.5}, *res.Account)
		})
	}
}

func TestMalformedBodyIsTransportError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	_, err := c.PostForm(context.Background(), EndpointDeposit, nil)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, EndpointDeposit, te.Endpoint)
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.GetText(context.Background(), EndpointAccounts)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.NotEmpty(t, te.Error())
}

func TestGetTextReturnsRawBodyWhateverTheStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("\n--- Accounts (1) ---\nID: 1\n"))
	}))
	text, err := c.GetText(context.Background(), EndpointAccounts)
	require.NoError(t, err)
	require.Equal(t, "\n--- Accounts (1) ---\nID: 1\n", text)
}

func TestGetJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "message": "DANGER"}`))
	}))
	res, err := c.GetJSON(context.Background(), EndpointValidateChain)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, res.Status)
	require.Equal(t, "DANGER", res.Message)
}

func TestCookiesCarryAcrossRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(EndpointLogin, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	var seen string
	mux.HandleFunc(EndpointAccounts, func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("sid"); err == nil {
			seen = ck.Value
		}
		_, _ = w.Write([]byte("No accounts found!\n"))
	})
	c, _ := newTestClient(t, mux)

	_, err := c.PostForm(context.Background(), EndpointLogin, map[string]string{"id": "123456"})
	require.NoError(t, err)
	_, err = c.GetText(context.Background(), EndpointAccounts)
	require.NoError(t, err)
	require.Equal(t, "abc", seen)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("localhost:8080")
	require.Error(t, err)
	c, err := New("http://localhost:8080/")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestFlexStringNull(t *testing.T) {
	var f FlexString = "x"
	require.NoError(t, f.UnmarshalJSON([]byte("null")))
	require.Equal(t, FlexString(""), f)
	require.Error(t, f.UnmarshalJSON([]byte("true")))
}
