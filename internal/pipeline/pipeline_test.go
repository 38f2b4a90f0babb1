package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/bankdesk/internal/api"
	"github.com/jask/bankdesk/internal/view"
)

type call struct {
	method   string
	endpoint string
	fields   map[string]string
}

// fakeRequester answers every call with the configured reply.
type fakeRequester struct {
	calls  []call
	result api.Result
	text   string
	err    error
}

func (f *fakeRequester) PostForm(_ context.Context, endpoint string, fields map[string]string) (api.Result, error) {
	f.calls = append(f.calls, call{"POST", endpoint, fields})
	return f.result, f.err
}

func (f *fakeRequester) GetText(_ context.Context, endpoint string) (string, error) {
	f.calls = append(f.calls, call{"GET", endpoint, nil})
	return f.text, f.err
}

func (f *fakeRequester) GetJSON(_ context.Context, endpoint string) (api.Result, error) {
	f.calls = append(f.calls, call{"GET", endpoint, nil})
	return f.result, f.err
}

func mustOp(t *testing.T, w view.Widget) Operation {
	t.Helper()
	op, ok := OperationFor(w)
	require.True(t, ok, "no operation for %s", w)
	return op
}

func TestSubmitPlainMessage(t *testing.T) {
	fr := &fakeRequester{result: api.Result{Status: 200, Message: "created"}}
	p := New(fr, "$", nil)

	out := p.Submit(context.Background(), mustOp(t, view.CreateAccount), map[string]string{"name": "Alice", "phone": "555-0100"})
	require.Equal(t, Outcome{Text: "created", Success: true}, out)
	require.Len(t, fr.calls, 1)
	require.Equal(t, call{"POST", api.EndpointCreateAccount, map[string]string{"name": "Alice", "phone": "555-0100"}}, fr.calls[0])
}

func TestSubmitDetailRendersAccount(t *testing.T) {
	fr := &fakeRequester{result: api.Result{Status: 200, Account: &api.Account{ID: "123", Name: "Bob", Phone: "555", Balance: 42.5}}}
	p := New(fr, "$", nil)

	out := p.Submit(context.Background(), mustOp(t, view.ViewAccount), map[string]string{"id": "123"})
	require.True(t, out.Success)
	require.Equal(t, "--- Account Details ---\nID:      123\nName:    Bob\nPhone:   555\nBalance: $42.50", out.Text)
}

func TestSubmitDetailWithoutAccountFallsBackToMessage(t *testing.T) {
	fr := &fakeRequester{result: api.Result{Status: 200, Message: "ok"}}
	out := New(fr, "$", nil).Submit(context.Background(), mustOp(t, view.ViewAccount), nil)
	require.Equal(t, "ok", out.Text)
}

func TestSubmitNonDetailIgnoresAccount(t *testing.T) {
	fr := &fakeRequester{result: api.Result{Status: 201, Message: "done", Account: &api.Account{ID: "1"}}}
	out := New(fr, "$", nil).Submit(context.Background(), mustOp(t, view.Deposit), nil)
	require.Equal(t, Outcome{Text: "done", Success: true}, out)
}

func TestSubmitServerFailureKeepsForm(t *testing.T) {
	for _, op := range Operations() {
		fr := &fakeRequester{result: api.Result{Status: 400, Message: "insufficient funds"}}
		out := New(fr, "$", nil).Submit(context.Background(), op, map[string]string{"id": "1"})
		require.Equal(t, Outcome{Text: "Error: insufficient funds"}, out, op.Widget)
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	fr := &fakeRequester{err: &api.TransportError{Endpoint: api.EndpointDeposit, Err: errors.New("connection refused")}}
	out := New(fr, "$", nil).Submit(context.Background(), mustOp(t, view.Deposit), nil)
	require.Equal(t, Outcome{Text: "Request failed: connection refused"}, out)
}

func TestFetchRawAndJSON(t *testing.T) {
	fr := &fakeRequester{text: "No accounts found!\n"}
	p := New(fr, "$", nil)
	accounts, ok := ReadFor(view.NavDisplayAccounts)
	require.True(t, ok)
	require.Equal(t, "No accounts found!\n", p.Fetch(context.Background(), accounts))

	fr.result = api.Result{Status: 500, Message: "DANGER: broken"}
	validate, ok := ReadFor(view.NavValidateChain)
	require.True(t, ok)
	require.Equal(t, "DANGER: broken", p.Fetch(context.Background(), validate))
	require.Equal(t, api.EndpointValidateChain, fr.calls[1].endpoint)
}

func TestFetchFailureTexts(t *testing.T) {
	want := map[view.Nav]string{
		view.NavDisplayAccounts:   "Error fetching accounts.",
		view.NavDisplayBlockchain: "Error fetching blockchain.",
		view.NavValidateChain:     "Error validating chain.",
	}
	for _, r := range Reads() {
		fr := &fakeRequester{err: errors.New("boom")}
		require.Equal(t, want[r.Nav], New(fr, "$", nil).Fetch(context.Background(), r))
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()

	fr := &fakeRequester{result: api.Result{Status: 200, Message: "Registration successful!"}}
	require.Equal(t, AuthOutcome{Text: "Registration successful!", Success: true}, New(fr, "$", nil).Register(ctx, nil))
	require.Equal(t, api.EndpointRegister, fr.calls[0].endpoint)

	fr = &fakeRequester{result: api.Result{Status: 400, Message: "Registration failed. User limit reached?"}}
	require.Equal(t, AuthOutcome{Text: "Registration failed. User limit reached?", IsError: true}, New(fr, "$", nil).Register(ctx, nil))

	fr = &fakeRequester{err: errors.New("dial")}
	require.Equal(t, AuthOutcome{Text: RegisterFailedText, IsError: true}, New(fr, "$", nil).Register(ctx, nil))

	fr = &fakeRequester{result: api.Result{Status: 200, Message: "Login successful!"}}
	require.Equal(t, AuthOutcome{Text: WelcomeText, Success: true}, New(fr, "$", nil).Login(ctx, nil))
	require.Equal(t, api.EndpointLogin, fr.calls[0].endpoint)

	fr = &fakeRequester{result: api.Result{Status: 401, Message: "Login failed. Check credentials."}}
	require.Equal(t, AuthOutcome{Text: "Login failed. Check credentials.", IsError: true}, New(fr, "$", nil).Login(ctx, nil))

	fr = &fakeRequester{err: errors.New("dial")}
	require.Equal(t, AuthOutcome{Text: LoginFailedText, IsError: true}, New(fr, "$", nil).Login(ctx, nil))
}

func TestFormatAccountCurrency(t *testing.T) {
	got := FormatAccount(api.Account{ID: "7", Name: "Ann", Phone: "1", Balance: 1234.567}, "€")
	require.Contains(t, got, "Balance: €1234.57")
}

func TestFormatMoneyRoundsTiesUp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{0.125, "0.13"},
		{42.125, "42.13"},
		{0.375, "0.38"},
		{1.005, "1.00"},
		{2.675, "2.67"},
		{42.5, "42.50"},
		{1234.567, "1234.57"},
		{-0.125, "-0.13"},
		{-0.001, "-0.00"},
		{1e15 + 0.5, "1000000000000000.50"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, formatMoney(tc.in), "%v", tc.in)
		got := FormatAccount(api.Account{Balance: tc.in}, "$")
		require.True(t, strings.HasSuffix(got, "\nBalance: $"+tc.want), got)
	}
}

func TestSubmitAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("amount") == "1000" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success": false, "message": "insufficient funds"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "message": "Withdrawal successful!"}`))
	}))
	defer srv.Close()
	client, err := api.New(srv.URL)
	require.NoError(t, err)
	p := New(client, "$", nil)
	op := mustOp(t, view.Withdraw)

	require.Equal(t, Outcome{Text: "Error: insufficient funds"}, p.Submit(context.Background(), op, map[string]string{"id": "1", "amount": "1000"}))
	require.Equal(t, Outcome{Text: "Withdrawal successful!", Success: true}, p.Submit(context.Background(), op, map[string]string{"id": "1", "amount": "5"}))
}

func TestOperationsTable(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 7)
	detail := 0
	for _, op := range ops {
		require.NotEmpty(t, op.Fields, op.Widget)
		if op.Detail {
			detail++
			require.Equal(t, view.ViewAccount, op.Widget)
		}
	}
	require.Equal(t, 1, detail)
	_, ok := OperationFor(view.SystemLog)
	require.False(t, ok)
}
