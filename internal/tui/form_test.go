package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/bankdesk/internal/pipeline"
)

func TestFormFocusWrapsAndValues(t *testing.T) {
	f := NewForm("Transfer", []pipeline.Field{
		{Name: "fromID", Label: "From"},
		{Name: "toID", Label: "To"},
		{Name: "amount", Label: "Amount"},
	})
	f.Focus()
	f.Update(keyMsg("1"))
	f.Move(1)
	f.Update(keyMsg("2"))
	f.Move(1)
	require.True(t, f.OnLastField())
	f.Update(keyMsg("9.50"))
	f.Move(1)
	require.False(t, f.OnLastField())

	require.Equal(t, map[string]string{"fromID": "1", "toID": "2", "amount": "9.50"}, f.Values())

	f.Clear()
	require.Equal(t, map[string]string{"fromID": "", "toID": "", "amount": ""}, f.Values())
	require.True(t, f.Focused())
}

func TestFormSecretFieldIsMasked(t *testing.T) {
	f := NewForm("Login", pipeline.AuthFields)
	f.SetValue("password", "hunter22")
	require.Equal(t, "hunter22", f.Values()["password"])
	require.NotContains(t, f.View(60), "hunter22")
}

func TestFormErrorsRender(t *testing.T) {
	f := NewForm("Register", pipeline.AuthFields)
	f.SetErrors(map[string]string{"id": "bad id"})
	require.Equal(t, "bad id", f.Error("id"))
	require.Contains(t, f.View(60), "bad id")
	f.ClearErrors()
	require.Empty(t, f.Error("id"))
}
