package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapi/notesapi/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SECRET_TOKEN", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	for _, sub := range []string{"up", "down", "status"} {
		_, err := execute(t, "migrate", sub)
		assert.ErrorIs(t, err, errDatabaseURLRequired, sub)
	}
}

func TestMigrateRejectsArgs(t *testing.T) {
	_, err := execute(t, "migrate", "up", "extra", "--database-url", "postgres://localhost/notes")
	assert.Error(t, err)
}

func TestTokenValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no username", []string{"token", "--secret", "s3cret"}, "accepts 1 arg"},
		{"no secret", []string{"token", "alice"}, "SECRET_TOKEN"},
		{"secret with space", []string{"token", "alice", "--secret", "a b"}, "whitespace"},
		{"bad format", []string{"token", "alice", "--secret", "s3cret", "--format", "xml"}, "unknown format"},
		{"no database", []string{"token", "alice", "--secret", "s3cret"}, "DATABASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/notes")
	cmd := newRootCmd()

	flag := cmd.PersistentFlags().Lookup("database-url")
	require.NotNil(t, flag)
	assert.Equal(t, "postgres://env/notes", flag.DefValue)

	timeout, err := cmd.PersistentFlags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestWriteToken(t *testing.T) {
	user := &model.User{ID: 7, Username: "alice"}

	var plain bytes.Buffer
	require.NoError(t, writeToken(&plain, "plain", user, "s3cret id=7"))
	assert.Equal(t, "s3cret id=7\n", plain.String())

	var js bytes.Buffer
	require.NoError(t, writeToken(&js, "json", user, "s3cret id=7"))
	var got tokenOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Equal(t, tokenOutput{UserID: 7, Username: "alice", Token: "s3cret id=7"}, got)
}
