package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"letterbox/handlers"
	"letterbox/internal/database"
	"letterbox/internal/mailbox"
	"letterbox/services"
)

type testEnv struct {
	server    *httptest.Server
	statePath string
	reacts    atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{statePath: filepath.Join(t.TempDir(), "state.json")}

	svc := services.NewLetterService(database.NewMemoryStore())
	r := mux.NewRouter()
	countReacts := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			env.reacts.Add(1)
			next.ServeHTTP(w, r)
		})
	}
	handlers.NewLetterHandler(svc, zap.NewNop()).Register(r.PathPrefix("/api").Subrouter(), countReacts)

	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", e.server.URL, "--state", e.statePath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestMoods(t *testing.T) {
	out, err := newTestEnv(t).run(t, "moods")
	require.NoError(t, err)
	for _, m := range mailbox.Moods {
		assert.Contains(t, out, m)
	}
}

func TestWriteValidatesLocally(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "write", "--mood", "Ecstatic", "hello")
	assert.ErrorIs(t, err, mailbox.ErrUnknownMood)

	_, err = env.run(t, "write", "--mood", "Hopeful", "   ")
	assert.ErrorIs(t, err, mailbox.ErrEmptyContent)

	out, err := env.run(t, "inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "No letters yet")
}

func TestWriteInboxReadReact(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "write", "--mood", "Grateful", "thank", "you,", "stranger")
	require.NoError(t, err)
	assert.Contains(t, out, "on its way")

	out, err = env.run(t, "inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "Grateful")
	assert.Contains(t, out, "arrived")
	assert.Contains(t, out, "Just arrived")

	id := firstID(t, env)

	out, err = env.run(t, "read", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "thank you, stranger")

	out, err = env.run(t, "inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "opened")

	out, err = env.run(t, "react", id)
	require.NoError(t, err)
	assert.Contains(t, out, "🔥 1")
	assert.EqualValues(t, 1, env.reacts.Load())

	_, err = env.run(t, "react", id)
	assert.ErrorIs(t, err, mailbox.ErrAlreadyReacted)
	assert.EqualValues(t, 1, env.reacts.Load(), "second reaction must not reach the server")

	state, err := mailbox.LoadState(env.statePath)
	require.NoError(t, err)
	assert.True(t, state.HasReacted(id))
	assert.True(t, state.HasOpened(id))
}

func TestReactUnknownLetter(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "react", "does-not-exist")
	assert.Error(t, err)
	assert.Zero(t, env.reacts.Load())

	state, err := mailbox.LoadState(env.statePath)
	require.NoError(t, err)
	assert.False(t, state.HasReacted("does-not-exist"))
}

func firstID(t *testing.T, env *testEnv) string {
	t.Helper()

	opts := &options{server: env.server.URL, statePath: env.statePath}
	letters, err := opts.client().ArrivedLetters(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, letters)
	return letters[0].ID
}
