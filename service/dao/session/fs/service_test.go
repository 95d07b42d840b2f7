package fs

import (
	"context"
	"testing"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/service/dao"
	"github.com/stretchr/testify/assert"
)

func TestService_RoundTrip(t *testing.T) {
	svc, err := New(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	aSession, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	aSession.Append(model.NewTurn(model.RoleUser, "question"))
	aSession.Append(model.NewTurn(model.RoleAssistant, "answer"))
	aSession.AppendAgent("calc_agent", model.NewTurn(model.RoleUser, "2+2"))
	aSession.SetLastActiveAgent("calc_agent")
	assert.NoError(t, svc.Save(ctx, aSession))

	loaded, err := svc.Load(ctx, "s1")
	assert.NoError(t, err)
	history := loaded.MainHistory()
	if assert.Equal(t, 2, len(history)) {
		assert.Equal(t, "question", history[0].Text)
		assert.Equal(t, "answer", history[1].Text)
	}
	assert.Equal(t, 1, len(loaded.AgentHistory("calc_agent")))
	assert.Equal(t, "calc_agent", loaded.LastAgent())
}

func TestService_EnsureCreatesOnce(t *testing.T) {
	svc, err := New(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	first, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	first.Append(model.NewTurn(model.RoleUser, "hello"))
	assert.NoError(t, svc.Save(ctx, first))

	second, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(second.MainHistory()), "Ensure loads the persisted document")
}

func TestService_Errors(t *testing.T) {
	svc, err := New(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	_, err = svc.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)

	assert.ErrorIs(t, svc.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), dao.ErrNotFound)
	assert.NoError(t, svc.Evict(ctx, "missing"))

	_, err = New("")
	assert.Error(t, err)
}

func TestService_List(t *testing.T) {
	svc, err := New(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err = svc.Ensure(ctx, id)
		assert.NoError(t, err)
	}

	sessions, err := svc.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(sessions))
}
