package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

type stubGenerator struct {
	text string
	err  error

	gotSystem  string
	gotMessage string
}

func (g *stubGenerator) Generate(ctx context.Context, system, userMessage string) (string, error) {
	g.gotSystem = system
	g.gotMessage = userMessage
	return g.text, g.err
}

func assistantActor() shared.Actor {
	return shared.Actor{
		UserID:      "USR-1",
		TenantID:    "tenant-1",
		Role:        shared.RoleUser,
		Permissions: []string{string(tenants.ModuleSupportAI)},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAskPassesMessageThrough(t *testing.T) {
	gen := &stubGenerator{text: "Open Inventory from the sidebar."}
	svc := NewService(gen, quietLogger())

	reply, err := svc.Ask(context.Background(), assistantActor(), "Where do I add stock?")
	require.NoError(t, err)
	require.False(t, reply.Fallback)
	require.Equal(t, "Open Inventory from the sidebar.", reply.Text)
	require.Equal(t, "Where do I add stock?", gen.gotMessage)
	require.NotEmpty(t, gen.gotSystem)
}

func TestAskFallsBackWhenUpstreamFails(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	svc := NewService(gen, quietLogger())

	reply, err := svc.Ask(context.Background(), assistantActor(), "hello")
	require.NoError(t, err)
	require.True(t, reply.Fallback)
	require.Equal(t, FallbackReply, reply.Text)
}

func TestAskRequiresSupportAIModule(t *testing.T) {
	gen := &stubGenerator{text: "hi"}
	svc := NewService(gen, quietLogger())

	actor := assistantActor()
	actor.Permissions = []string{string(tenants.ModuleSales)}
	_, err := svc.Ask(context.Background(), actor, "hello")
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
