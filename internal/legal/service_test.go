package legal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

type memoryDocs struct {
	docs map[string]Document
}

func (r *memoryDocs) List(ctx context.Context, tenantID string) ([]Document, error) {
	var out []Document
	for _, d := range r.docs {
		if d.TenantID == tenantID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryDocs) ListAllTenants(ctx context.Context) ([]Document, error) {
	var out []Document
	for _, d := range r.docs {
		if d.Status != DocExpired {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryDocs) Get(ctx context.Context, tenantID, id string) (Document, error) {
	d, ok := r.docs[id]
	if !ok || d.TenantID != tenantID {
		return Document{}, httpx.ErrNotFound
	}
	return d, nil
}

func (r *memoryDocs) Insert(ctx context.Context, d Document) error {
	r.docs[d.ID] = d
	return nil
}

func (r *memoryDocs) Update(ctx context.Context, d Document) error {
	if _, ok := r.docs[d.ID]; !ok {
		return httpx.ErrNotFound
	}
	r.docs[d.ID] = d
	return nil
}

func (r *memoryDocs) Delete(ctx context.Context, tenantID, id string) error {
	if _, ok := r.docs[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func legalActor() shared.Actor {
	return shared.Actor{UserID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"LEGAL"}}
}

func TestFlagExpiredFlipsPastDueDocs(t *testing.T) {
	repo := &memoryDocs{docs: map[string]Document{
		"DOC-1": {ID: "DOC-1", TenantID: "tenant-1", Title: "Trade licence", ExpiryDate: "2025-02-28", Status: DocActive},
		"DOC-2": {ID: "DOC-2", TenantID: "tenant-1", Title: "Lease", ExpiryDate: "2025-12-31", Status: DocActive},
		"DOC-3": {ID: "DOC-3", TenantID: "tenant-2", Title: "Permit", ExpiryDate: "2025-01-01", Status: DocActive},
		"DOC-4": {ID: "DOC-4", TenantID: "tenant-1", Title: "No expiry", Status: DocActive},
	}}
	svc := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) }

	flipped, err := svc.FlagExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, flipped)
	require.Equal(t, DocExpired, repo.docs["DOC-1"].Status)
	require.Equal(t, DocActive, repo.docs["DOC-2"].Status)
	require.Equal(t, DocExpired, repo.docs["DOC-3"].Status)
	require.Equal(t, DocActive, repo.docs["DOC-4"].Status)
}

func TestCreateDefaultsToActive(t *testing.T) {
	repo := &memoryDocs{docs: make(map[string]Document)}
	svc := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	d, err := svc.Create(context.Background(), legalActor(), DocumentInput{Title: "NDA", Type: "Contract"})
	require.NoError(t, err)
	require.Equal(t, DocActive, d.Status)
}
