package audit

import (
	"context"
	"errors"
	"testing"

	common_models "go-analytics/internal/common/models"
	"go-analytics/pkg/utils"
)

type mockAuditRepo struct {
	created    []common_models.AuditLog
	listLimit  int64
	listOffset int64
	listErr    error
}

func (m *mockAuditRepo) Create(ctx context.Context, log common_models.AuditLog) error {
	m.created = append(m.created, log)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]common_models.AuditLog, error) {
	m.listLimit, m.listOffset = limit, offset
	return nil, m.listErr
}

func (m *mockAuditRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func TestLogChangeRecordsActor(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		actor string
	}{
		{name: "authenticated", ctx: utils.WithClaims(context.Background(), &utils.UserClaims{UserID: "u1"}), actor: "u1"},
		{name: "system", ctx: context.Background(), actor: "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAuditRepo{}
			svc := NewAuditService(repo)

			err := svc.LogChange(tt.ctx, common_models.AuditActionDashboard, "dashboards", "Overview", map[string]common_models.Change{
				"name": {Old: nil, New: "Overview"},
			})
			if err != nil {
				t.Fatalf("LogChange() error = %v", err)
			}
			if len(repo.created) != 1 || repo.created[0].ActorID != tt.actor || repo.created[0].RecordID != "Overview" {
				t.Errorf("unexpected log: %+v", repo.created)
			}
		})
	}
}

func TestListLogsPaging(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo)

	logs, err := svc.ListLogs(context.Background(), nil, 3, 20)
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if logs == nil {
		t.Error("expected an empty, non-nil list")
	}
	if repo.listLimit != 20 || repo.listOffset != 40 {
		t.Errorf("limit/offset = %d/%d, want 20/40", repo.listLimit, repo.listOffset)
	}

	_, _ = svc.ListLogs(context.Background(), nil, 0, 0)
	if repo.listLimit != 10 || repo.listOffset != 0 {
		t.Errorf("defaults limit/offset = %d/%d, want 10/0", repo.listLimit, repo.listOffset)
	}

	repo.listErr = errors.New("down")
	if _, err := svc.ListLogs(context.Background(), nil, 1, 10); err == nil {
		t.Error("expected repository error")
	}
}

func TestBuildFilterDropsEmptyValues(t *testing.T) {
	got := buildFilter(map[string]interface{}{"module": "dashboards", "record_id": "", "action": nil})
	if len(got) != 1 || got["module"] != "dashboards" {
		t.Errorf("buildFilter() = %v", got)
	}
}
