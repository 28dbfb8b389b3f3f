package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jathin-vignesh/goal-tracker/internal/domain"
)

func newTestService() *Service {
	return NewService(Config{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc := newTestService()

	issued, err := svc.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	userID, err := svc.Verify(issued, KindAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != 42 {
		t.Fatalf("Verify() user ID = %d, want 42", userID)
	}
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.IssueRefresh(42)
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	if _, err := svc.Verify(refresh, KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Verify(refresh as access) error = %v, want ErrUnauthorized", err)
	}

	access, err := svc.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := svc.Verify(access, KindRefresh); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Verify(access as refresh) error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewService(Config{
		Secret:     "test-secret",
		AccessTTL:  -time.Minute,
		RefreshTTL: -time.Minute,
	})

	issued, err := svc.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := svc.Verify(issued, KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Verify(expired) error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsTamperedAndMalformed(t *testing.T) {
	svc := newTestService()

	issued, err := svc.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	parts := strings.Split(issued, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := svc.Verify(tampered, KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Verify(tampered) error = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.Verify("not-a-token", KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Verify(malformed) error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewService(Config{
		Secret:     "other-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})

	issued, err := other.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := svc.Verify(issued, KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Verify(wrong secret) error = %v, want ErrUnauthorized", err)
	}
}
