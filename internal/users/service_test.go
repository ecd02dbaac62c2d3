package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db/models"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(openTestDB(t)), fakeHasher{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateUser(t *testing.T, svc Service, email, username string, role enums.Role) *UserDTO {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    email,
		Username: username,
		Password: "supersecret",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func TestCreateUserValidationAndDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing email", CreateUserInput{Username: "maria", Password: "supersecret"}},
		{"missing username", CreateUserInput{Email: "maria@tienda.mx", Password: "supersecret"}},
		{"short password", CreateUserInput{Email: "maria@tienda.mx", Username: "maria", Password: "corto"}},
		{"bad role", CreateUserInput{Email: "maria@tienda.mx", Username: "maria", Password: "supersecret", Role: "owner"}},
	}
	for _, tc := range cases {
		_, err := svc.CreateUser(ctx, tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "  Maria@Tienda.MX ",
		Username: "maria",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "maria@tienda.mx" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != enums.RoleWorker {
		t.Fatalf("expected default worker role, got %q", user.Role)
	}
	if !user.IsActive {
		t.Fatal("expected new user active")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	mustCreateUser(t, svc, "maria@tienda.mx", "maria", enums.RoleWorker)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "maria@tienda.mx",
		Username: "otra",
		Password: "supersecret",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestChangeRoleGuardsSelfDemotion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	admin := mustCreateUser(t, svc, "admin@tienda.mx", "admin", enums.RoleAdmin)
	worker := mustCreateUser(t, svc, "jose@tienda.mx", "jose", enums.RoleWorker)

	_, err := svc.ChangeRole(ctx, admin.ID, admin.ID, enums.RoleWorker)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected self-demotion to be rejected, got %v", err)
	}

	promoted, err := svc.ChangeRole(ctx, admin.ID, worker.ID, enums.RoleAdmin)
	if err != nil {
		t.Fatalf("promote worker: %v", err)
	}
	if promoted.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %q", promoted.Role)
	}

	// Another admin can demote the first one.
	demoted, err := svc.ChangeRole(ctx, promoted.ID, admin.ID, enums.RoleWorker)
	if err != nil {
		t.Fatalf("demote admin: %v", err)
	}
	if demoted.Role != enums.RoleWorker {
		t.Fatalf("expected worker role, got %q", demoted.Role)
	}

	_, err = svc.ChangeRole(ctx, admin.ID, uuid.New(), enums.RoleWorker)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetActiveGuardsSelfDeactivation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	admin := mustCreateUser(t, svc, "admin@tienda.mx", "admin", enums.RoleAdmin)
	worker := mustCreateUser(t, svc, "jose@tienda.mx", "jose", enums.RoleWorker)

	_, err := svc.SetActive(ctx, admin.ID, admin.ID, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected self-deactivation to be rejected, got %v", err)
	}

	disabled, err := svc.SetActive(ctx, admin.ID, worker.ID, false)
	if err != nil {
		t.Fatalf("deactivate worker: %v", err)
	}
	if disabled.IsActive {
		t.Fatal("expected worker deactivated")
	}

	enabled, err := svc.SetActive(ctx, admin.ID, worker.ID, true)
	if err != nil {
		t.Fatalf("reactivate worker: %v", err)
	}
	if !enabled.IsActive {
		t.Fatal("expected worker reactivated")
	}
}

func TestListUsersOrderedByUsername(t *testing.T) {
	svc := newTestService(t)

	mustCreateUser(t, svc, "zoe@tienda.mx", "zoe", enums.RoleWorker)
	mustCreateUser(t, svc, "ana@tienda.mx", "ana", enums.RoleAdmin)

	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}
	if list[0].Username != "ana" || list[1].Username != "zoe" {
		t.Fatalf("expected username ordering, got %q then %q", list[0].Username, list[1].Username)
	}
}
