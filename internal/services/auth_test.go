package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/testutil"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	return NewAuthService(tx, log, repos.NewUserRepo(tx, log), "test-secret", time.Hour)
}

func TestRegisterUserValidatesAndAutoLogsIn(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterUser(ctx, RegisterInput{Email: "x@example.com", Password: "pw"})
	assertAPIErr(t, err, apierr.CodeValidation)

	email := uuid.NewString() + "@example.com"
	user, token, err := svc.RegisterUser(ctx, RegisterInput{
		Email:     "  " + email + "  ",
		Password:  "hunter22",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatalf("registration must return a usable token")
	}
	if user.Email != email {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "hunter22" {
		t.Fatalf("password stored in the clear")
	}
	if user.IsActive {
		t.Fatalf("new accounts must start in the approval queue")
	}

	rd, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse registration token: %v", err)
	}
	if rd.UserID != user.ID || rd.Email != email || rd.IsAdmin {
		t.Fatalf("unexpected claims: %+v", rd)
	}
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	in := RegisterInput{Email: email, Password: "pw12345", FirstName: "A", LastName: "B"}
	if _, _, err := svc.RegisterUser(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := svc.RegisterUser(ctx, in)
	assertAPIErr(t, err, apierr.CodeConflict)

	// Case-insensitive duplicate.
	in.Email = "  " + uuid.NewString() + "@EXAMPLE.com"
	if _, _, err := svc.RegisterUser(ctx, in); err != nil {
		t.Fatalf("mixed-case register: %v", err)
	}
	_, _, err = svc.RegisterUser(ctx, in)
	assertAPIErr(t, err, apierr.CodeConflict)
}

func TestLoginUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	if _, _, err := svc.RegisterUser(ctx, RegisterInput{Email: email, Password: "correct-pw", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.LoginUser(ctx, email, "correct-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || user.Email != email {
		t.Fatalf("unexpected login result")
	}

	_, _, err = svc.LoginUser(ctx, email, "wrong-pw")
	assertAPIErr(t, err, apierr.CodeUnauthorized)

	// Unknown account reads the same as a bad password.
	_, _, err = svc.LoginUser(ctx, uuid.NewString()+"@example.com", "whatever")
	assertAPIErr(t, err, apierr.CodeUnauthorized)

	_, _, err = svc.LoginUser(ctx, "", "")
	assertAPIErr(t, err, apierr.CodeValidation)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	_, token, err := svc.RegisterUser(ctx, RegisterInput{Email: email, Password: "pw12345", FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.ParseToken(token + "x"); err == nil {
		t.Fatalf("tampered token accepted")
	}
	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatalf("garbage token accepted")
	}

	// A token signed under a different secret must not verify.
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	other := NewAuthService(tx, log, repos.NewUserRepo(tx, log), "other-secret", time.Hour)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatalf("token verified under wrong secret")
	}
}
