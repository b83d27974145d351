package auth_test

import (
	"context"
	"os"
	"testing"
	"time"

	sut "github.com/Builder-Lawyers/builder-admin/internal/application/commands/auth"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/auth"
	"github.com/Builder-Lawyers/builder-admin/internal/testinfra"
	"github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const secret = "auth-test-secret-0123456789"

var uowFactory *db.UOWFactory

func TestMain(m *testing.M) {
	uowFactory = db.NewUoWFactory(testinfra.SetupDB())
	os.Exit(m.Run())
}

func Test_CreateSession_Then_GetIdentity_Returns_User_And_Role(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	SUT := sut.NewAuth(uowFactory, auth.NewTokenSigner(secret), time.Hour)

	token, expiresAt, err := SUT.CreateSession(ctx, " Admin@Builder.test ", "Admin", consts.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := SUT.GetIdentity(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "admin@builder.test", identity.Email)
	require.True(t, identity.IsAdmin())
	require.NotEqual(t, uuid.Nil, identity.SessionID)
}

func Test_CreateSession_Given_Existing_User_When_Role_Changes_Then_Role_Is_Updated(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	SUT := sut.NewAuth(uowFactory, auth.NewTokenSigner(secret), time.Hour)

	_, _, err := SUT.CreateSession(ctx, "user@builder.test", "User", consts.RoleViewer)
	require.NoError(t, err)
	token, _, err := SUT.CreateSession(ctx, "user@builder.test", "User", consts.RoleStaff)
	require.NoError(t, err)

	identity, err := SUT.GetIdentity(ctx, token)
	require.NoError(t, err)
	require.Equal(t, consts.RoleStaff, identity.Role)

	var users int
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&users))
	require.Equal(t, 1, users)
}

func Test_GetIdentity_Given_Expired_Session_Then_Unauthorized(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	SUT := sut.NewAuth(uowFactory, auth.NewTokenSigner(secret), time.Hour)
	token, _, err := SUT.CreateSession(ctx, "late@builder.test", "", consts.RoleStaff)
	require.NoError(t, err)

	_, err = testinfra.Pool.Exec(ctx, "UPDATE sessions SET expires_at = now() - interval '1 minute'")
	require.NoError(t, err)

	_, err = SUT.GetIdentity(ctx, token)
	var unauthorized errs.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)

	purged, err := SUT.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
}

func Test_GetIdentity_Given_Bad_Tokens_Then_Unauthorized(t *testing.T) {
	ctx := context.Background()
	SUT := sut.NewAuth(uowFactory, auth.NewTokenSigner(secret), time.Hour)
	foreign, err := auth.NewTokenSigner("another-secret-0123456789").Sign(uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	unknownSession, err := auth.NewTokenSigner(secret).Sign(uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", foreign, unknownSession} {
		_, err := SUT.GetIdentity(ctx, token)
		var unauthorized errs.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized, token)
	}
}

func Test_CreateSession_Rejects_Unknown_Role(t *testing.T) {
	SUT := sut.NewAuth(uowFactory, auth.NewTokenSigner(secret), time.Hour)

	_, _, err := SUT.CreateSession(context.Background(), "x@builder.test", "", consts.Role("ROOT"))

	var validationErr errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
