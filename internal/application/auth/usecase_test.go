package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/carwash-api/internal/application/auth"
	"github.com/jhoicas/carwash-api/internal/application/dto"
	"github.com/jhoicas/carwash-api/internal/domain"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/infrastructure/security"
	pkgjwt "github.com/jhoicas/carwash-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func ptr[T any](v T) *T { return &v }

type fixture struct {
	store  *memStore
	hasher *security.BcryptHasher
	uc     *auth.AuthUseCase
}

func newFixture(t *testing.T, notifier auth.VerificationNotifier, opts ...auth.Option) *fixture {
	t.Helper()
	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	store := newMemStore()
	uc := auth.NewAuthUseCase(store, hasher, notifier, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "carwash-api-test",
	}, zerolog.Nop(), opts...)
	return &fixture{store: store, hasher: hasher, uc: uc}
}

func customerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: "a@b.com", Password: "pw123456", Role: "customer",
		BusinessID: ptr(int64(7)), Name: ptr("A"), PhoneNumber: ptr("555"),
	}
}

// seedActive registra por el caso de uso y activa la cuenta (la verificación ocurre fuera del sistema).
func (f *fixture) seedActive(t *testing.T, req dto.RegisterRequest) {
	t.Helper()
	_, err := f.uc.Register(context.Background(), req)
	require.NoError(t, err)
	f.store.setStatus(req.Username, entity.StatusActive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CustomerQuedaPendiente(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.uc.Register(context.Background(), customerRequest())
	require.NoError(t, err)
	assert.NotZero(t, out.UserID)
	assert.Contains(t, out.Message, "verification")

	acc := f.store.get("a@b.com")
	require.NotNil(t, acc)
	assert.Equal(t, out.UserID, acc.ID)
	assert.Equal(t, entity.StatusPending, acc.Status)
	assert.Equal(t, entity.RoleCustomer, acc.Role)
	require.NotNil(t, acc.BusinessID)
	assert.Equal(t, int64(7), *acc.BusinessID)
	assert.Equal(t, "A", *acc.Name)
	assert.Equal(t, "555", *acc.PhoneNumber)

	assert.NotEqual(t, "pw123456", acc.PasswordHash)
	ok, err := f.hasher.Compare(acc.PasswordHash, "pw123456")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.hasher.Compare(acc.PasswordHash, "pw1234567")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegister_AdminGuardaBusinessSinPerfil(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "owner@wash.com", Password: "pw123456", Role: "admin",
		BusinessID: ptr(int64(3)), Name: ptr("Owner"),
	})
	require.NoError(t, err)

	acc := f.store.get("owner@wash.com")
	require.NotNil(t, acc)
	assert.Equal(t, entity.StatusPending, acc.Status)
	assert.Equal(t, int64(3), *acc.BusinessID)
	assert.Nil(t, acc.Name, "admin no guarda datos de perfil")
}

func TestRegister_StaffSinBusiness(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "staff@wash.com", Password: "pw123456", Role: "staff", BusinessID: ptr(int64(3)),
	})
	require.NoError(t, err)
	assert.Nil(t, f.store.get("staff@wash.com").BusinessID)
}

func TestRegister_ValidacionAntesDelStore(t *testing.T) {
	cases := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{"sin username", dto.RegisterRequest{Password: "pw123456", Role: "staff"}, domain.ErrMissingRequiredField},
		{"sin password", dto.RegisterRequest{Username: "u@x.com", Role: "staff"}, domain.ErrMissingRequiredField},
		{"sin rol", dto.RegisterRequest{Username: "u@x.com", Password: "pw123456"}, domain.ErrMissingRequiredField},
		{"faltante y rol inválido", dto.RegisterRequest{Username: "u@x.com", Role: "owner"}, domain.ErrMissingRequiredField},
		{"rol inválido", dto.RegisterRequest{Username: "u@x.com", Password: "pw123456", Role: "owner"}, domain.ErrInvalidRole},
		{"admin sin business", dto.RegisterRequest{Username: "u@x.com", Password: "pw123456", Role: "admin"}, domain.ErrBusinessIDRequired},
		{"customer sin business", dto.RegisterRequest{Username: "u@x.com", Password: "pw123456", Role: "customer"}, domain.ErrBusinessIDRequired},
		{"password larga", dto.RegisterRequest{Username: "u@x.com", Password: strings.Repeat("x", 73), Role: "staff"}, domain.ErrPasswordTooLong},
		{"username largo", dto.RegisterRequest{Username: strings.Repeat("u", 256), Password: "pw123456", Role: "staff"}, domain.ErrUsernameTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.uc.Register(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, 0, f.store.count(), "no debe crearse ninguna fila")
			assert.Equal(t, 0, f.store.acquired, "no debe tocarse el store")
		})
	}
}

func TestRegister_UsernameDuplicado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.uc.Register(ctx, customerRequest())
	require.NoError(t, err)

	second := customerRequest()
	second.Password = "otra-clave"
	_, err = f.uc.Register(ctx, second)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, 1, f.store.count())
	assert.Equal(t, first.UserID, f.store.get("a@b.com").ID, "el segundo intento no sobrescribe")
	ok, _ := f.hasher.Compare(f.store.get("a@b.com").PasswordHash, "pw123456")
	assert.True(t, ok)
}

func TestRegister_FalloDelStoreEsInterno(t *testing.T) {
	f := newFixture(t, nil)
	f.store.createErr = errors.New("insert user: connection reset")

	_, err := f.uc.Register(context.Background(), customerRequest())
	require.Error(t, err)
	assert.False(t, domain.IsKnown(err))
	assert.Equal(t, 0, f.store.count(), "rollback: nada queda visible")
	assert.Equal(t, f.store.acquired, f.store.released)
}

func TestRegister_NotificaDespuesDelCommit(t *testing.T) {
	notifier := &mockNotifier{}
	f := newFixture(t, notifier)
	notifier.On("NotifyRegistered", mock.Anything, mock.MatchedBy(func(acc entity.Account) bool {
		return acc.Username == "a@b.com" && acc.Status == entity.StatusPending && acc.ID > 0
	})).Return(nil).Once()

	_, err := f.uc.Register(context.Background(), customerRequest())
	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestRegister_FalloDelAvisoNoDeshaceLaCuenta(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("NotifyRegistered", mock.Anything, mock.Anything).Return(errors.New("smtp: 421"))
	f := newFixture(t, notifier)

	out, err := f.uc.Register(context.Background(), customerRequest())
	require.NoError(t, err)
	assert.NotZero(t, out.UserID)
	assert.Equal(t, 1, f.store.count())
}

func TestRegister_AvisoBloqueadoNoRetieneLaRespuesta(t *testing.T) {
	notifier := newBlockingNotifier()
	defer close(notifier.release)
	f := newFixture(t, notifier, auth.WithNotifyTimeout(50*time.Millisecond))

	type result struct {
		out *dto.RegisterResponse
		err error
	}
	res := make(chan result, 1)
	go func() {
		out, err := f.uc.Register(context.Background(), customerRequest())
		res <- result{out, err}
	}()

	select {
	case r := <-res:
		require.NoError(t, r.err)
		assert.NotZero(t, r.out.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("Register sigue esperando al notificador")
	}
	acc := <-notifier.calls
	assert.Equal(t, "a@b.com", acc.Username)
	assert.Equal(t, 1, f.store.count(), "la cuenta queda confirmada")
}

func TestRegister_SinAvisoSiFallaElInsert(t *testing.T) {
	notifier := &mockNotifier{}
	f := newFixture(t, notifier)
	f.store.createErr = errors.New("boom")

	_, err := f.uc.Register(context.Background(), customerRequest())
	require.Error(t, err)
	notifier.AssertNotCalled(t, "NotifyRegistered", mock.Anything, mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CamposRequeridos(t *testing.T) {
	f := newFixture(t, nil)
	for _, req := range []dto.LoginRequest{
		{Password: "pw123456", RoleAttempt: "customer"},
		{Username: "a@b.com", RoleAttempt: "customer"},
		{Username: "a@b.com", Password: "pw123456"},
	} {
		_, err := f.uc.Login(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	}
	assert.Equal(t, 0, f.store.acquired)
}

func TestLogin_EscenarioClientePendiente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	reg, err := f.uc.Register(ctx, customerRequest())
	require.NoError(t, err)
	require.NotZero(t, reg.UserID)

	out, err := f.uc.Login(ctx, dto.LoginRequest{Username: "a@b.com", Password: "pw123456", RoleAttempt: "customer"})
	assert.ErrorIs(t, err, domain.ErrVerificationRequired)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, out, "no se emite token")
}

func TestLogin_CredencialesInvalidasIndistinguibles(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, customerRequest())
	ctx := context.Background()

	_, errUnknown := f.uc.Login(ctx, dto.LoginRequest{Username: "nadie@b.com", Password: "pw123456", RoleAttempt: "customer"})
	_, errWrong := f.uc.Login(ctx, dto.LoginRequest{Username: "a@b.com", Password: "incorrecta", RoleAttempt: "customer"})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_CredencialesAntesQueEstado(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.Register(context.Background(), customerRequest())
	require.NoError(t, err)

	// Cuenta pendiente con contraseña incorrecta: no se revela el estado.
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "a@b.com", Password: "mal", RoleAttempt: "customer"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_Suspendida(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, customerRequest())
	f.store.setStatus("a@b.com", entity.StatusSuspended)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "a@b.com", Password: "pw123456", RoleAttempt: "customer"})
	assert.ErrorIs(t, err, domain.ErrAccountSuspended)
}

func TestLogin_RolDistinto(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, customerRequest())

	for _, attempt := range []string{"admin", "staff", "superadmin", "otro"} {
		_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "a@b.com", Password: "pw123456", RoleAttempt: attempt})
		assert.ErrorIs(t, err, domain.ErrRoleMismatch, attempt)
	}
}

func TestLogin_AdminSinSuscripcionActiva(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, dto.RegisterRequest{Username: "owner@wash.com", Password: "pw123456", Role: "admin", BusinessID: ptr(int64(7))})

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "owner@wash.com", Password: "pw123456", RoleAttempt: "admin"})
	assert.ErrorIs(t, err, domain.ErrSubscriptionInactive)
	assert.Equal(t, 1, f.store.subsCalls)
}

func TestLogin_AdminConSuscripcionActiva(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, dto.RegisterRequest{Username: "owner@wash.com", Password: "pw123456", Role: "admin", BusinessID: ptr(int64(7))})
	f.store.activeSubs[7] = 1

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "owner@wash.com", Password: "pw123456", RoleAttempt: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Role)
	assert.Equal(t, int64(7), *out.User.BusinessID)

	session, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Role)
	require.NotNil(t, session.BusinessID)
	assert.Equal(t, int64(7), *session.BusinessID)
	assert.Equal(t, out.User.ID, session.ID)
	assert.Equal(t, "owner@wash.com", session.Username)
}

func TestLogin_StaffSinBusinessNuncaTieneSuscripcion(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, dto.RegisterRequest{Username: "staff@wash.com", Password: "pw123456", Role: "staff"})

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "staff@wash.com", Password: "pw123456", RoleAttempt: "staff"})
	assert.ErrorIs(t, err, domain.ErrSubscriptionInactive)
	assert.Equal(t, 0, f.store.subsCalls)
}

func TestLogin_StaffConBusinessAsignado(t *testing.T) {
	f := newFixture(t, nil)
	hash, err := f.hasher.Hash("pw123456")
	require.NoError(t, err)
	// business_id asignado fuera del registro (acción administrativa).
	f.store.put(entity.Account{Username: "staff@wash.com", PasswordHash: hash, Role: entity.RoleStaff, Status: entity.StatusActive, BusinessID: ptr(int64(9))})
	f.store.activeSubs[9] = 2

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "staff@wash.com", Password: "pw123456", RoleAttempt: "staff"})
	require.NoError(t, err)
	assert.Equal(t, "staff", out.User.Role)
}

func TestLogin_SuperadminNoPasaPorSuscripcion(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, dto.RegisterRequest{Username: "root@wash.com", Password: "pw123456", Role: "superadmin"})

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "root@wash.com", Password: "pw123456", RoleAttempt: "superadmin"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Nil(t, out.User.BusinessID)
	assert.Equal(t, 0, f.store.subsCalls)
}

func TestLogin_CustomerActivoDevuelvePerfil(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, customerRequest())

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "a@b.com", Password: "pw123456", RoleAttempt: "customer"})
	require.NoError(t, err)
	assert.Equal(t, "login successful", out.Message)
	assert.Equal(t, "a@b.com", out.User.Username)
	assert.Equal(t, "A", *out.User.Name)
	assert.Equal(t, "555", *out.User.PhoneNumber)
	assert.Equal(t, 0, f.store.subsCalls, "customer no depende de suscripción")
}

func TestLogin_ErroresDeInfraestructura(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, dto.RegisterRequest{Username: "owner@wash.com", Password: "pw123456", Role: "admin", BusinessID: ptr(int64(7))})

	f.store.subsErr = errors.New("check subscription: timeout")
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "owner@wash.com", Password: "pw123456", RoleAttempt: "admin"})
	require.Error(t, err)
	assert.False(t, domain.IsKnown(err))

	f.store.findErr = errors.New("get user by username: conn closed")
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "owner@wash.com", Password: "pw123456", RoleAttempt: "admin"})
	require.Error(t, err)
	assert.False(t, domain.IsKnown(err))
}

func TestLogin_ConexionLiberadaEnTodasLasSalidas(t *testing.T) {
	f := newFixture(t, nil)
	f.seedActive(t, customerRequest())
	ctx := context.Background()

	_, _ = f.uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "x", RoleAttempt: "customer"})
	_, _ = f.uc.Login(ctx, dto.LoginRequest{Username: "a@b.com", Password: "x", RoleAttempt: "customer"})
	_, _ = f.uc.Login(ctx, dto.LoginRequest{Username: "a@b.com", Password: "pw123456", RoleAttempt: "admin"})
	_, _ = f.uc.Login(ctx, dto.LoginRequest{Username: "a@b.com", Password: "pw123456", RoleAttempt: "customer"})

	assert.Equal(t, f.store.acquired, f.store.released)
}
