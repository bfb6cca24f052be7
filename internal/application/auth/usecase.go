package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jhoicas/carwash-api/internal/application/dto"
	"github.com/jhoicas/carwash-api/internal/domain"
	"github.com/jhoicas/carwash-api/internal/domain/account"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
	"github.com/jhoicas/carwash-api/pkg/jwt"
)

const (
	msgRegistered = "registration successful, please complete email verification"
	msgLoggedIn   = "login successful"

	// DefaultNotifyTimeout tope de espera del aviso posterior al registro.
	DefaultNotifyTimeout = 10 * time.Second
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
// No guarda estado entre llamadas; todo pasa por el Store.
type AuthUseCase struct {
	store    Store
	hasher   PasswordHasher
	notifier VerificationNotifier
	validate *validator.Validate
	jwtCfg   JWTConfig
	log      zerolog.Logger

	notifyTimeout time.Duration
}

// Option ajusta parámetros opcionales del caso de uso.
type Option func(*AuthUseCase)

// WithNotifyTimeout cambia el tope de espera del aviso de registro.
func WithNotifyTimeout(d time.Duration) Option {
	return func(uc *AuthUseCase) {
		if d > 0 {
			uc.notifyTimeout = d
		}
	}
}

// NewAuthUseCase construye el caso de uso de auth. notifier puede ser nil.
func NewAuthUseCase(store Store, hasher PasswordHasher, notifier VerificationNotifier, jwtCfg JWTConfig, log zerolog.Logger, opts ...Option) *AuthUseCase {
	uc := &AuthUseCase{
		store:         store,
		hasher:        hasher,
		notifier:      notifier,
		validate:      validator.New(),
		jwtCfg:        jwtCfg,
		log:           log,
		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Register valida, hashea y persiste una cuenta pending en una transacción.
// Devuelve domain.ErrUsernameAlreadyExists si el username ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := uc.validate.Struct(&in); err != nil {
		return nil, registerValidationError(err)
	}
	input := account.RegistrationInput{
		Username:    in.Username,
		Password:    in.Password,
		Role:        entity.Role(in.Role),
		BusinessID:  in.BusinessID,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
	}
	// business_id se revisa antes de pagar el costo del hash.
	if err := account.ValidateRegistration(input); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	reg, err := account.NewRegistration(input, hash)
	if err != nil {
		return nil, err
	}

	var id int64
	err = uc.store.WithinTx(ctx, func(accounts repository.AccountRepository) error {
		var err error
		id, err = accounts.Create(ctx, reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	acc := account.PendingAccount(reg, id)
	uc.log.Info().Int64("user_id", id).Str("role", string(acc.Role)).Msg("cuenta registrada")
	uc.notifyRegistered(ctx, acc)

	return &dto.RegisterResponse{Message: msgRegistered, UserID: id}, nil
}

// notifyRegistered espera el aviso como máximo notifyTimeout. La cuenta ya está confirmada:
// si el notificador no responde a tiempo se registra y el registro sigue adelante.
func (uc *AuthUseCase) notifyRegistered(ctx context.Context, acc entity.Account) {
	if uc.notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.notifyTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- uc.notifier.NotifyRegistered(nctx, acc)
	}()

	select {
	case err := <-done:
		if err != nil {
			uc.log.Warn().Err(err).Int64("user_id", acc.ID).Msg("aviso de verificación no enviado")
		}
	case <-nctx.Done():
		uc.log.Warn().Err(nctx.Err()).Int64("user_id", acc.ID).Dur("timeout", uc.notifyTimeout).Msg("aviso de verificación sin respuesta")
	}
}

// Login verifica credenciales, estado, rol y suscripción, y emite el JWT.
// Usuario inexistente y contraseña incorrecta devuelven el mismo domain.ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := uc.validate.Struct(&in); err != nil {
		return nil, domain.ErrMissingRequiredField
	}

	var acc *entity.Account
	err := uc.store.WithConn(ctx, func(accounts repository.AccountRepository, subs repository.SubscriptionRepository) error {
		found, err := accounts.FindByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if found == nil {
			uc.hasher.CompareDummy(in.Password)
			return domain.ErrInvalidCredentials
		}
		ok, err := uc.hasher.Compare(found.PasswordHash, in.Password)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidCredentials
		}
		if err := account.Authorize(found, entity.Role(in.RoleAttempt)); err != nil {
			return err
		}
		if account.RequiresSubscription(found.Role) {
			if err := checkSubscription(ctx, subs, found.BusinessID); err != nil {
				return err
			}
		}
		acc = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Session{
		ID:         acc.ID,
		Username:   acc.Username,
		Role:       string(acc.Role),
		BusinessID: acc.BusinessID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("firmar token: %w", err)
	}
	return &dto.LoginResponse{
		Message: msgLoggedIn,
		Token:   token,
		User:    toAccountSummary(acc),
	}, nil
}

// checkSubscription exige al menos una suscripción activa del negocio.
// Una cuenta sin business_id nunca la tiene.
func checkSubscription(ctx context.Context, subs repository.SubscriptionRepository, businessID *int64) error {
	if !account.HasBusiness(businessID) {
		return domain.ErrSubscriptionInactive
	}
	active, err := subs.HasActiveSubscription(ctx, *businessID)
	if err != nil {
		return err
	}
	if !active {
		return domain.ErrSubscriptionInactive
	}
	return nil
}

// registerValidationError traduce los errores del validator respetando la prioridad:
// campo faltante, luego rol inválido, luego longitudes.
func registerValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInvalidInput
	}
	var roleErr, lengthErr error
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			return domain.ErrMissingRequiredField
		case fe.Field() == "Role":
			roleErr = domain.ErrInvalidRole
		case fe.Field() == "Password":
			lengthErr = domain.ErrPasswordTooLong
		case fe.Field() == "Username":
			lengthErr = domain.ErrUsernameTooLong
		}
	}
	if roleErr != nil {
		return roleErr
	}
	if lengthErr != nil {
		return lengthErr
	}
	return domain.ErrInvalidInput
}

func toAccountSummary(u *entity.Account) dto.AccountSummary {
	return dto.AccountSummary{
		ID:          u.ID,
		Username:    u.Username,
		Role:        string(u.Role),
		BusinessID:  u.BusinessID,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
	}
}
