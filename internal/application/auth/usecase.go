package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mudras/stock-ledger/internal/application/dto"
	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
	"github.com/mudras/stock-ledger/pkg/jwt"
)

// MinPasswordLength largo mínimo de password de un operador.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de operadores y login.
type AuthUseCase struct {
	repo   repository.OperatorRepository
	jwtCfg JWTConfig
	cost   int
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repo repository.OperatorRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{
		repo:   repo,
		jwtCfg: jwtCfg,
		cost:   bcrypt.DefaultCost,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithHashCost ajusta el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// RegisterOperator crea un operador: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterOperator(ctx context.Context, in dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < MinPasswordLength || !validRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := uc.now()
	op := &entity.Operator{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// EnsureAdmin crea el primer administrador si todavía no hay operadores.
// Devuelve false si ya existía alguno.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = uc.RegisterOperator(ctx, dto.CreateOperatorRequest{Email: email, Password: password, Name: "Administrador", Role: jwt.RoleAdmin})
	return err == nil, err
}

// Login verifica email/password, genera JWT y retorna token + operador.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := uc.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !op.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, op.ID, op.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Operator: *toOperatorResponse(op)}, nil
}

func validRole(role string) bool {
	switch role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
		return true
	}
	return false
}

func toOperatorResponse(op *entity.Operator) *dto.OperatorResponse {
	if op == nil {
		return nil
	}
	return &dto.OperatorResponse{
		ID:        op.ID,
		Email:     op.Email,
		Name:      op.Name,
		Role:      op.Role,
		Active:    op.Active,
		CreatedAt: op.CreatedAt,
		UpdatedAt: op.UpdatedAt,
	}
}
