package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/config"
	"github.com/mgarzon/almacen-api/pkg/jwt"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// AuthUsecase registro y autenticación de usuarios.
type AuthUsecase struct {
	users  repository.UserRepository
	jwtCfg config.JWTConfig
	log    *logger.Logger
}

// NewAuthUsecase crea el caso de uso de autenticación.
func NewAuthUsecase(users repository.UserRepository, jwtCfg config.JWTConfig, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{users: users, jwtCfg: jwtCfg, log: log}
}

func validRole(role string) bool {
	switch role {
	case entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleConsulta:
		return true
	}
	return false
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Register da de alta un usuario con la contraseña hasheada con bcrypt.
func (u *AuthUsecase) Register(req dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	role := req.Role
	if role == "" {
		role = entity.RoleConsulta
	}
	if !validRole(role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, req.Role)
	}

	existing, err := u.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(user); err != nil {
		return nil, err
	}

	u.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario registrado")
	resp := toUserResponse(user)
	return &resp, nil
}

// Login valida credenciales y emite un token JWT con el rol del usuario.
// Cualquier credencial incorrecta responde el mismo error para no filtrar
// qué emails existen.
func (u *AuthUsecase) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := u.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(u.jwtCfg.Secret, user.ID, user.Role, u.jwtCfg.Issuer, u.jwtCfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	return &dto.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

// Me devuelve el usuario autenticado.
func (u *AuthUsecase) Me(userID string) (*dto.UserResponse, error) {
	user, err := u.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}
