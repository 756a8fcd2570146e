package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase contém a lógica de registro, login e perfil
type UserUseCase struct {
	repository UserRepository
	jwtSecret  string
	tracer     trace.Tracer
}

// NewUserUseCase cria uma nova instância de UserUseCase
func NewUserUseCase(
	repository UserRepository,
	jwtSecret string,
	tracer trace.Tracer,
) *UserUseCase {
	return &UserUseCase{
		repository: repository,
		jwtSecret:  jwtSecret,
		tracer:     tracer,
	}
}

// Register cria o usuário com hash bcrypt e emite o token
func (uc *UserUseCase) Register(ctx context.Context, username, email, password string) (*User, string, error) {
	ctx, span := uc.tracer.Start(ctx, "register_user")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	log.Printf("➡️ [REGISTER] Username: %s", username)

	taken, err := uc.repository.ExistsByUsernameOrEmail(ctx, username, email, "")
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	if taken {
		log.Printf("❌ REGISTER REJECTED: username or email taken | Username=%s", username)
		return nil, "", ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := NewUser(uuid.New().String(), username, email, string(hash))
	if err := uc.repository.CreateUser(ctx, user); err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := MintToken(uc.jwtSecret, user)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	log.Printf("✅ User registered: UserID=%s | Username=%s", user.ID, user.Username)
	return user, token, nil
}

// Login verifica as credenciais e emite o token. Usuário inexistente, senha
// errada e conta inativa retornam o mesmo ErrInvalidCredentials.
func (uc *UserUseCase) Login(ctx context.Context, login, password string) (*User, string, error) {
	ctx, span := uc.tracer.Start(ctx, "login_user")
	defer span.End()

	user, err := uc.repository.GetUserByLogin(ctx, login)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	if user == nil {
		log.Printf("❌ LOGIN REJECTED: unknown user | Login=%s", login)
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Printf("❌ LOGIN REJECTED: inactive account | UserID=%s", user.ID)
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("❌ LOGIN REJECTED: bad password | UserID=%s", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := MintToken(uc.jwtSecret, user)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	log.Printf("✅ Login succeeded: UserID=%s", user.ID)
	return user, token, nil
}

// Profile retorna o perfil do usuário autenticado
func (uc *UserUseCase) Profile(ctx context.Context, userID string) (*User, error) {
	return uc.repository.GetUserByID(ctx, userID)
}

// UpdateProfile altera username/email re-checando unicidade
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID, username, email string) (*User, error) {
	ctx, span := uc.tracer.Start(ctx, "update_profile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	current, err := uc.repository.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if username == "" {
		username = current.Username
	}
	if email == "" {
		email = current.Email
	}

	taken, err := uc.repository.ExistsByUsernameOrEmail(ctx, username, email, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if taken {
		return nil, ErrUserAlreadyExists
	}

	return uc.repository.UpdateProfile(ctx, userID, username, email)
}
