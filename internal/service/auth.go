package service

import (
	"context"
	"errors"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
	"github.com/dishcraft/backend/internal/model"
)

// IdentityClaims are the profile fields extracted from a verified identity
// token.
type IdentityClaims struct {
	Subject        string
	Name           string
	Email          string
	SignInProvider string
}

// TokenVerifier validates an identity-provider token. Cryptographic
// verification is delegated wholesale; this service only consumes claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*IdentityClaims, error)
}

// FirebaseVerifier verifies tokens through the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseVerifier wraps a Firebase auth client.
func NewFirebaseVerifier(client *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// VerifyToken implements TokenVerifier.
func (v *FirebaseVerifier) VerifyToken(ctx context.Context, raw string) (*IdentityClaims, error) {
	token, err := v.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, err
	}

	claims := &IdentityClaims{
		Subject:        token.UID,
		SignInProvider: token.Firebase.SignInProvider,
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.Name = name
	}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}

	return claims, nil
}

// StaticVerifier validates HS256 tokens signed with a shared secret. Used
// for local development and tests where no identity provider is reachable.
type StaticVerifier struct {
	secret []byte
}

// NewStaticVerifier creates a shared-secret verifier.
func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret)}
}

// VerifyToken implements TokenVerifier.
func (v *StaticVerifier) VerifyToken(_ context.Context, raw string) (*IdentityClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	subject, ok := mapClaims["sub"].(string)
	if !ok || subject == "" {
		return nil, errors.New("token missing subject")
	}

	claims := &IdentityClaims{Subject: subject}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if provider, ok := mapClaims["sign_in_provider"].(string); ok {
		claims.SignInProvider = provider
	}

	return claims, nil
}

// MintStaticToken signs an HS256 token the StaticVerifier accepts. Exported
// for the dev CLI flows and the test suites.
func MintStaticToken(secret string, claims IdentityClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":              claims.Subject,
		"name":             claims.Name,
		"email":            claims.Email,
		"sign_in_provider": claims.SignInProvider,
		"exp":              time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// AuthService resolves bearer credentials into local user records.
type AuthService struct {
	verifier TokenVerifier
	users    UserStore
	logger   *zap.Logger
}

// NewAuthService creates the authentication gate.
func NewAuthService(verifier TokenVerifier, users UserStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		logger:   logger.Named("auth"),
	}
}

// Verify validates the raw token and returns its claims without touching
// the user collection.
func (s *AuthService) Verify(ctx context.Context, raw string) (*IdentityClaims, error) {
	if raw == "" {
		return nil, apperr.New(apperr.Unauthorized, "Unauthorized: Missing token")
	}
	claims, err := s.verifier.VerifyToken(ctx, raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "Unauthorized: Invalid token", err)
	}
	return claims, nil
}

// ResolveUser verifies the token and returns the matching user, creating
// one on first sight. The create path tolerates a concurrent first login:
// a uniqueness conflict on the subject resolves to the pre-existing record.
func (s *AuthService) ResolveUser(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindBySubject(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, apperr.Wrap(apperr.Persistence, "failed to look up user", err)
	}

	return s.createFromClaims(ctx, claims, claims.Name)
}

// LookupUser verifies the token and returns the matching user without ever
// creating one.
func (s *AuthService) LookupUser(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindBySubject(ctx, claims.Subject)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to look up user", err)
	}
	return user, nil
}

// SignUp verifies the token and registers a new user. The display name comes
// from the request body unless the provider is Google sign-in, which already
// carries a trusted name. Fails when the subject is already registered.
func (s *AuthService) SignUp(ctx context.Context, raw, bodyName string) (*model.User, error) {
	claims, err := s.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindBySubject(ctx, claims.Subject); err == nil {
		return nil, apperr.New(apperr.Validation, "User already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, apperr.Wrap(apperr.Persistence, "failed to look up user", err)
	}

	name := bodyName
	if claims.SignInProvider == "google.com" {
		name = claims.Name
		if name == "" {
			name = "New User"
		}
	}
	if name == "" {
		return nil, apperr.New(apperr.Validation, "Name is required")
	}

	return s.createFromClaims(ctx, claims, name)
}

func (s *AuthService) createFromClaims(ctx context.Context, claims *IdentityClaims, name string) (*model.User, error) {
	user := &model.User{
		Subject:      claims.Subject,
		Name:         name,
		Email:        claims.Email,
		SavedRecipes: []primitive.ObjectID{},
		CreatedAt:    time.Now().UTC(),
	}

	err := s.users.Create(ctx, user)
	if errors.Is(err, ErrDuplicateKey) {
		// Lost a concurrent first-login race; the winner's record is ours.
		existing, findErr := s.users.FindBySubject(ctx, claims.Subject)
		if findErr != nil {
			return nil, apperr.Wrap(apperr.Persistence, "failed to resolve user after conflict", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to create user", err)
	}

	s.logger.Info("created user on first authentication", zap.String("subject", claims.Subject))
	return user, nil
}
