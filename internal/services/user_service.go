package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/repositories"
	"vzaimoBack/utils"
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	FlowSessions *repositories.FlowSessionRepository
	TokenManager *utils.Manager
	SMS          *SMSService
	SigningKey   string
}

const (
	tokenTTL        = 120 * time.Minute
	refreshTokenTTL = 24 * 30 * 2 * time.Hour
)

func generateVerificationCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.SignUpResponse, error) {
	existing, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	if existing.Email != "" {
		return models.SignUpResponse{}, models.ErrDuplicateEmail
	}

	existing, err = s.UserRepo.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	if existing.Phone != "" {
		return models.SignUpResponse{}, models.ErrDuplicatePhone
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.SignUpResponse{}, err
	}

	userID, err := s.UserRepo.CreateUser(ctx, models.User{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: string(hashedPassword),
	})
	if err != nil {
		return models.SignUpResponse{}, err
	}

	tokens, err := s.issueTokens(ctx, userID)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	return models.SignUpResponse{
		UserID:       userID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.Tokens, error) {
	var (
		user models.User
		err  error
	)
	if req.Phone != "" {
		user, err = s.UserRepo.GetUserByPhone(ctx, req.Phone)
	} else {
		user, err = s.UserRepo.GetUserByEmail(ctx, req.Email)
	}
	if err != nil {
		return models.Tokens{}, err
	}
	if user.ID == 0 || !user.IsActive {
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.Tokens{}, models.ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user.ID)
}

func (s *UserService) issueTokens(ctx context.Context, userID int) (models.Tokens, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
			Subject:   strconv.Itoa(userID),
		},
		UserID: uint(userID),
	})
	accessToken, err := token.SignedString([]byte(s.SigningKey))
	if err != nil {
		log.Printf("Error signing token: %v", err)
		return models.Tokens{}, err
	}

	// UUID fallback keeps login working when no token manager is wired.
	refreshToken := uuid.New().String()
	if s.TokenManager != nil {
		refreshToken, err = s.TokenManager.NewRefreshToken()
		if err != nil {
			return models.Tokens{}, err
		}
	}

	session := models.Session{
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}
	if err := s.UserRepo.CreateSession(ctx, userID, session); err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (models.Tokens, error) {
	userID, err := s.UserRepo.GetUserIDBySessionToken(ctx, refreshToken)
	if err != nil {
		return models.Tokens{}, err
	}
	return s.issueTokens(ctx, userID)
}

// SendVerificationCode generates a short-lived SMS code for the phone.
func (s *UserService) SendVerificationCode(ctx context.Context, phone string) error {
	code := generateVerificationCode()
	if err := s.FlowSessions.SaveVerificationCode(ctx, phone, code); err != nil {
		return err
	}
	message := fmt.Sprintf("Ваш код подтверждения: %s", code)
	return s.SMS.Send(phone, message)
}

func (s *UserService) VerifyPhone(ctx context.Context, req models.VerifyPhoneRequest) error {
	return s.FlowSessions.CheckVerificationCode(ctx, req.Phone, req.Code)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user models.User) error {
	current, err := s.UserRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if user.Email != "" && user.Email != current.Email {
		existing, err := s.UserRepo.GetUserByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if existing.Email != "" {
			return models.ErrDuplicateEmail
		}
		current.Email = user.Email
	}
	if user.Phone != "" && user.Phone != current.Phone {
		existing, err := s.UserRepo.GetUserByPhone(ctx, user.Phone)
		if err != nil {
			return err
		}
		if existing.Phone != "" {
			return models.ErrDuplicatePhone
		}
		current.Phone = user.Phone
	}
	if user.Name != "" {
		current.Name = user.Name
	}
	if user.Contacts != "" {
		if err := ValidateContacts(user.Contacts); err != nil {
			return err
		}
		current.Contacts = user.Contacts
	}
	return s.UserRepo.UpdateUser(ctx, current)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return models.ErrInvalidCredentials
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePassword(ctx, userID, string(hashedPassword))
}

func (s *UserService) DeactivateUser(ctx context.Context, userID int) error {
	return s.UserRepo.DeactivateUser(ctx, userID)
}

// UploadProofDocument stores a verification document in object storage and
// records its URL on the user.
func (s *UserService) UploadProofDocument(ctx context.Context, userID int, file []byte, fileName string) (string, error) {
	if _, err := s.UserRepo.GetUserByID(ctx, userID); err != nil {
		return "", err
	}
	docURL, err := utils.UploadFileToS3(file, fileName, "proof_documents")
	if err != nil {
		return "", err
	}
	if err := s.UserRepo.UpdateDocOfProof(ctx, userID, docURL); err != nil {
		return "", err
	}
	return docURL, nil
}
