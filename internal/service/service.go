package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phase2/todo-api/internal/auth"
	"github.com/phase2/todo-api/internal/models"
	"github.com/phase2/todo-api/internal/repository"
	"github.com/phase2/todo-api/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials collapses unknown-email and wrong-password into one
// outcome so login does not leak which half failed
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the persistence contract for accounts
type UserStore interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
}

// TaskStore is the persistence contract for tasks
type TaskStore interface {
	ListTasks(userID string) ([]*models.Task, error)
	CreateTask(task *models.Task) error
	GetTask(taskID int64) (*models.Task, error)
	UpdateTask(taskID int64, userID string, title, description *string) (*models.Task, error)
	ToggleTask(taskID int64, userID string) (*models.Task, error)
	DeleteTask(taskID int64, userID string) error
}

// Service handles business logic
type Service struct {
	users  UserStore
	tasks  TaskStore
	tokens *auth.Issuer
	log    *logrus.Logger
}

// NewService initializes a new service
func NewService(users UserStore, tasks TaskStore, tokens *auth.Issuer, log *logrus.Logger) *Service {
	return &Service{users: users, tasks: tasks, tokens: tokens, log: log}
}

// Signup creates a new user with a hashed password and returns it with a
// fresh bearer token
func (s *Service) Signup(email, password, name string) (*models.User, string, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns it with a bearer token
func (s *Service) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.log.Infof("User logged in: %s", user.Email)
	return user, token, nil
}

// ListTasks returns the caller's tasks, newest first
func (s *Service) ListTasks(userID string) ([]*models.Task, error) {
	return s.tasks.ListTasks(userID)
}

// CreateTask validates and stores a new task for the caller
func (s *Service) CreateTask(userID, title string, description *string) (*models.Task, error) {
	title = utils.TrimTitle(title)
	if title == "" {
		return nil, utils.NewValidationError("Title is required")
	}
	if err := utils.ValidateTitle(title); err != nil {
		return nil, err
	}
	if description != nil {
		if *description == "" {
			description = nil
		} else if err := utils.ValidateDescription(*description); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.tasks.CreateTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns a task if it exists and belongs to the caller
func (s *Service) GetTask(userID string, taskID int64) (*models.Task, error) {
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, repository.ErrNotTaskOwner
	}
	return task, nil
}

// UpdateTask changes the supplied fields on the caller's task. Existence and
// ownership are checked before validation so a bad title on someone else's
// task still reads as an authorization failure.
func (s *Service) UpdateTask(userID string, taskID int64, title, description *string) (*models.Task, error) {
	if _, err := s.GetTask(userID, taskID); err != nil {
		return nil, err
	}

	if title != nil {
		trimmed := utils.TrimTitle(*title)
		if trimmed == "" {
			return nil, utils.NewValidationError("Title cannot be empty")
		}
		if err := utils.ValidateTitle(trimmed); err != nil {
			return nil, err
		}
		title = &trimmed
	}
	if description != nil {
		if err := utils.ValidateDescription(*description); err != nil {
			return nil, err
		}
	}

	return s.tasks.UpdateTask(taskID, userID, title, description)
}

// ToggleTask flips the completion flag on the caller's task
func (s *Service) ToggleTask(userID string, taskID int64) (*models.Task, error) {
	return s.tasks.ToggleTask(taskID, userID)
}

// DeleteTask removes the caller's task permanently
func (s *Service) DeleteTask(userID string, taskID int64) error {
	return s.tasks.DeleteTask(taskID, userID)
}
