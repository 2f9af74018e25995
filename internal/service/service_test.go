package service_test

import (
	"io"
	"testing"

	"github.com/phase2/todo-api/internal/auth"
	"github.com/phase2/todo-api/internal/models"
	"github.com/phase2/todo-api/internal/repository"
	"github.com/phase2/todo-api/internal/service"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) CreateUser(user *models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) FindUserByEmail(email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type memTasks struct {
	created []*models.Task
}

func (m *memTasks) ListTasks(string) ([]*models.Task, error) { return nil, nil }
func (m *memTasks) CreateTask(task *models.Task) error {
	task.ID = int64(len(m.created) + 1)
	m.created = append(m.created, task)
	return nil
}
func (m *memTasks) GetTask(int64) (*models.Task, error) { return nil, repository.ErrTaskNotFound }
func (m *memTasks) UpdateTask(int64, string, *string, *string) (*models.Task, error) {
	return nil, repository.ErrTaskNotFound
}
func (m *memTasks) ToggleTask(int64, string) (*models.Task, error) {
	return nil, repository.ErrTaskNotFound
}
func (m *memTasks) DeleteTask(int64, string) error { return repository.ErrTaskNotFound }

func newService(t *testing.T) (*service.Service, *memUsers, *memTasks) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	issuer, err := auth.NewIssuer("test-secret", "HS256", 60)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}
	users := &memUsers{byEmail: map[string]*models.User{}}
	tasks := &memTasks{}
	return service.NewService(users, tasks, issuer, logger), users, tasks
}

func TestSignupHashesPassword(t *testing.T) {
	svc, users, _ := newService(t)

	user, token, err := svc.Signup("a@b.com", "password1", "")
	if err != nil {
		t.Fatalf("Signup() error: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if user.ID == "" {
		t.Error("empty user id")
	}

	stored := users.byEmail["a@b.com"]
	if stored.PasswordHash == "password1" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password1")); err != nil {
		t.Errorf("stored hash does not verify the password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password2")); err == nil {
		t.Error("stored hash verifies the wrong password")
	}
}

func TestLoginCollapsesFailures(t *testing.T) {
	svc, _, _ := newService(t)
	if _, _, err := svc.Signup("a@b.com", "password1", ""); err != nil {
		t.Fatalf("Signup() error: %v", err)
	}

	if _, _, err := svc.Login("a@b.com", "wrong"); err != service.ErrInvalidCredentials {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("ghost@b.com", "password1"); err != service.ErrInvalidCredentials {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateTaskNormalizesInput(t *testing.T) {
	svc, _, tasks := newService(t)

	empty := ""
	task, err := svc.CreateTask("u1", "  Buy milk  ", &empty)
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("title = %q, want trimmed", task.Title)
	}
	if task.Description != nil {
		t.Error("empty description should normalize to nil")
	}
	if len(tasks.created) != 1 {
		t.Errorf("stored %d task(s), want 1", len(tasks.created))
	}
}
