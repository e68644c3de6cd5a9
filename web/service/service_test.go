package service

import (
	"fmt"
	"os"
	"testing"

	"blogapi/database"
	"blogapi/database/model"
	"blogapi/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

const testDBPath = "test.db"

func TestMain(m *testing.M) {
	logDir, err := os.MkdirTemp("", "blogapi-test-log")
	if err == nil {
		os.Setenv("BLOGAPI_LOG_FOLDER", logDir)
	}
	logger.InitLogger(logging.ERROR)

	code := m.Run()
	if logDir != "" {
		os.RemoveAll(logDir)
	}
	os.Exit(code)
}

func setup(t *testing.T) {
	t.Helper()
	os.Remove(testDBPath)
	require.NoError(t, database.InitDB(testDBPath))
}

func teardown() {
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	os.Remove(testDBPath)
}

func createUser(t *testing.T, email string, roles ...model.Role) *model.User {
	t.Helper()
	svc := NewUserService()
	user, err := svc.Register(email, "whatever", "Nobody", "Cares")
	require.NoError(t, err)
	if len(roles) > 0 {
		require.NoError(t, svc.ReplaceRoles(user.Id, roles))
		user, err = svc.GetUser(user.Id)
		require.NoError(t, err)
	}
	return user
}

func createNamedUser(t *testing.T, email, firstName, lastName string) *model.User {
	t.Helper()
	svc := NewUserService()
	user, err := svc.Register(email, "whatever", firstName, lastName)
	require.NoError(t, err)
	return user
}

// setCreated backdates an entity's creation time. Timestamps have second
// precision, so ordering tests assign distinct seconds instead of sleeping.
func setCreated(t *testing.T, entity any, created int64) {
	t.Helper()
	require.NoError(t, database.GetDB().Model(entity).Update("created", created).Error)
}

// fakeMailer records outgoing notifications.
type fakeMailer struct {
	sent []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// failingMailer simulates an unavailable mail relay.
type failingMailer struct {
	attempts int
}

func (m *failingMailer) Send(to, subject, body string) error {
	m.attempts++
	return fmt.Errorf("smtp unavailable")
}
