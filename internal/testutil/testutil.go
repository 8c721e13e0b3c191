// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/devtrack/internal/database"
	"github.com/yukikurage/devtrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database and installs it as the
// package-level database. A single connection keeps every query on the same
// in-memory instance.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))
	database.SetDB(db)

	return db
}

// Fixtures creates rows directly, bypassing authorization.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) create(value interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(value).Error)
}

func (f *Fixtures) Organisation(name string) *models.Organisation {
	f.t.Helper()
	org := &models.Organisation{Name: name}
	f.create(org)
	return org
}

func (f *Fixtures) Department(organisationID uint64, name string) *models.Department {
	f.t.Helper()
	dept := &models.Department{OrganisationID: organisationID, Name: name}
	f.create(dept)
	return dept
}

func (f *Fixtures) Team(name string, departmentID *uint64) *models.Team {
	f.t.Helper()
	team := &models.Team{Name: name, Description: name + " team", DepartmentID: departmentID}
	f.create(team)
	return team
}

// UserOption customises a fixture user.
type UserOption func(*models.User)

// InDepartment places the user in a department.
func InDepartment(id uint64) UserOption {
	return func(u *models.User) { u.DepartmentID = &id }
}

// AnchoredTo scopes an admin to an organisation.
func AnchoredTo(id uint64) UserOption {
	return func(u *models.User) { u.OrganisationID = &id }
}

// WithPassword stores a bcrypt hash of password.
func WithPassword(password string) UserOption {
	return func(u *models.User) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		u.PasswordHash = string(hash)
	}
}

// Archived stores the user as archived by archivedBy.
func Archived(archivedBy uint64) UserOption {
	return func(u *models.User) {
		lifecycle, err := models.ActiveLifecycle().Archive(archivedBy, time.Now())
		if err != nil {
			panic(err)
		}
		u.Lifecycle = lifecycle
	}
}

func (f *Fixtures) User(username string, role models.Role, opts ...UserOption) *models.User {
	f.t.Helper()
	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hashed",
		Role:         role,
		Lifecycle:    models.ActiveLifecycle(),
	}
	for _, opt := range opts {
		opt(user)
	}
	f.create(user)
	return user
}

func (f *Fixtures) Member(userID, teamID uint64) {
	f.t.Helper()
	f.create(&models.TeamMembership{UserID: userID, TeamID: teamID, JoinedAt: time.Now()})
}

func (f *Fixtures) Manager(userID, teamID uint64) {
	f.t.Helper()
	f.create(&models.TeamManagerAssignment{UserID: userID, TeamID: teamID, AssignedAt: time.Now()})
}

func (f *Fixtures) Partner(userID, teamID uint64) {
	f.t.Helper()
	f.create(&models.TeamPartnerAssignment{UserID: userID, TeamID: teamID, AssignedAt: time.Now()})
}

func (f *Fixtures) Entry(userID uint64, title string) *models.Entry {
	f.t.Helper()
	entry := &models.Entry{UserID: userID, Title: title, Hours: 1.5}
	f.create(entry)
	return entry
}

func (f *Fixtures) Document(entryID uint64, filename string) *models.Document {
	f.t.Helper()
	doc := &models.Document{
		EntryID:     entryID,
		Filename:    filename,
		ContentType: "application/pdf",
		SizeBytes:   1024,
		StorageKey:  fmt.Sprintf("entries/%d/%s", entryID, filename),
	}
	f.create(doc)
	return doc
}
