package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/yukikurage/devtrack/internal/authz"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
	"github.com/yukikurage/devtrack/internal/testutil"
	"gorm.io/gorm"
)

// world is a small two-organisation directory shared by the service tests.
//
//	Acme/Engineering: team Platform (managed by manager, partnered by partner)
//	                  members: member, peer (a manager)
//	Globex/Sales:     team Field, member: outsider
type world struct {
	db   *gorm.DB
	f    *testutil.Fixtures
	dir  *repository.GormDirectory
	eng  *authz.Engine
	log  *logrus.Logger
	hook *test.Hook

	acme   *models.Organisation
	globex *models.Organisation
	eng1   *models.Department
	sales  *models.Department

	platform *models.Team
	field    *models.Team

	superAdmin *models.User
	acmeAdmin  *models.User
	manager    *models.User
	partner    *models.User
	member     *models.User
	peer       *models.User
	outsider   *models.User
}

func newWorld(t *testing.T) *world {
	t.Helper()

	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	log, hook := test.NewNullLogger()
	dir := repository.NewDirectory(db)

	w := &world{db: db, f: f, dir: dir, eng: authz.NewEngine(dir), log: log, hook: hook}

	w.acme = f.Organisation("Acme")
	w.globex = f.Organisation("Globex")
	w.eng1 = f.Department(w.acme.ID, "Engineering")
	w.sales = f.Department(w.globex.ID, "Sales")
	w.platform = f.Team("Platform", &w.eng1.ID)
	w.field = f.Team("Field", &w.sales.ID)

	w.superAdmin = f.User("root", models.RoleAdmin)
	w.acmeAdmin = f.User("acme-admin", models.RoleAdmin, testutil.AnchoredTo(w.acme.ID))
	w.manager = f.User("manager", models.RoleManager, testutil.InDepartment(w.eng1.ID))
	w.partner = f.User("partner", models.RolePartner)
	w.member = f.User("member", models.RoleUser, testutil.InDepartment(w.eng1.ID))
	w.peer = f.User("peer", models.RoleManager, testutil.InDepartment(w.eng1.ID))
	w.outsider = f.User("outsider", models.RoleUser, testutil.InDepartment(w.sales.ID))

	f.Manager(w.manager.ID, w.platform.ID)
	f.Partner(w.partner.ID, w.platform.ID)
	f.Member(w.member.ID, w.platform.ID)
	f.Member(w.peer.ID, w.platform.ID)
	f.Member(w.outsider.ID, w.field.ID)

	return w
}

func (w *world) actor(user *models.User) authz.Actor {
	return authz.NewActor(user)
}

func (w *world) reload(t *testing.T, id uint64) *models.User {
	t.Helper()
	var user models.User
	if err := w.db.First(&user, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &user
}
