package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/dto"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/testutil"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

type apiEnv struct {
	t       *testing.T
	db      *gorm.DB
	f       *testutil.Fixtures
	handler http.Handler
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log, _ := test.NewNullLogger()

	r := newSessionRouter()
	NewServer(db, log).Register(r)

	return &apiEnv{t: t, db: db, f: testutil.NewFixtures(t, db), handler: r}
}

// client carries one user's session cookies between requests.
type client struct {
	env     *apiEnv
	cookies []*http.Cookie
}

func (e *apiEnv) anonymous() *client {
	return &client{env: e}
}

func (e *apiEnv) login(username string) *client {
	e.t.Helper()
	c := &client{env: e}
	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": testPassword})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return c
}

func (c *client) do(method, path string, payload interface{}) *httptest.ResponseRecorder {
	c.env.t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(c.env.t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.env.handler.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type apiWorld struct {
	*apiEnv
	acme     *models.Organisation
	globex   *models.Organisation
	dept     *models.Department
	platform *models.Team
	field    *models.Team
	root     *models.User
	admin    *models.User
	manager  *models.User
	partner  *models.User
	member   *models.User
	outsider *models.User
}

func setupAPIWorld(t *testing.T) *apiWorld {
	t.Helper()
	env := setupAPI(t)
	f := env.f
	pw := testutil.WithPassword(testPassword)

	w := &apiWorld{apiEnv: env}
	w.acme = f.Organisation("Acme")
	w.globex = f.Organisation("Globex")
	w.dept = f.Department(w.acme.ID, "Engineering")
	sales := f.Department(w.globex.ID, "Sales")
	w.platform = f.Team("Platform", &w.dept.ID)
	w.field = f.Team("Field", &sales.ID)

	w.root = f.User("root", models.RoleAdmin, pw)
	w.admin = f.User("acme-admin", models.RoleAdmin, pw, testutil.AnchoredTo(w.acme.ID))
	w.manager = f.User("manager", models.RoleManager, pw, testutil.InDepartment(w.dept.ID))
	w.partner = f.User("partner", models.RolePartner, pw)
	w.member = f.User("member", models.RoleUser, pw, testutil.InDepartment(w.dept.ID))
	w.outsider = f.User("outsider", models.RoleUser, pw, testutil.InDepartment(sales.ID))

	f.Manager(w.manager.ID, w.platform.ID)
	f.Partner(w.partner.ID, w.platform.ID)
	f.Member(w.member.ID, w.platform.ID)
	f.Member(w.outsider.ID, w.field.ID)
	return w
}

func TestRouter_Health(t *testing.T) {
	env := setupAPI(t)
	w := env.anonymous().do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequiresSession(t *testing.T) {
	env := setupAPI(t)
	w := env.anonymous().do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ArchiveFlow(t *testing.T) {
	w := setupAPIWorld(t)
	manager := w.login("manager")
	member := w.login("member")

	res := member.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, res.Code)

	path := fmt.Sprintf("/api/users/%d/archive", w.member.ID)
	res = manager.do(http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var archived dto.UserDetailDTO
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &archived))
	assert.Equal(t, "archived", archived.State)
	require.NotNil(t, archived.ArchivedByID)
	assert.Equal(t, w.manager.ID, *archived.ArchivedByID)

	res = manager.do(http.MethodPost, path, nil)
	require.Equal(t, http.StatusConflict, res.Code)
	body := decodeError(t, res)
	assert.Equal(t, apierrors.ErrCodeInvalidTransition, body.Code)
	assert.Equal(t, "already archived", body.Message)

	// The member's existing session stops working.
	res = member.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, apierrors.ErrCodeAccountArchived, decodeError(t, res).Code)

	res = w.anonymous().do(http.MethodPost, "/api/auth/login", map[string]string{"username": "member", "password": testPassword})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = manager.do(http.MethodPost, fmt.Sprintf("/api/users/%d/unarchive", w.member.ID), nil)
	require.Equal(t, http.StatusOK, res.Code)
	w.login("member")
}

func TestRouter_Denials(t *testing.T) {
	w := setupAPIWorld(t)
	manager := w.login("manager")
	member := w.login("member")
	admin := w.login("acme-admin")

	tests := []struct {
		name   string
		client *client
		method string
		path   string
		body   interface{}
		status int
		reason string
	}{
		{"user cannot archive", member, http.MethodPost, fmt.Sprintf("/api/users/%d/archive", w.outsider.ID), nil, http.StatusForbidden, "insufficient role"},
		{"manager out of scope", manager, http.MethodPost, fmt.Sprintf("/api/users/%d/archive", w.outsider.ID), nil, http.StatusForbidden, "out of scope"},
		{"manager cannot list users", manager, http.MethodGet, "/api/users", nil, http.StatusForbidden, "insufficient role"},
		{"admin cross organisation", admin, http.MethodPost, fmt.Sprintf("/api/users/%d/archive", w.outsider.ID), nil, http.StatusForbidden, "cross-organisation access"},
		{"scoped admin cannot create organisation", admin, http.MethodPost, "/api/organisations", map[string]string{"name": "Umbrella"}, http.StatusForbidden, "insufficient role"},
		{"missing user", admin, http.MethodPost, "/api/users/9999/archive", nil, http.StatusNotFound, "user not found"},
		{"bad id", admin, http.MethodPost, "/api/users/abc/archive", nil, http.StatusBadRequest, "Invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.client.do(tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, res.Code, res.Body.String())
			assert.Equal(t, tt.reason, decodeError(t, res).Message)
		})
	}
}

func TestRouter_TeamMembership(t *testing.T) {
	w := setupAPIWorld(t)
	manager := w.login("manager")
	partner := w.login("partner")
	newcomer := w.f.User("newcomer", models.RoleUser, testutil.InDepartment(w.dept.ID))

	members := fmt.Sprintf("/api/teams/%d/members", w.platform.ID)
	res := manager.do(http.MethodPost, members, map[string]uint64{"user_id": newcomer.ID})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = manager.do(http.MethodPost, members, map[string]uint64{"user_id": newcomer.ID})
	require.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, apierrors.ErrCodeDuplicateRelation, decodeError(t, res).Code)

	res = partner.do(http.MethodGet, fmt.Sprintf("/api/teams/%d", w.platform.ID), nil)
	require.Equal(t, http.StatusOK, res.Code)
	var overview dto.TeamOverviewDTO
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &overview))
	assert.Len(t, overview.Members, 2)

	res = partner.do(http.MethodGet, fmt.Sprintf("%s/%d", members, newcomer.ID), nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = partner.do(http.MethodDelete, fmt.Sprintf("%s/%d", members, newcomer.ID), nil)
	require.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "read-only access", decodeError(t, res).Message)

	res = manager.do(http.MethodDelete, fmt.Sprintf("%s/%d", members, newcomer.ID), nil)
	require.Equal(t, http.StatusNoContent, res.Code)

	res = manager.do(http.MethodDelete, fmt.Sprintf("%s/%d", members, newcomer.ID), nil)
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "team membership not found", decodeError(t, res).Message)
}

func TestRouter_AdminSetup(t *testing.T) {
	w := setupAPIWorld(t)
	root := w.login("root")

	res := root.do(http.MethodPost, "/api/organisations", map[string]string{"name": "Initech"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var org dto.OrganisationDTO
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &org))

	res = root.do(http.MethodPost, fmt.Sprintf("/api/organisations/%d/departments", org.ID), map[string]string{"name": "Ops"})
	require.Equal(t, http.StatusCreated, res.Code)
	var dept dto.DepartmentDTO
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &dept))

	res = root.do(http.MethodPost, "/api/teams", map[string]interface{}{"name": "SRE", "department_id": dept.ID})
	require.Equal(t, http.StatusCreated, res.Code)
	var team dto.TeamDTO
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &team))

	res = root.do(http.MethodPut, fmt.Sprintf("/api/users/%d/role", w.member.ID), map[string]string{"role": "manager"})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = root.do(http.MethodPost, fmt.Sprintf("/api/teams/%d/managers", team.ID), map[string]uint64{"user_id": w.member.ID})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = root.do(http.MethodPost, fmt.Sprintf("/api/teams/%d/partners", team.ID), map[string]uint64{"user_id": w.member.ID})
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = root.do(http.MethodGet, "/api/users?role=manager", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var list dto.UserListResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	assert.EqualValues(t, 2, list.Pagination.Total)

	res = root.do(http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil)
	require.Equal(t, http.StatusNoContent, res.Code)
}

func TestRouter_DeleteUserCascades(t *testing.T) {
	w := setupAPIWorld(t)
	member := w.login("member")
	admin := w.login("acme-admin")

	res := member.do(http.MethodPost, "/api/entries", map[string]interface{}{"title": "Kubernetes course", "hours": 12})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var entry dto.EntryDTO
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &entry))

	res = member.do(http.MethodPost, fmt.Sprintf("/api/entries/%d/documents", entry.ID), map[string]interface{}{"filename": "cert.pdf", "size_bytes": 100})
	require.Equal(t, http.StatusCreated, res.Code)

	res = member.do(http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var entries dto.EntryListResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &entries))
	require.Len(t, entries.Entries, 1)
	assert.Len(t, entries.Entries[0].Documents, 1)

	res = admin.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", w.member.ID), nil)
	require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

	var count int64
	require.NoError(t, w.db.Model(&models.Document{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, w.db.Model(&models.TeamMembership{}).Where("user_id = ?", w.member.ID).Count(&count).Error)
	assert.Zero(t, count)

	res = member.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
