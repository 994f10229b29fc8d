package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crm-api/internal/dto"
	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

type deleteResponse struct {
	Message string           `json:"message"`
	Deleted map[string]int64 `json:"deleted"`
}

type teamMembersResponse struct {
	TeamMembers []dto.TeamMemberDTO `json:"team_members"`
}

type activityResponse struct {
	ID         uint64                 `json:"id"`
	ActionType string                 `json:"action_type"`
	TargetType string                 `json:"target_type"`
	TargetID   uint64                 `json:"target_id"`
	Target     map[string]interface{} `json:"target"`
}

func createLead(t *testing.T, env testEnv, cookies []*http.Cookie, body map[string]interface{}) dto.LeadDTO {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/leads", body, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.LeadDTO](t, w)
}

func TestLeadRoutes_RequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/leads", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeadRoutes_CreateAllocatesLeadID(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")

	lead := createLead(t, env, cookies, map[string]interface{}{
		"lead_id":          "HACKED-1",
		"property_address": "1 Main St",
		"owner_name":       "Alice",
	})

	prefix := repository.LeadIDPrefix(time.Now().Year())
	require.Equal(t, prefix+"0001", lead.LeadID)
	require.Equal(t, models.LeadStatusNew, lead.Status)

	second := createLead(t, env, cookies, map[string]interface{}{"property_address": "2 Main St"})
	require.Equal(t, prefix+"0002", second.LeadID)

	w := env.do(t, http.MethodGet, "/api/lead-ids/"+lead.LeadID, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, lead.ID, decode[dto.LeadDTO](t, w).ID)
}

func TestLeadRoutes_ListFilters(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")

	createLead(t, env, cookies, map[string]interface{}{"property_address": "12 Oak Ave", "owner_name": "Bob"})
	createLead(t, env, cookies, map[string]interface{}{"property_address": "99 Pine Rd", "status": "contacted"})

	w := env.do(t, http.MethodGet, "/api/leads", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[dto.ListResponse[dto.LeadDTO]](t, w)
	require.Len(t, all.Data, 2)
	require.Equal(t, int64(2), all.Pagination.Total)
	require.Nil(t, all.Pagination.Limit)

	w = env.do(t, http.MethodGet, "/api/leads?status=contacted", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	contacted := decode[dto.ListResponse[dto.LeadDTO]](t, w)
	require.Len(t, contacted.Data, 1)
	require.Equal(t, "99 Pine Rd", contacted.Data[0].PropertyAddress)

	w = env.do(t, http.MethodGet, "/api/leads?status=bogus", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[dto.ListResponse[dto.LeadDTO]](t, w).Data)

	w = env.do(t, http.MethodGet, "/api/leads?created_by_user_id=abc", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[dto.ListResponse[dto.LeadDTO]](t, w).Data)

	w = env.do(t, http.MethodGet, "/api/leads?search=oak&sortBy=createdAt&sortOrder=asc", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	searched := decode[dto.ListResponse[dto.LeadDTO]](t, w)
	require.Len(t, searched.Data, 1)
	require.Equal(t, "Bob", searched.Data[0].OwnerName)
}

func TestLeadRoutes_SearchBody(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")

	createLead(t, env, cookies, map[string]interface{}{"property_address": "100% Real Estate"})
	createLead(t, env, cookies, map[string]interface{}{"property_address": "1000 Real Estate"})

	w := env.do(t, http.MethodPost, "/api/leads/search", map[string]interface{}{"search": "100%"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[dto.ListResponse[dto.LeadDTO]](t, w)
	require.Len(t, found.Data, 1)
	require.Equal(t, "100% Real Estate", found.Data[0].PropertyAddress)

	w = env.do(t, http.MethodPost, "/api/leads/search", map[string]interface{}{"limit": 1, "offset": 1}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.ListResponse[dto.LeadDTO]](t, w)
	require.Len(t, page.Data, 1)
	require.Equal(t, int64(2), page.Pagination.Total)
}

func TestLeadRoutes_UpdateAndGet(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")
	lead := createLead(t, env, cookies, map[string]interface{}{"property_address": "5 Elm St"})

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/leads/%d", lead.ID), map[string]interface{}{"status": "qualified"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.LeadStatus("qualified"), decode[dto.LeadDTO](t, w).Status)

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/leads/%d", lead.ID), map[string]interface{}{"status": "nope"}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/leads/%d", lead.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.LeadDTO](t, w)
	require.Equal(t, "5 Elm St", got.PropertyAddress)
	require.Equal(t, lead.LeadID, got.LeadID)

	w = env.do(t, http.MethodGet, "/api/leads/abc", nil, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadRoutes_DeleteCascades(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")
	lead := createLead(t, env, cookies, map[string]interface{}{"property_address": "7 Birch Ln"})

	w := env.do(t, http.MethodPost, "/api/calls", map[string]interface{}{
		"lead_id":          lead.ID,
		"direction":        "outbound",
		"duration_seconds": 60,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/timesheets", map[string]interface{}{
		"lead_id": lead.ID,
		"date":    "2026-03-02",
		"hours":   1.5,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/leads/%d/calls", lead.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[dto.ListResponse[models.Call]](t, w).Data, 1)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode[deleteResponse](t, w)
	require.Equal(t, int64(1), deleted.Deleted["calls"])
	require.Equal(t, int64(1), deleted.Deleted["timesheets"])
	require.Equal(t, int64(0), deleted.Deleted["scheduled_calls"])

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/leads/%d", lead.ID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/calls", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[dto.ListResponse[models.Call]](t, w).Data)
}

func TestTimesheetRoutes_ApproveRequiresManager(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")

	w := env.do(t, http.MethodPost, "/api/timesheets", map[string]interface{}{"date": "2026-03-02", "hours": 8}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ts := decode[models.Timesheet](t, w)
	require.False(t, ts.Approved)

	path := fmt.Sprintf("/api/timesheets/%d/approve", ts.ID)
	w = env.do(t, http.MethodPost, path, nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	me := decode[dto.UserDTO](t, w)
	require.NoError(t, env.db.Model(&models.TeamMember{}).
		Where("user_id = ?", me.ID).
		Update("role", models.TeamRoleManager).Error)

	w = env.do(t, http.MethodPost, path, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, decode[models.Timesheet](t, w).Approved)

	w = env.do(t, http.MethodPost, "/api/timesheets", map[string]interface{}{"date": "2026-03-02", "hours": 25}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityRoutes_GetIncludesTarget(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "agent")
	lead := createLead(t, env, cookies, map[string]interface{}{"property_address": "3 Cedar Ct"})

	w := env.do(t, http.MethodGet, "/api/activities?target_type=lead&action_type=create", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListResponse[models.Activity]](t, w)
	require.Len(t, list.Data, 1)
	require.Equal(t, lead.ID, list.Data[0].TargetID)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/activities/%d", list.Data[0].ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[activityResponse](t, w)
	require.Equal(t, "lead", got.TargetType)
	require.NotNil(t, got.Target)
	require.Equal(t, lead.LeadID, got.Target["lead_id"])
}

func TestTeamMemberRoutes_Upsert(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t, "boss")

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	boss := decode[dto.UserDTO](t, w)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/team-members/%d", boss.ID), map[string]interface{}{"role": "admin"}, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, env.db.Model(&models.TeamMember{}).
		Where("user_id = ?", boss.ID).
		Update("role", models.TeamRoleAdmin).Error)

	env.login(t, "worker")
	w = env.do(t, http.MethodGet, "/api/team-members?role=agent", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	agents := decode[teamMembersResponse](t, w)
	require.Len(t, agents.TeamMembers, 1)
	workerID := agents.TeamMembers[0].UserID

	phone := "555-0100"
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/team-members/%d", workerID), map[string]interface{}{
		"role":  "manager",
		"phone": phone,
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.TeamMemberDTO](t, w)
	require.Equal(t, models.TeamRoleManager, updated.Role)
	require.Equal(t, phone, updated.Phone)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/team-members/%d", workerID), map[string]interface{}{"role": "emperor"}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/team-members/9999", map[string]interface{}{"role": "agent"}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/team-members/%d", workerID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/team-members/%d", workerID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/team-members/%d", workerID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}
